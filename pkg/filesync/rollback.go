package filesync

import (
	"context"
	"fmt"

	"github.com/Abragus/syncsmith/pkg/errors"
	"github.com/Abragus/syncsmith/pkg/filesystem"
	"github.com/Abragus/syncsmith/pkg/logging"
)

// RemoveFunc removes a target created by apply. It reports whether the
// target was (or in a dry run would be) removed. All mutations must go
// through gate.
type RemoveFunc func(fsys filesystem.FS, gate *Gate, source, target string) (bool, error)

// RemoveSynced removes target only if it is still the synced source: a
// matching symlink or an identical regular file. Directories and unrelated
// content are left alone.
func RemoveSynced(fsys filesystem.FS, gate *Gate, source, target string) (bool, error) {
	if !IsSynced(fsys, source, target) {
		return false, nil
	}
	err := gate.Do("remove "+target, func() error {
		return fsys.Remove(target)
	})
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to remove %s", target).
			WithDetail("target", target)
	}
	return true, nil
}

// Rollback undoes Apply: each target created from its source is removed
// and any backup is moved back into place. A backup is only restored into
// a free slot. Rolling back twice, or without a prior apply, is a no-op.
func (r *Reconciler) Rollback(ctx context.Context, entries []Entry, remove RemoveFunc) (bool, error) {
	logger := logging.GetLogger("filesync.rollback")
	if remove == nil {
		remove = RemoveSynced
	}
	changed := false

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return changed, err
		}

		target := resolveTarget(entry)
		free := true

		if filesystem.Exists(r.fs, target) {
			removed, err := remove(r.fs, r.gate, entry.Source, target)
			if err != nil {
				return changed, err
			}
			free = removed
			changed = changed || removed
		}

		backup := r.BackupPath(target)
		if !filesystem.Exists(r.fs, backup) {
			continue
		}

		if !free {
			msg := fmt.Sprintf("not restoring %s: %s is occupied by other content", backup, target)
			logger.Warn().Str("target", target).Str("backup", backup).Msg("Backup not restored")
			r.gate.Reporter().Warning(msg)
			continue
		}

		err := r.gate.Do(fmt.Sprintf("restore %s to %s", backup, target), func() error {
			return r.fs.Rename(backup, target)
		})
		if err != nil {
			return changed, errors.Wrapf(err, errors.ErrFileAccess, "failed to restore %s", backup).
				WithDetail("backup", backup)
		}
		changed = true
	}

	return changed, nil
}
