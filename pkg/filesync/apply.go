package filesync

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Abragus/syncsmith/pkg/errors"
	"github.com/Abragus/syncsmith/pkg/filesystem"
	"github.com/Abragus/syncsmith/pkg/logging"
)

// Apply brings every entry in sync using action and enforces policy. It
// reports whether anything was changed, or in a dry run would have been.
// Entries are processed in order and the first error stops the pass.
func (r *Reconciler) Apply(ctx context.Context, entries []Entry, action Action, policy Policy) (bool, error) {
	logger := logging.GetLogger("filesync.apply")
	changed := false

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return changed, err
		}

		c, err := r.applyEntry(ctx, entry, action, policy)
		changed = changed || c
		if err != nil {
			logger.Debug().Err(err).Str("target", entry.Target).Msg("Entry failed")
			return changed, err
		}
	}

	return changed, nil
}

func (r *Reconciler) applyEntry(ctx context.Context, entry Entry, action Action, policy Policy) (bool, error) {
	logger := logging.GetLogger("filesync.apply").With().
		Str("source", entry.Source).
		Str("target", entry.Target).
		Logger()
	changed := false

	if !links(action) {
		if info, err := r.fs.Stat(entry.Source); err == nil && info.IsDir() {
			logger.Warn().Msg("Skipping directory source")
			r.gate.Reporter().Warning(fmt.Sprintf("skipping directory %s: %s only syncs files", entry.Source, action.Name()))
			return false, nil
		}
	}

	parent := filepath.Dir(entry.Target)
	if err := r.gate.MkdirAll(r.fs, parent); err != nil {
		return false, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", parent).
			WithDetail("path", parent)
	}

	target := resolveTarget(entry)

	if filesystem.Exists(r.fs, target) {
		if IsSynced(r.fs, entry.Source, target) && PermissionsMatch(r.fs, target, policy) {
			logger.Debug().Msg("Already synced")
			return false, nil
		}

		// In a dry run the target stays put; the action is still reported
		// as it would follow the backup.
		if err := r.moveAside(target); err != nil {
			return false, err
		}
		changed = true
	}

	err := r.gate.Do(action.Describe(entry.Source, target), func() error {
		return action.Perform(r.fs, entry.Source, target)
	})
	if err != nil {
		return changed, err
	}
	changed = true

	enforced, err := r.enforce(ctx, target, action, policy)
	return changed || enforced, err
}

// moveAside renames target to its backup path
func (r *Reconciler) moveAside(target string) error {
	backup := r.BackupPath(target)
	if filesystem.Exists(r.fs, backup) && !r.backup.Overwrite {
		return errors.Newf(errors.ErrBackupExists,
			"backup %s already exists; roll back first or allow overwriting backups", backup).
			WithDetail("target", target).
			WithDetail("backup", backup)
	}

	err := r.gate.Do(fmt.Sprintf("back up %s to %s", target, backup), func() error {
		return r.fs.Rename(target, backup)
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to back up %s", target).
			WithDetail("target", target)
	}
	return nil
}

// enforce applies the policy to target. A target that does not exist can
// only occur in a dry run, where every step is reported. Modes are never
// set through a symlink: chmod would change the source instead.
func (r *Reconciler) enforce(ctx context.Context, target string, action Action, policy Policy) (bool, error) {
	exists := filesystem.Exists(r.fs, target)
	changed := false

	if policy.Mode != nil && isLink(r.fs, target, action) {
		logger := logging.GetLogger("filesync.apply")
		logger.Warn().Str("target", target).Msg("Mode not applied to symlink")
		r.gate.Reporter().Warning(fmt.Sprintf("not setting mode on %s: a symlink takes the mode of its source", target))
	} else if policy.Mode != nil && !(exists && modeMatches(r.fs, target, policy)) {
		mode := *policy.Mode
		err := r.gate.Do(fmt.Sprintf("set mode %04o on %s", uint32(mode.Perm()), target), func() error {
			return r.fs.Chmod(target, mode)
		})
		if err != nil {
			return changed, errors.Wrapf(err, errors.ErrPermission, "failed to set mode on %s", target).
				WithDetail("target", target)
		}
		changed = true
	}

	if policy.Owner != nil && !(exists && ownerMatches(r.fs, target, policy)) {
		owner := *policy.Owner
		err := r.gate.Do(fmt.Sprintf("set owner %s on %s", owner, target), func() error {
			return r.fs.Lchown(target, owner.UID, owner.GID)
		})
		if err != nil {
			return changed, errors.Wrapf(err, errors.ErrPermission, "failed to set owner on %s", target).
				WithDetail("target", target)
		}
		changed = true
	}

	if policy.RestoreContext && r.restorer != nil && r.restorer.Enabled() {
		needed := true
		if exists {
			var err error
			needed, err = r.restorer.NeedsRestore(ctx, target)
			if err != nil {
				return changed, err
			}
		}
		if needed {
			err := r.gate.Do("restore security context of "+target, func() error {
				return r.restorer.Restore(ctx, target)
			})
			if err != nil {
				return changed, err
			}
			changed = true
		}
	}

	return changed, nil
}
