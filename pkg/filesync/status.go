package filesync

import (
	"github.com/Abragus/syncsmith/pkg/filesystem"
)

// State is the reconciliation state of one entry
type State string

const (
	// StateSynced means apply would do nothing
	StateSynced State = "synced"
	// StatePending means apply would place or fix the target
	StatePending State = "pending"
	// StateConflict means apply would refuse because a backup is in the way
	StateConflict State = "conflict"
	// StateBackedUp means the target is synced and a backup awaits rollback
	StateBackedUp State = "backed-up"
)

// EntryStatus describes one entry without changing anything
type EntryStatus struct {
	Source   string
	Target   string
	State    State
	PolicyOK bool
}

// Status inspects entries read-only
func (r *Reconciler) Status(entries []Entry, policy Policy) []EntryStatus {
	out := make([]EntryStatus, 0, len(entries))
	for _, entry := range entries {
		target := resolveTarget(entry)
		synced := IsSynced(r.fs, entry.Source, target)
		policyOK := filesystem.Exists(r.fs, target) && PermissionsMatch(r.fs, target, policy)
		hasBackup := filesystem.Exists(r.fs, r.BackupPath(target))
		present := filesystem.Exists(r.fs, target)

		var state State
		switch {
		case synced && policyOK && hasBackup:
			state = StateBackedUp
		case synced && policyOK:
			state = StateSynced
		case present && hasBackup && !r.backup.Overwrite:
			state = StateConflict
		default:
			state = StatePending
		}

		out = append(out, EntryStatus{
			Source:   entry.Source,
			Target:   target,
			State:    state,
			PolicyOK: policyOK,
		})
	}
	return out
}
