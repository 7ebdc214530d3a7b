package filesync

import (
	"github.com/Abragus/syncsmith/pkg/filesystem"
)

// DefaultBackupSuffix is appended to a target moved aside
const DefaultBackupSuffix = ".bak"

// BackupOptions controls how conflicting targets are moved aside
type BackupOptions struct {
	Suffix string
	// Overwrite allows replacing a backup left by an earlier apply
	Overwrite bool
}

// Reconciler applies and rolls back planned entries
type Reconciler struct {
	fs       filesystem.FS
	gate     *Gate
	backup   BackupOptions
	restorer ContextRestorer
}

// NewReconciler creates a reconciler. restorer may be nil when security
// contexts are not managed.
func NewReconciler(fsys filesystem.FS, gate *Gate, backup BackupOptions, restorer ContextRestorer) *Reconciler {
	if backup.Suffix == "" {
		backup.Suffix = DefaultBackupSuffix
	}
	return &Reconciler{fs: fsys, gate: gate, backup: backup, restorer: restorer}
}

// BackupPath returns where target is moved aside to
func (r *Reconciler) BackupPath(target string) string {
	return target + r.backup.Suffix
}
