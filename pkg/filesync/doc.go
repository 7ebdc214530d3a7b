// Package filesync reconciles targets on disk with their declared sources.
//
// An ActionSpec names a source, a target and an optional policy. The
// Planner expands it into Entries, one per (source, target) pair; a source
// ending in "/*" is expanded to one entry per child of the directory. The
// Reconciler then brings each entry into sync with a pluggable Action
// (Symlink or Copy), moving any conflicting target aside to a backup first,
// and enforces the policy. Rollback removes what Apply created and restores
// the backups.
//
// Every mutation passes through a Gate, so a dry run performs none of them
// and reports each instead.
package filesync
