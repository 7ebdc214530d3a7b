// Package runner executes the modules of a pruned configuration in order.
//
// Unknown modules are reported and skipped, disabled entries are skipped,
// single-instance modules run at most once, and a failing module does not
// stop the run. Rollback visits the same entries in reverse.
package runner
