package filesync

import (
	"github.com/Abragus/syncsmith/pkg/filesystem"
	"github.com/Abragus/syncsmith/pkg/logging"
)

// Reporter receives the user-facing account of a reconciliation
type Reporter interface {
	// DryRun reports a mutation that was not performed
	DryRun(desc string)
	// Action reports a mutation about to be performed
	Action(desc string)
	// Warning reports a condition the user should look at
	Warning(msg string)
}

// NopReporter discards everything
type NopReporter struct{}

func (NopReporter) DryRun(string)  {}
func (NopReporter) Action(string)  {}
func (NopReporter) Warning(string) {}

// Gate is the single checkpoint every mutation passes through. In dry-run
// mode it reports the mutation instead of running it.
type Gate struct {
	dryRun   bool
	reporter Reporter
	// directories reported as created in a dry run
	made map[string]bool
}

// NewGate creates a gate. A nil reporter discards output.
func NewGate(dryRun bool, reporter Reporter) *Gate {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Gate{dryRun: dryRun, reporter: reporter, made: make(map[string]bool)}
}

// DryRun reports whether mutations are suppressed
func (g *Gate) DryRun() bool {
	return g.dryRun
}

// Reporter returns the gate's reporter
func (g *Gate) Reporter() Reporter {
	return g.reporter
}

// Do runs fn unless this is a dry run. desc is a lower-case verb phrase
// such as "create symlink a -> b".
func (g *Gate) Do(desc string, fn func() error) error {
	logger := logging.GetLogger("filesync.gate")

	if g.dryRun {
		logger.Debug().Str("action", desc).Msg("Skipping mutation in dry run")
		g.reporter.DryRun(desc)
		return nil
	}

	logger.Debug().Str("action", desc).Msg("Performing mutation")
	g.reporter.Action(desc)
	return fn()
}

// MkdirAll creates dir and its parents unless dir already exists. In a dry
// run each directory is reported once and counts as existing afterwards.
func (g *Gate) MkdirAll(fsys filesystem.FS, dir string) error {
	if g.made[dir] || filesystem.Exists(fsys, dir) {
		return nil
	}
	err := g.Do("create directory "+dir, func() error {
		return fsys.MkdirAll(dir, dirPerm)
	})
	if err == nil && g.dryRun {
		g.made[dir] = true
	}
	return err
}
