package runner

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Abragus/syncsmith/pkg/errors"
	"github.com/Abragus/syncsmith/pkg/logging"
	"github.com/Abragus/syncsmith/pkg/modules"
	"github.com/Abragus/syncsmith/pkg/output"
	"github.com/Abragus/syncsmith/pkg/registry"
)

// Summary counts what a run did
type Summary struct {
	Ran     int
	Skipped int
	Failed  int
}

// Runner executes module entries
type Runner struct {
	registry registry.Registry[modules.Descriptor]
	deps     modules.Deps
}

// New creates a runner over reg
func New(reg registry.Registry[modules.Descriptor], deps modules.Deps) *Runner {
	return &Runner{registry: reg, deps: deps}
}

type phase struct {
	verb string
	run  func(ctx context.Context, m modules.Module, cfg modules.Config, dryRun bool) error
}

var (
	applyPhase = phase{verb: "run", run: func(ctx context.Context, m modules.Module, cfg modules.Config, dryRun bool) error {
		return m.Apply(ctx, cfg, dryRun)
	}}
	rollbackPhase = phase{verb: "roll back", run: func(ctx context.Context, m modules.Module, cfg modules.Config, dryRun bool) error {
		return m.Rollback(ctx, cfg, dryRun)
	}}
)

// Apply runs every entry in order. Failures are reported and collected;
// the returned error joins them.
func (r *Runner) Apply(ctx context.Context, cfgs []modules.Config, dryRun bool) (Summary, error) {
	return r.execute(ctx, cfgs, dryRun, applyPhase)
}

// Rollback rolls back every entry in reverse order
func (r *Runner) Rollback(ctx context.Context, cfgs []modules.Config, dryRun bool) (Summary, error) {
	reversed := make([]modules.Config, len(cfgs))
	for i, cfg := range cfgs {
		reversed[len(cfgs)-1-i] = cfg
	}
	return r.execute(ctx, reversed, dryRun, rollbackPhase)
}

func (r *Runner) execute(ctx context.Context, cfgs []modules.Config, dryRun bool, ph phase) (Summary, error) {
	logger := logging.GetLogger("runner")
	printer := r.deps.Printer

	var (
		summary Summary
		errs    []error
	)
	seen := make(map[string]bool)

	for i, cfg := range cfgs {
		if err := ctx.Err(); err != nil {
			return summary, stderrors.Join(append(errs, err)...)
		}

		name := cfg.Name()
		desc, err := r.registry.Get(name)
		if err != nil {
			printer.Error(fmt.Sprintf("Unknown module '%s', skipping", name))
			errs = append(errs, errors.Newf(errors.ErrModuleUnknown, "unknown module %q", name).
				WithDetail("index", i))
			summary.Failed++
			continue
		}

		if desc.SingleInstance && seen[desc.Name] {
			printer.Warning(fmt.Sprintf("Module '%s' is single-instance and has already run, skipping", desc.Name))
			summary.Skipped++
			continue
		}

		if !cfg.Enabled() {
			printer.Warning(fmt.Sprintf("Module '%s' is disabled in config, skipping", desc.Name))
			summary.Skipped++
			continue
		}

		printer.Module(desc.Name)
		logger.Info().Str("module", desc.Name).Int("index", i).Bool("dry_run", dryRun).Msgf("Module %s", ph.verb)

		if err := ph.run(ctx, desc.New(r.deps), cfg, dryRun); err != nil {
			printer.Error(fmt.Sprintf("Failed to %s module '%s': %v", ph.verb, desc.Name, err))
			logger.Error().Err(err).Str("module", desc.Name).Msg("Module failed")
			errs = append(errs, errors.Wrapf(err, errors.ErrModuleExecute, "module %s", desc.Name).
				WithDetail("index", i))
			summary.Failed++
			continue
		}

		seen[desc.Name] = true
		summary.Ran++
	}

	return summary, stderrors.Join(errs...)
}

// Status reports the state of every enabled symlink and copy entry
func (r *Runner) Status(ctx context.Context, cfgs []modules.Config) []output.StatusRow {
	var rows []output.StatusRow
	seen := make(map[string]bool)

	for _, cfg := range cfgs {
		desc, err := r.registry.Get(cfg.Name())
		if err != nil || !cfg.Enabled() || (desc.SingleInstance && seen[desc.Name]) {
			continue
		}
		seen[desc.Name] = true

		inspector, ok := desc.New(r.deps).(modules.Inspector)
		if !ok {
			continue
		}

		statuses, err := inspector.Status(ctx, cfg)
		if err != nil {
			target, _ := cfg["target"].(string)
			source, _ := cfg["source"].(string)
			rows = append(rows, output.StatusRow{
				Module: desc.Name,
				Target: target,
				Source: source,
				State:  "error",
			})
			continue
		}

		for _, s := range statuses {
			rows = append(rows, output.StatusRow{
				Module: desc.Name,
				Target: s.Target,
				Source: r.relative(s.Source),
				State:  string(s.State),
			})
		}
	}
	return rows
}

// relative shortens paths inside the root
func (r *Runner) relative(path string) string {
	if r.deps.Paths == nil {
		return path
	}
	rel, err := filepath.Rel(r.deps.Paths.Root(), path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
