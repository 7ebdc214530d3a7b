package modules

import (
	"context"
	"fmt"

	"github.com/Abragus/syncsmith/pkg/errors"
	"github.com/Abragus/syncsmith/pkg/filesync"
	"github.com/Abragus/syncsmith/pkg/filesystem"
	"github.com/Abragus/syncsmith/pkg/logging"
)

// preset fixes the source and target of a module
type preset struct {
	source string
	target string
}

// syncModule reconciles the entries of one ActionSpec with an Action
type syncModule struct {
	name   string
	action filesync.Action
	deps   Deps
	preset *preset
}

func newSyncModule(name string, action filesync.Action, deps Deps, p *preset) *syncModule {
	return &syncModule{name: name, action: action, deps: deps, preset: p}
}

func (m *syncModule) Name() string {
	return m.name
}

func (m *syncModule) spec(cfg Config) (filesync.ActionSpec, error) {
	raw := make(map[string]any, len(cfg)+2)
	for k, v := range cfg {
		raw[k] = v
	}
	if m.preset != nil {
		raw["source"] = m.preset.source
		raw["target"] = m.preset.target
	}
	return filesync.DecodeActionSpec(raw)
}

// targetFS returns the FS mutations should go through
func (m *syncModule) targetFS(ctx context.Context, sudo bool) filesystem.FS {
	if sudo {
		return filesystem.NewSudoFS(ctx, m.deps.FS, m.deps.Commander)
	}
	return m.deps.FS
}

func (m *syncModule) reconciler(fsys filesystem.FS, gate *filesync.Gate, sudo bool) *filesync.Reconciler {
	s := m.deps.Settings
	var restorer filesync.ContextRestorer
	if s.Security.RestoreContext {
		restorer = filesync.NewRestorecon(s.Security.Restorecon, m.deps.Commander, sudo)
	}
	backup := filesync.BackupOptions{Suffix: s.Backup.Suffix, Overwrite: s.OverwriteBackups()}
	return filesync.NewReconciler(fsys, gate, backup, restorer)
}

func (m *syncModule) Apply(ctx context.Context, cfg Config, dryRun bool) error {
	logger := logging.GetLogger("modules." + m.name)

	spec, err := m.spec(cfg)
	if err != nil {
		return err
	}

	fsys := m.targetFS(ctx, spec.Sudo)
	gate := filesync.NewGate(dryRun, m.deps.Printer)
	planner := filesync.NewPlanner(fsys, m.deps.Paths.Resolver(), gate)

	entries, err := planner.Plan(spec)
	if err != nil {
		return err
	}

	policy := filesync.PolicyFor(spec, m.deps.Settings.Security.RestoreContext)
	changed, err := m.reconciler(fsys, gate, spec.Sudo).Apply(ctx, entries, m.action, policy)
	if err != nil {
		return errors.Wrapf(err, errors.GetErrorCode(err), "%s %s failed", m.name, spec.Source)
	}

	logger.Debug().
		Str("source", spec.Source).
		Str("target", spec.Target).
		Int("entries", len(entries)).
		Bool("changed", changed).
		Msg("Module applied")

	if !changed {
		m.deps.Printer.Info(fmt.Sprintf("%s already in sync with %s", spec.Target, spec.Source))
	}
	return nil
}

func (m *syncModule) Rollback(ctx context.Context, cfg Config, dryRun bool) error {
	logger := logging.GetLogger("modules." + m.name)

	spec, err := m.spec(cfg)
	if err != nil {
		return err
	}

	fsys := m.targetFS(ctx, spec.Sudo)
	entries, err := m.plan(fsys, spec)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrNotFound) {
			logger.Debug().Err(err).Msg("Source missing, nothing to roll back")
			return nil
		}
		return err
	}

	gate := filesync.NewGate(dryRun, m.deps.Printer)
	changed, err := m.reconciler(fsys, gate, spec.Sudo).Rollback(ctx, entries, nil)
	if err != nil {
		return err
	}
	if !changed {
		m.deps.Printer.Info(fmt.Sprintf("nothing to roll back for %s", spec.Target))
	}
	return nil
}

// Status reports entry states without changing anything
func (m *syncModule) Status(ctx context.Context, cfg Config) ([]filesync.EntryStatus, error) {
	spec, err := m.spec(cfg)
	if err != nil {
		return nil, err
	}

	entries, err := m.plan(m.deps.FS, spec)
	if err != nil {
		return nil, err
	}

	quiet := filesync.NewGate(true, nil)
	policy := filesync.PolicyFor(spec, false)
	return m.reconciler(m.deps.FS, quiet, false).Status(entries, policy), nil
}

// plan expands spec without creating contents-mode target directories
func (m *syncModule) plan(fsys filesystem.FS, spec filesync.ActionSpec) ([]filesync.Entry, error) {
	quiet := filesync.NewGate(true, nil)
	return filesync.NewPlanner(fsys, m.deps.Paths.Resolver(), quiet).Plan(spec)
}
