package filesync_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Abragus/syncsmith/pkg/filesync"
	"github.com/Abragus/syncsmith/pkg/filesystem"
	"github.com/Abragus/syncsmith/pkg/paths"
)

type recorder struct {
	dryRuns  []string
	actions  []string
	warnings []string
}

func (r *recorder) DryRun(desc string) { r.dryRuns = append(r.dryRuns, desc) }
func (r *recorder) Action(desc string) { r.actions = append(r.actions, desc) }
func (r *recorder) Warning(msg string) { r.warnings = append(r.warnings, msg) }

type env struct {
	t        *testing.T
	root     string
	files    string
	compiled string
	home     string
	fs       filesystem.FS
	rec      *recorder
	gates    map[bool]*filesync.Gate
}

func newEnv(t *testing.T) *env {
	t.Helper()
	root := t.TempDir()
	e := &env{
		t:        t,
		root:     root,
		files:    filepath.Join(root, "files"),
		compiled: filepath.Join(root, "compiled_files"),
		home:     filepath.Join(root, "home"),
		fs:       filesystem.NewOS(),
		rec:      &recorder{},
		gates:    make(map[bool]*filesync.Gate),
	}
	require.NoError(t, os.MkdirAll(e.files, 0755))
	require.NoError(t, os.MkdirAll(e.compiled, 0755))
	require.NoError(t, os.MkdirAll(e.home, 0755))
	return e
}

func (e *env) write(path, content string) string {
	e.t.Helper()
	require.NoError(e.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// gate returns the env's gate for dryRun, shared by planner and reconciler
func (e *env) gate(dryRun bool) *filesync.Gate {
	if g, ok := e.gates[dryRun]; ok {
		return g
	}
	g := filesync.NewGate(dryRun, e.rec)
	e.gates[dryRun] = g
	return g
}

func (e *env) planner(dryRun bool) *filesync.Planner {
	return filesync.NewPlanner(e.fs, paths.NewResolver(e.compiled, e.files), e.gate(dryRun))
}

func (e *env) reconciler(dryRun bool, backup filesync.BackupOptions) *filesync.Reconciler {
	return filesync.NewReconciler(e.fs, e.gate(dryRun), backup, nil)
}

func (e *env) plan(dryRun bool, source, target string) []filesync.Entry {
	e.t.Helper()
	entries, err := e.planner(dryRun).Plan(filesync.ActionSpec{Source: source, Target: target})
	require.NoError(e.t, err)
	return entries
}

// snapshot records every path under root with its type, mode, link value
// and content
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := os.Lstat(path)
		if err != nil {
			return err
		}
		desc := info.Mode().String()
		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			desc += " -> " + link
		case info.Mode().IsRegular():
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			desc += " " + string(data)
		}
		out[path] = desc
		return nil
	})
	require.NoError(t, err)
	return out
}
