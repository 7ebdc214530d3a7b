package testutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/Abragus/syncsmith/pkg/config"
	"github.com/Abragus/syncsmith/pkg/filesystem"
	"github.com/Abragus/syncsmith/pkg/paths"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment provides a syncsmith root, a home directory and the
// collaborators derived from them
type TestEnvironment struct {
	Root    string
	HomeDir string

	FS       filesystem.FS
	Paths    *paths.Paths
	Settings *config.Settings

	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment. HOME points at the
// environment's home directory for the rest of the test.
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}

	switch envType {
	case EnvMemoryOnly:
		env.Root = "/virtual/syncsmith"
		env.HomeDir = "/virtual/home"
		env.FS = filesystem.NewAferoFS(afero.NewMemMapFs())
	case EnvIsolated:
		base := t.TempDir()
		env.Root = filepath.Join(base, "syncsmith")
		env.HomeDir = filepath.Join(base, "home")
		env.FS = filesystem.NewOS()
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv(paths.EnvRoot, "")

	settings, err := config.Default()
	if err != nil {
		t.Fatalf("Failed to load default settings: %v", err)
	}
	settings.Root = env.Root
	settings.Security.RestoreContext = false
	env.Settings = settings

	p, err := paths.New(env.Root, settings.Layout())
	if err != nil {
		t.Fatalf("Failed to create paths: %v", err)
	}
	env.Paths = p

	for _, dir := range []string{env.Root, p.FilesDir(), env.HomeDir} {
		if err := env.FS.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	return env
}

// FileTree represents a directory structure for testing. Values are file
// contents (string) or nested trees.
type FileTree map[string]interface{}

// WithFileTree creates tree under the files dir
func (env *TestEnvironment) WithFileTree(tree FileTree) {
	env.t.Helper()
	createFileTree(env.t, env.FS, env.Paths.FilesDir(), tree)
}

// WithHomeTree creates tree under the home directory
func (env *TestEnvironment) WithHomeTree(tree FileTree) {
	env.t.Helper()
	createFileTree(env.t, env.FS, env.HomeDir, tree)
}

// WithConfig writes the configuration tree
func (env *TestEnvironment) WithConfig(content string) {
	env.t.Helper()
	env.write(env.Paths.ConfigFile(), content)
}

// WithEnvironment writes the facts file
func (env *TestEnvironment) WithEnvironment(content string) {
	env.t.Helper()
	env.write(env.Paths.EnvironmentFile(), content)
}

// Home returns a path inside the home directory
func (env *TestEnvironment) Home(rel string) string {
	return filepath.Join(env.HomeDir, rel)
}

// Source returns a path inside the files dir
func (env *TestEnvironment) Source(rel string) string {
	return filepath.Join(env.Paths.FilesDir(), rel)
}

func (env *TestEnvironment) write(path, content string) {
	env.t.Helper()
	if err := env.FS.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

// createFileTree recursively creates a file tree
func createFileTree(t *testing.T, fs filesystem.FS, basePath string, tree FileTree) {
	t.Helper()

	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			if err := fs.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", filepath.Dir(fullPath), err)
			}
			if err := fs.WriteFile(fullPath, []byte(v), 0644); err != nil {
				t.Fatalf("Failed to write file %s: %v", fullPath, err)
			}
		case FileTree:
			if err := fs.MkdirAll(fullPath, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", fullPath, err)
			}
			createFileTree(t, fs, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}
