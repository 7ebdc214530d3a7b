// Package testutil builds throwaway syncsmith roots for tests.
//
// A TestEnvironment holds a root with its files dir, a home directory, the
// filesystem both live on and the settings and paths derived from them.
// EnvMemoryOnly keeps everything in an afero MemMapFs; EnvIsolated uses
// the real filesystem under t.TempDir() so symlinks work.
package testutil
