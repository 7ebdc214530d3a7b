package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Abragus/syncsmith/pkg/filesystem"
)

// AssertSymlink checks that path is a symlink pointing at target
func AssertSymlink(t *testing.T, fs filesystem.FS, path, target string) bool {
	t.Helper()
	got, err := fs.Readlink(path)
	if !assert.NoError(t, err, "%s is not a symlink", path) {
		return false
	}
	return assert.Equal(t, target, got, "symlink %s", path)
}

// AssertContent checks the content of a regular file
func AssertContent(t *testing.T, fs filesystem.FS, path, content string) bool {
	t.Helper()
	data, err := fs.ReadFile(path)
	if !assert.NoError(t, err, "failed to read %s", path) {
		return false
	}
	return assert.Equal(t, content, string(data), "content of %s", path)
}

// AssertMissing checks that nothing exists at path, not even a dangling link
func AssertMissing(t *testing.T, fs filesystem.FS, path string) bool {
	t.Helper()
	return assert.False(t, filesystem.Exists(fs, path), "%s should not exist", path)
}
