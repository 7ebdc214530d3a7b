package filesync_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abragus/syncsmith/pkg/filesync"
)

func TestIsSynced(t *testing.T) {
	e := newEnv(t)
	src := e.write(filepath.Join(e.files, "src"), "content")

	absent := filepath.Join(e.home, "absent")
	assert.False(t, filesync.IsSynced(e.fs, src, absent))

	link := filepath.Join(e.home, "link")
	require.NoError(t, os.Symlink(src, link))
	assert.True(t, filesync.IsSynced(e.fs, src, link))

	// link values are compared literally
	rel := filepath.Join(e.home, "rel")
	require.NoError(t, os.Symlink("../files/src", rel))
	assert.False(t, filesync.IsSynced(e.fs, src, rel))

	other := filepath.Join(e.home, "other")
	require.NoError(t, os.Symlink(filepath.Join(e.files, "elsewhere"), other))
	assert.False(t, filesync.IsSynced(e.fs, src, other))

	same := e.write(filepath.Join(e.home, "same"), "content")
	assert.True(t, filesync.IsSynced(e.fs, src, same))

	differ := e.write(filepath.Join(e.home, "differ"), "contenT")
	assert.False(t, filesync.IsSynced(e.fs, src, differ))

	longer := e.write(filepath.Join(e.home, "longer"), "content!")
	assert.False(t, filesync.IsSynced(e.fs, src, longer))

	dir := filepath.Join(e.home, "dir")
	require.NoError(t, os.Mkdir(dir, 0755))
	assert.False(t, filesync.IsSynced(e.fs, src, dir))
}

func TestIsSynced_LargeFiles(t *testing.T) {
	e := newEnv(t)
	data := make([]byte, 100*1024)
	for i := range data {
		data[i] = byte(i % 251)
	}
	src := filepath.Join(e.files, "big")
	require.NoError(t, os.WriteFile(src, data, 0644))

	same := filepath.Join(e.home, "big")
	require.NoError(t, os.WriteFile(same, data, 0644))
	assert.True(t, filesync.IsSynced(e.fs, src, same))

	data[len(data)-1] ^= 0xff
	require.NoError(t, os.WriteFile(same, data, 0644))
	assert.False(t, filesync.IsSynced(e.fs, src, same))
}

func TestPermissionsMatch(t *testing.T) {
	e := newEnv(t)
	target := e.write(filepath.Join(e.home, "f"), "x")
	require.NoError(t, os.Chmod(target, 0600))

	mode := fs.FileMode(0o600)
	wrong := fs.FileMode(0o644)

	assert.True(t, filesync.PermissionsMatch(e.fs, target, filesync.Policy{}))
	assert.True(t, filesync.PermissionsMatch(e.fs, target, filesync.Policy{Mode: &mode}))
	assert.False(t, filesync.PermissionsMatch(e.fs, target, filesync.Policy{Mode: &wrong}))

	owner := filesync.Ownership{UID: os.Getuid(), GID: os.Getgid()}
	assert.True(t, filesync.PermissionsMatch(e.fs, target, filesync.Policy{Mode: &mode, Owner: &owner}))

	other := filesync.Ownership{UID: os.Getuid() + 1, GID: -1}
	assert.False(t, filesync.PermissionsMatch(e.fs, target, filesync.Policy{Owner: &other}))

	groupOnly := filesync.Ownership{UID: -1, GID: os.Getgid()}
	assert.True(t, filesync.PermissionsMatch(e.fs, target, filesync.Policy{Owner: &groupOnly}))

	assert.False(t, filesync.PermissionsMatch(e.fs, filepath.Join(e.home, "missing"), filesync.Policy{Mode: &mode}))
}
