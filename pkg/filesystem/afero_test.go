package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abragus/syncsmith/pkg/filesystem"
)

func TestOSFS_SymlinkAndReadlink(t *testing.T) {
	dir := t.TempDir()
	fsys := filesystem.NewOS()

	src := filepath.Join(dir, "src")
	require.NoError(t, fsys.WriteFile(src, []byte("hello"), 0644))

	link := filepath.Join(dir, "link")
	require.NoError(t, fsys.Symlink(src, link))

	info, err := fsys.Lstat(link)
	require.NoError(t, err)
	assert.True(t, info.Mode()&os.ModeSymlink != 0)

	target, err := fsys.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, src, target)

	data, err := fsys.ReadFile(link)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestOSFS_CopyFilePreservesMode(t *testing.T) {
	dir := t.TempDir()
	fsys := filesystem.NewOS()

	src := filepath.Join(dir, "script.sh")
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh\n"), 0755))
	require.NoError(t, os.Chmod(src, 0750))

	dst := filepath.Join(dir, "copy.sh")
	require.NoError(t, fsys.CopyFile(src, dst))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0750), info.Mode().Perm())

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\n", string(data))
}

func TestOSFS_CopyFileRefusesExistingDestination(t *testing.T) {
	dir := t.TempDir()
	fsys := filesystem.NewOS()

	src := filepath.Join(dir, "a")
	dst := filepath.Join(dir, "b")
	require.NoError(t, os.WriteFile(src, []byte("a"), 0644))
	require.NoError(t, os.WriteFile(dst, []byte("b"), 0644))

	assert.Error(t, fsys.CopyFile(src, dst))
}

func TestOSFS_CopyDirectory(t *testing.T) {
	dir := t.TempDir()
	fsys := filesystem.NewOS()

	src := filepath.Join(dir, "tree")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "f"), []byte("x"), 0600))

	dst := filepath.Join(dir, "copy")
	require.NoError(t, fsys.CopyFile(src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "nested", "f"))
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestOSFS_Owner(t *testing.T) {
	dir := t.TempDir()
	fsys := filesystem.NewOS()

	name := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(name, nil, 0644))

	uid, gid, err := fsys.Owner(name)
	require.NoError(t, err)
	assert.Equal(t, os.Getuid(), uid)
	assert.Equal(t, os.Getgid(), gid)
}

func TestMemFS_NoSymlinks(t *testing.T) {
	fsys := filesystem.NewAferoFS(afero.NewMemMapFs())

	err := fsys.Symlink("/a", "/b")
	assert.ErrorIs(t, err, afero.ErrNoSymlink)

	_, err = fsys.Readlink("/b")
	assert.ErrorIs(t, err, afero.ErrNoReadlink)
}

func TestMemFS_ReadDirAndExists(t *testing.T) {
	fsys := filesystem.NewAferoFS(afero.NewMemMapFs())

	require.NoError(t, fsys.MkdirAll("/root/files", 0755))
	require.NoError(t, fsys.WriteFile("/root/files/b", []byte("b"), 0644))
	require.NoError(t, fsys.WriteFile("/root/files/a", []byte("a"), 0644))

	entries, err := fsys.ReadDir("/root/files")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Name())
	assert.Equal(t, "b", entries[1].Name())

	assert.True(t, filesystem.Exists(fsys, "/root/files/a"))
	assert.False(t, filesystem.Exists(fsys, "/root/files/c"))

	require.NoError(t, fsys.Rename("/root/files/a", "/root/files/c"))
	assert.True(t, filesystem.Exists(fsys, "/root/files/c"))
	require.NoError(t, fsys.Remove("/root/files/c"))
	assert.False(t, filesystem.Exists(fsys, "/root/files/c"))
}
