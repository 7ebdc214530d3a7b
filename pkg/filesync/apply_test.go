package filesync_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abragus/syncsmith/pkg/errors"
	"github.com/Abragus/syncsmith/pkg/filesync"
)

func TestApply_SymlinkIsIdempotent(t *testing.T) {
	e := newEnv(t)
	src := e.write(filepath.Join(e.files, "bashrc"), "alias ll='ls -l'")
	target := filepath.Join(e.home, "nested", ".bashrc")
	entries := e.plan(false, "bashrc", target)
	r := e.reconciler(false, filesync.BackupOptions{})

	changed, err := r.Apply(context.Background(), entries, filesync.Symlink, filesync.Policy{})
	require.NoError(t, err)
	assert.True(t, changed)

	link, err := os.Readlink(target)
	require.NoError(t, err)
	assert.Equal(t, src, link)

	before := snapshot(t, e.root)
	changed, err = r.Apply(context.Background(), entries, filesync.Symlink, filesync.Policy{})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, before, snapshot(t, e.root))
}

func TestApply_CopyPreservesContentAndIsIdempotent(t *testing.T) {
	e := newEnv(t)
	e.write(filepath.Join(e.files, "motd"), "hello")
	target := filepath.Join(e.home, "motd")
	entries := e.plan(false, "motd", target)
	r := e.reconciler(false, filesync.BackupOptions{})

	changed, err := r.Apply(context.Background(), entries, filesync.Copy, filesync.Policy{})
	require.NoError(t, err)
	assert.True(t, changed)

	info, err := os.Lstat(target)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())

	changed, err = r.Apply(context.Background(), entries, filesync.Copy, filesync.Policy{})
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestApply_CopySkipsDirectoryChildren(t *testing.T) {
	e := newEnv(t)
	e.write(filepath.Join(e.files, "cfg", "a"), "A")
	e.write(filepath.Join(e.files, "cfg", "sub", "b"), "B")
	targetDir := filepath.Join(e.home, "cfg")
	entries := e.plan(false, "cfg/*", targetDir)
	require.Len(t, entries, 2)
	r := e.reconciler(false, filesync.BackupOptions{})

	for i := 0; i < 3; i++ {
		changed, err := r.Apply(context.Background(), entries, filesync.Copy, filesync.Policy{})
		require.NoError(t, err)
		assert.Equal(t, i == 0, changed)
	}

	assert.FileExists(t, filepath.Join(targetDir, "a"))
	assert.NoFileExists(t, filepath.Join(targetDir, "a.bak"))
	_, err := os.Lstat(filepath.Join(targetDir, "sub"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Lstat(filepath.Join(targetDir, "sub.bak"))
	assert.True(t, os.IsNotExist(err))
	assert.Len(t, e.rec.warnings, 3)
}

func TestApply_BacksUpAndRollbackRestores(t *testing.T) {
	e := newEnv(t)
	e.write(filepath.Join(e.files, "gitconfig"), "new")
	target := e.write(filepath.Join(e.home, ".gitconfig"), "original")
	entries := e.plan(false, "gitconfig", target)
	r := e.reconciler(false, filesync.BackupOptions{})

	changed, err := r.Apply(context.Background(), entries, filesync.Symlink, filesync.Policy{})
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(target + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))

	changed, err = r.Rollback(context.Background(), entries, nil)
	require.NoError(t, err)
	assert.True(t, changed)

	info, err := os.Lstat(target)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
	data, err = os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
	_, err = os.Lstat(target + ".bak")
	assert.True(t, os.IsNotExist(err))
}

func TestApply_RoundTripRestoresPriorState(t *testing.T) {
	e := newEnv(t)
	e.write(filepath.Join(e.files, "conf", "a"), "A")
	e.write(filepath.Join(e.files, "conf", "b"), "B")
	targetDir := filepath.Join(e.home, "conf")
	e.write(filepath.Join(targetDir, "a"), "user a")

	before := snapshot(t, e.home)

	entries := e.plan(false, "conf/*", targetDir)
	r := e.reconciler(false, filesync.BackupOptions{})
	_, err := r.Apply(context.Background(), entries, filesync.Symlink, filesync.Policy{})
	require.NoError(t, err)
	assert.NotEqual(t, before, snapshot(t, e.home))

	_, err = r.Rollback(context.Background(), entries, nil)
	require.NoError(t, err)
	assert.Equal(t, before, snapshot(t, e.home))
}

func TestApply_RefusesExistingBackup(t *testing.T) {
	e := newEnv(t)
	e.write(filepath.Join(e.files, "profile"), "new")
	target := e.write(filepath.Join(e.home, ".profile"), "second")
	e.write(target+".bak", "first")
	entries := e.plan(false, "profile", target)

	_, err := e.reconciler(false, filesync.BackupOptions{}).
		Apply(context.Background(), entries, filesync.Symlink, filesync.Policy{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackupExists))

	data, err := os.ReadFile(target + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
	data, err = os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestApply_OverwritesBackupWhenAllowed(t *testing.T) {
	e := newEnv(t)
	e.write(filepath.Join(e.files, "profile"), "new")
	target := e.write(filepath.Join(e.home, ".profile"), "second")
	e.write(target+".bak", "first")
	entries := e.plan(false, "profile", target)

	_, err := e.reconciler(false, filesync.BackupOptions{Overwrite: true}).
		Apply(context.Background(), entries, filesync.Symlink, filesync.Policy{})
	require.NoError(t, err)

	data, err := os.ReadFile(target + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestApply_DirectoryTarget(t *testing.T) {
	e := newEnv(t)
	src := e.write(filepath.Join(e.files, "tool.conf"), "x")
	dir := filepath.Join(e.home, "conf.d") + string(filepath.Separator)
	entries := e.plan(false, "tool.conf", dir)
	r := e.reconciler(false, filesync.BackupOptions{})

	_, err := r.Apply(context.Background(), entries, filesync.Symlink, filesync.Policy{})
	require.NoError(t, err)

	link, err := os.Readlink(filepath.Join(e.home, "conf.d", "tool.conf"))
	require.NoError(t, err)
	assert.Equal(t, src, link)

	_, err = r.Rollback(context.Background(), entries, nil)
	require.NoError(t, err)
	_, err = os.Lstat(filepath.Join(e.home, "conf.d", "tool.conf"))
	assert.True(t, os.IsNotExist(err))
}

func TestApply_DryRunMutatesNothing(t *testing.T) {
	e := newEnv(t)
	e.write(filepath.Join(e.files, "conf", "a"), "A")
	e.write(filepath.Join(e.files, "conf", "b"), "B")
	targetDir := filepath.Join(e.home, "conf")
	e.write(filepath.Join(targetDir, "a"), "user a")

	before := snapshot(t, e.root)

	entries := e.plan(true, "conf/*", targetDir)
	mode := fs.FileMode(0o600)
	changed, err := e.reconciler(true, filesync.BackupOptions{}).
		Apply(context.Background(), entries, filesync.Copy, filesync.Policy{Mode: &mode})
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Equal(t, before, snapshot(t, e.root))
	assert.Empty(t, e.rec.actions)

	a := filepath.Join(targetDir, "a")
	b := filepath.Join(targetDir, "b")
	assert.Equal(t, []string{
		"back up " + a + " to " + a + ".bak",
		"copy " + filepath.Join(e.files, "conf", "a") + " to " + a,
		"set mode 0600 on " + a,
		"copy " + filepath.Join(e.files, "conf", "b") + " to " + b,
		"set mode 0600 on " + b,
	}, e.rec.dryRuns)
}

func TestApply_DryRunReportsParentDirectory(t *testing.T) {
	e := newEnv(t)
	e.write(filepath.Join(e.files, "x"), "x")
	target := filepath.Join(e.home, "deep", "er", "x")
	entries := e.plan(true, "x", target)

	_, err := e.reconciler(true, filesync.BackupOptions{}).
		Apply(context.Background(), entries, filesync.Symlink, filesync.Policy{})
	require.NoError(t, err)

	require.NotEmpty(t, e.rec.dryRuns)
	assert.Equal(t, "create directory "+filepath.Dir(target), e.rec.dryRuns[0])
	_, err = os.Stat(filepath.Dir(target))
	assert.True(t, os.IsNotExist(err))
}

func TestApply_DryRunReportsContentsDirectoryOnce(t *testing.T) {
	e := newEnv(t)
	e.write(filepath.Join(e.files, "fonts", "a.ttf"), "a")
	e.write(filepath.Join(e.files, "fonts", "b.ttf"), "b")
	targetDir := filepath.Join(e.home, "share", "fonts")
	entries := e.plan(true, "fonts/*", targetDir)

	_, err := e.reconciler(true, filesync.BackupOptions{}).
		Apply(context.Background(), entries, filesync.Symlink, filesync.Policy{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"create directory " + targetDir,
		"create symlink " + filepath.Join(targetDir, "a.ttf") + " -> " + filepath.Join(e.files, "fonts", "a.ttf"),
		"create symlink " + filepath.Join(targetDir, "b.ttf") + " -> " + filepath.Join(e.files, "fonts", "b.ttf"),
	}, e.rec.dryRuns)
	_, err = os.Stat(targetDir)
	assert.True(t, os.IsNotExist(err))
}

func TestApply_EnforcesMode(t *testing.T) {
	e := newEnv(t)
	e.write(filepath.Join(e.files, "secret"), "s")
	target := filepath.Join(e.home, "secret")
	entries := e.plan(false, "secret", target)
	r := e.reconciler(false, filesync.BackupOptions{})

	mode := fs.FileMode(0o600)
	policy := filesync.Policy{Mode: &mode}

	changed, err := r.Apply(context.Background(), entries, filesync.Copy, policy)
	require.NoError(t, err)
	assert.True(t, changed)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o600), info.Mode().Perm())

	changed, err = r.Apply(context.Background(), entries, filesync.Copy, policy)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestApply_SyncedButWrongModeIsRedone(t *testing.T) {
	e := newEnv(t)
	e.write(filepath.Join(e.files, "secret"), "s")
	target := e.write(filepath.Join(e.home, "secret"), "s")
	require.NoError(t, os.Chmod(target, 0644))
	entries := e.plan(false, "secret", target)

	mode := fs.FileMode(0o600)
	changed, err := e.reconciler(false, filesync.BackupOptions{}).
		Apply(context.Background(), entries, filesync.Copy, filesync.Policy{Mode: &mode})
	require.NoError(t, err)
	assert.True(t, changed)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o600), info.Mode().Perm())
	assert.FileExists(t, target+".bak")
}

func TestApply_SymlinkLeavesSourceMode(t *testing.T) {
	e := newEnv(t)
	source := e.write(filepath.Join(e.files, "rc"), "rc")
	target := filepath.Join(e.home, "rc")
	entries := e.plan(false, "rc", target)
	r := e.reconciler(false, filesync.BackupOptions{})

	mode := fs.FileMode(0o600)
	policy := filesync.Policy{Mode: &mode}

	changed, err := r.Apply(context.Background(), entries, filesync.Symlink, policy)
	require.NoError(t, err)
	assert.True(t, changed)
	require.Len(t, e.rec.warnings, 1)
	assert.Contains(t, e.rec.warnings[0], target)

	info, err := os.Stat(source)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o644), info.Mode().Perm())

	changed, err = r.Apply(context.Background(), entries, filesync.Symlink, policy)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = r.Rollback(context.Background(), entries, nil)
	require.NoError(t, err)
	assert.True(t, changed)

	info, err = os.Stat(source)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o644), info.Mode().Perm())
	_, err = os.Lstat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestApply_DryRunSymlinkReportsNoMode(t *testing.T) {
	e := newEnv(t)
	e.write(filepath.Join(e.files, "rc"), "rc")
	target := filepath.Join(e.home, "rc")
	entries := e.plan(true, "rc", target)

	mode := fs.FileMode(0o600)
	_, err := e.reconciler(true, filesync.BackupOptions{}).
		Apply(context.Background(), entries, filesync.Symlink, filesync.Policy{Mode: &mode})
	require.NoError(t, err)

	for _, desc := range e.rec.dryRuns {
		assert.NotContains(t, desc, "set mode")
	}
	assert.Len(t, e.rec.warnings, 1)
}

func TestApply_CustomBackupSuffix(t *testing.T) {
	e := newEnv(t)
	e.write(filepath.Join(e.files, "f"), "new")
	target := e.write(filepath.Join(e.home, "f"), "old")
	entries := e.plan(false, "f", target)
	r := e.reconciler(false, filesync.BackupOptions{Suffix: ".orig"})

	_, err := r.Apply(context.Background(), entries, filesync.Symlink, filesync.Policy{})
	require.NoError(t, err)
	assert.FileExists(t, target+".orig")
	assert.Equal(t, target+".orig", r.BackupPath(target))
}

func TestApply_CancelledContext(t *testing.T) {
	e := newEnv(t)
	e.write(filepath.Join(e.files, "f"), "x")
	entries := e.plan(false, "f", filepath.Join(e.home, "f"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	changed, err := e.reconciler(false, filesync.BackupOptions{}).
		Apply(ctx, entries, filesync.Symlink, filesync.Policy{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, changed)
}
