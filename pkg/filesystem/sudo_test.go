package filesystem_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Abragus/syncsmith/pkg/errors"
	"github.com/Abragus/syncsmith/pkg/filesystem"
)

type mockCommander struct {
	mock.Mock
}

func (m *mockCommander) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	called := m.Called(name, args)
	out, _ := called.Get(0).([]byte)
	return out, called.Error(1)
}

func TestSudoFS_Mutations(t *testing.T) {
	tests := []struct {
		name string
		call func(fsys filesystem.FS) error
		args []string
	}{
		{
			name: "mkdir",
			call: func(fsys filesystem.FS) error { return fsys.MkdirAll("/etc/app", 0755) },
			args: []string{"mkdir", "-p", "-m", "755", "--", "/etc/app"},
		},
		{
			name: "symlink",
			call: func(fsys filesystem.FS) error { return fsys.Symlink("/src/a", "/etc/a") },
			args: []string{"ln", "-s", "--", "/src/a", "/etc/a"},
		},
		{
			name: "copy",
			call: func(fsys filesystem.FS) error { return fsys.CopyFile("/src/a", "/etc/a") },
			args: []string{"cp", "-pR", "--", "/src/a", "/etc/a"},
		},
		{
			name: "rename",
			call: func(fsys filesystem.FS) error { return fsys.Rename("/etc/a", "/etc/a.bak") },
			args: []string{"mv", "-T", "--", "/etc/a", "/etc/a.bak"},
		},
		{
			name: "remove",
			call: func(fsys filesystem.FS) error { return fsys.Remove("/etc/a") },
			args: []string{"rm", "--", "/etc/a"},
		},
		{
			name: "chmod",
			call: func(fsys filesystem.FS) error { return fsys.Chmod("/etc/a", 0600) },
			args: []string{"chmod", "600", "--", "/etc/a"},
		},
		{
			name: "lchown",
			call: func(fsys filesystem.FS) error { return fsys.Lchown("/etc/a", 0, 10) },
			args: []string{"chown", "-h", "0:10", "--", "/etc/a"},
		},
		{
			name: "lchown group only",
			call: func(fsys filesystem.FS) error { return fsys.Lchown("/etc/a", -1, 10) },
			args: []string{"chown", "-h", ":10", "--", "/etc/a"},
		},
		{
			name: "lchown user only",
			call: func(fsys filesystem.FS) error { return fsys.Lchown("/etc/a", 5, -1) },
			args: []string{"chown", "-h", "5", "--", "/etc/a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &mockCommander{}
			cmd.On("Run", "sudo", tt.args).Return([]byte(nil), nil).Once()

			fsys := filesystem.NewSudoFS(context.Background(), filesystem.NewOS(), cmd)
			require.NoError(t, tt.call(fsys))
			cmd.AssertExpectations(t)
		})
	}
}

func TestSudoFS_WriteFileInstallsStagedCopy(t *testing.T) {
	cmd := &mockCommander{}
	var staged string
	cmd.On("Run", "sudo", mock.MatchedBy(func(args []string) bool {
		return len(args) == 6 && args[0] == "install" && args[2] == "644" && args[5] == "/etc/motd"
	})).Run(func(a mock.Arguments) {
		args := a.Get(1).([]string)
		staged = args[4]
		data, err := os.ReadFile(staged)
		require.NoError(t, err)
		assert.Equal(t, "welcome", string(data))
	}).Return([]byte(nil), nil).Once()

	fsys := filesystem.NewSudoFS(context.Background(), filesystem.NewOS(), cmd)
	require.NoError(t, fsys.WriteFile("/etc/motd", []byte("welcome"), 0644))
	cmd.AssertExpectations(t)

	_, err := os.Stat(staged)
	assert.True(t, os.IsNotExist(err), "staged file should be cleaned up")
}

func TestSudoFS_ReadsBypassCommander(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(name, []byte("data"), 0644))

	cmd := &mockCommander{}
	fsys := filesystem.NewSudoFS(context.Background(), filesystem.NewOS(), cmd)

	data, err := fsys.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
	cmd.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestSudoFS_LchownUnchangedIsNoop(t *testing.T) {
	cmd := &mockCommander{}
	fsys := filesystem.NewSudoFS(context.Background(), filesystem.NewOS(), cmd)

	require.NoError(t, fsys.Lchown("/etc/a", -1, -1))
	cmd.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestSudoFS_PropagatesCommandFailure(t *testing.T) {
	cmd := &mockCommander{}
	failure := errors.New(errors.ErrCommandFailed, "command failed")
	cmd.On("Run", "sudo", mock.Anything).Return([]byte("denied"), failure)

	fsys := filesystem.NewSudoFS(context.Background(), filesystem.NewOS(), cmd)
	err := fsys.Remove("/etc/a")
	assert.True(t, errors.IsErrorCode(err, errors.ErrCommandFailed))
}

func TestExecCommander(t *testing.T) {
	cmd := filesystem.NewExecCommander()

	out, err := cmd.Run(context.Background(), "echo", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(out))

	_, err = cmd.Run(context.Background(), "false")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCommandFailed))
	assert.Equal(t, "false", errors.GetErrorDetails(err)["command"])
}
