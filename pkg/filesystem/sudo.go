package filesystem

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Abragus/syncsmith/pkg/errors"
)

const sudoBinary = "sudo"

// sudoFS reads through base and performs every mutation as a privileged
// command. Reads are done unprivileged; targets that need elevation are
// expected to be world-readable or readable by the invoking user.
type sudoFS struct {
	base FS
	ctx  context.Context
	cmd  Commander
}

// NewSudoFS returns an FS whose mutations run through sudo
func NewSudoFS(ctx context.Context, base FS, cmd Commander) FS {
	return &sudoFS{base: base, ctx: ctx, cmd: cmd}
}

func (s *sudoFS) Lstat(name string) (fs.FileInfo, error)     { return s.base.Lstat(name) }
func (s *sudoFS) Stat(name string) (fs.FileInfo, error)      { return s.base.Stat(name) }
func (s *sudoFS) Readlink(name string) (string, error)       { return s.base.Readlink(name) }
func (s *sudoFS) ReadDir(name string) ([]fs.FileInfo, error) { return s.base.ReadDir(name) }
func (s *sudoFS) Open(name string) (io.ReadCloser, error)    { return s.base.Open(name) }
func (s *sudoFS) ReadFile(name string) ([]byte, error)       { return s.base.ReadFile(name) }
func (s *sudoFS) Owner(name string) (int, int, error)        { return s.base.Owner(name) }

func (s *sudoFS) run(args ...string) error {
	_, err := s.cmd.Run(s.ctx, sudoBinary, args...)
	return err
}

func (s *sudoFS) MkdirAll(path string, perm fs.FileMode) error {
	return s.run("mkdir", "-p", "-m", octal(perm), "--", path)
}

func (s *sudoFS) Symlink(oldname, newname string) error {
	return s.run("ln", "-s", "--", oldname, newname)
}

func (s *sudoFS) CopyFile(src, dst string) error {
	return s.run("cp", "-pR", "--", src, dst)
}

// WriteFile stages data in a private temp file and installs it in place.
func (s *sudoFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp("", "syncsmith-"+filepath.Base(name)+"-*")
	if err != nil {
		return errors.Wrap(err, errors.ErrFileCreate, "failed to stage file").
			WithDetail("path", name)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, errors.ErrFileWrite, "failed to stage file").
			WithDetail("path", name)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to stage file").
			WithDetail("path", name)
	}

	return s.run("install", "-m", octal(perm), "--", tmp.Name(), name)
}

func (s *sudoFS) Rename(oldpath, newpath string) error {
	return s.run("mv", "-T", "--", oldpath, newpath)
}

func (s *sudoFS) Remove(name string) error {
	return s.run("rm", "--", name)
}

func (s *sudoFS) Chmod(name string, mode fs.FileMode) error {
	return s.run("chmod", octal(mode), "--", name)
}

// Lchown follows os.Lchown: a negative id is left unchanged
func (s *sudoFS) Lchown(name string, uid, gid int) error {
	spec := ownerSpec(uid, gid)
	if spec == "" {
		return nil
	}
	return s.run("chown", "-h", spec, "--", name)
}

func ownerSpec(uid, gid int) string {
	switch {
	case uid >= 0 && gid >= 0:
		return fmt.Sprintf("%d:%d", uid, gid)
	case uid >= 0:
		return strconv.Itoa(uid)
	case gid >= 0:
		return ":" + strconv.Itoa(gid)
	}
	return ""
}

func octal(mode fs.FileMode) string {
	v := uint64(mode.Perm())
	if mode&fs.ModeSetuid != 0 {
		v |= 0o4000
	}
	if mode&fs.ModeSetgid != 0 {
		v |= 0o2000
	}
	if mode&fs.ModeSticky != 0 {
		v |= 0o1000
	}
	return strconv.FormatUint(v, 8)
}
