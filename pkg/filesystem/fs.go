package filesystem

import (
	"io"
	"io/fs"
)

// FS is the filesystem interface required for syncsmith operations
type FS interface {
	// Read operations; Lstat and Readlink never follow the final link
	Lstat(name string) (fs.FileInfo, error)
	Stat(name string) (fs.FileInfo, error)
	Readlink(name string) (string, error)
	ReadDir(name string) ([]fs.FileInfo, error)
	Open(name string) (io.ReadCloser, error)
	ReadFile(name string) ([]byte, error)

	// Owner returns the uid and gid of name without following links
	Owner(name string) (uid, gid int, err error)

	// Mutations
	MkdirAll(path string, perm fs.FileMode) error
	Symlink(oldname, newname string) error
	CopyFile(src, dst string) error
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Rename(oldpath, newpath string) error
	Remove(name string) error
	Chmod(name string, mode fs.FileMode) error
	Lchown(name string, uid, gid int) error
}

// Exists reports whether name is present, without following links.
func Exists(fsys FS, name string) bool {
	_, err := fsys.Lstat(name)
	return err == nil
}
