//go:build !linux

package filesystem

import (
	"errors"
	"io/fs"
	"os"
)

func lstatOwner(name string) (int, int, error) {
	info, err := os.Lstat(name)
	if err != nil {
		return -1, -1, err
	}
	return infoOwner(info)
}

func lchown(name string, uid, gid int) error {
	return os.Lchown(name, uid, gid)
}

func infoOwner(info fs.FileInfo) (int, int, error) {
	return -1, -1, errors.ErrUnsupported
}
