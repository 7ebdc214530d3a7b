//go:build linux

package filesystem

import (
	"fmt"
	"io/fs"
	"syscall"

	"golang.org/x/sys/unix"
)

func lstatOwner(name string) (int, int, error) {
	var st unix.Stat_t
	if err := unix.Lstat(name, &st); err != nil {
		return -1, -1, &fs.PathError{Op: "lstat", Path: name, Err: err}
	}
	return int(st.Uid), int(st.Gid), nil
}

func lchown(name string, uid, gid int) error {
	if err := unix.Lchown(name, uid, gid); err != nil {
		return &fs.PathError{Op: "lchown", Path: name, Err: err}
	}
	return nil
}

func infoOwner(info fs.FileInfo) (int, int, error) {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return int(st.Uid), int(st.Gid), nil
	}
	return -1, -1, fmt.Errorf("ownership unavailable for %s", info.Name())
}
