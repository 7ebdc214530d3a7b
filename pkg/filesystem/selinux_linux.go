//go:build linux

package filesystem

import (
	"bytes"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

const (
	selinuxEnforceFile = "/sys/fs/selinux/enforce"
	selinuxXattr       = "security.selinux"
)

// SELinuxEnabled reports whether the host runs SELinux with a labeled root
// filesystem. Security-context restoration is only attempted when it does.
func SELinuxEnabled() bool {
	if _, err := os.Stat(selinuxEnforceFile); err != nil {
		return false
	}
	_, err := SecurityLabel("/")
	return err == nil
}

// SecurityLabel returns the SELinux label of path without following links.
func SecurityLabel(path string) (string, error) {
	buf := make([]byte, 256)
	for {
		n, err := unix.Lgetxattr(path, selinuxXattr, buf)
		if err == unix.ERANGE {
			buf = make([]byte, len(buf)*2)
			continue
		}
		if err != nil {
			return "", &fs.PathError{Op: "lgetxattr", Path: path, Err: err}
		}
		return string(bytes.TrimRight(buf[:n], "\x00")), nil
	}
}
