//go:build !linux

package filesystem

import "errors"

// SELinuxEnabled is always false off Linux.
func SELinuxEnabled() bool { return false }

// SecurityLabel is unsupported off Linux.
func SecurityLabel(path string) (string, error) {
	return "", errors.ErrUnsupported
}
