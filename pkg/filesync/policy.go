package filesync

import (
	"io/fs"

	"github.com/Abragus/syncsmith/pkg/filesystem"
)

const modeMask = fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky

// Policy is the permission, ownership and security-context state a target
// must end up in. Zero fields are not enforced.
type Policy struct {
	Mode           *fs.FileMode
	Owner          *Ownership
	RestoreContext bool
}

// PolicyFor builds the policy declared by spec
func PolicyFor(spec ActionSpec, restoreContext bool) Policy {
	return Policy{
		Mode:           spec.Permissions,
		Owner:          spec.Ownership,
		RestoreContext: restoreContext,
	}
}

// PermissionsMatch reports whether target has the policy's mode and
// ownership. A symlink has no mode of its own and always matches the mode;
// the ownership is read from the entry itself.
func PermissionsMatch(fsys filesystem.FS, target string, policy Policy) bool {
	return modeMatches(fsys, target, policy) && ownerMatches(fsys, target, policy)
}

func modeMatches(fsys filesystem.FS, target string, policy Policy) bool {
	if policy.Mode == nil {
		return true
	}
	info, err := fsys.Lstat(target)
	if err != nil {
		return false
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return true
	}
	return info.Mode()&modeMask == *policy.Mode&modeMask
}

// isLink reports whether target is, or after action would be, a symlink
func isLink(fsys filesystem.FS, target string, action Action) bool {
	info, err := fsys.Lstat(target)
	if err != nil {
		return links(action)
	}
	return info.Mode()&fs.ModeSymlink != 0
}

func ownerMatches(fsys filesystem.FS, target string, policy Policy) bool {
	if policy.Owner == nil {
		return true
	}
	uid, gid, err := fsys.Owner(target)
	if err != nil {
		return false
	}
	if policy.Owner.UID >= 0 && uid != policy.Owner.UID {
		return false
	}
	if policy.Owner.GID >= 0 && gid != policy.Owner.GID {
		return false
	}
	return true
}
