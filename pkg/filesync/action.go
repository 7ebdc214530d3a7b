package filesync

import (
	"fmt"

	"github.com/Abragus/syncsmith/pkg/errors"
	"github.com/Abragus/syncsmith/pkg/filesystem"
)

// Action places source at an absent target
type Action interface {
	Name() string
	Describe(source, target string) string
	Perform(fsys filesystem.FS, source, target string) error
}

// Symlink links the target to the source path
var Symlink Action = symlinkAction{}

// Copy copies the source to the target, preserving mode and times
var Copy Action = copyAction{}

// links reports whether action places a symlink rather than content
func links(action Action) bool {
	_, ok := action.(symlinkAction)
	return ok
}

type symlinkAction struct{}

func (symlinkAction) Name() string { return "symlink" }

func (symlinkAction) Describe(source, target string) string {
	return fmt.Sprintf("create symlink %s -> %s", target, source)
}

func (symlinkAction) Perform(fsys filesystem.FS, source, target string) error {
	if err := fsys.Symlink(source, target); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to create symlink %s", target).
			WithDetail("source", source).
			WithDetail("target", target)
	}
	return nil
}

type copyAction struct{}

func (copyAction) Name() string { return "copy" }

func (copyAction) Describe(source, target string) string {
	return fmt.Sprintf("copy %s to %s", source, target)
}

func (copyAction) Perform(fsys filesystem.FS, source, target string) error {
	if err := fsys.CopyFile(source, target); err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "failed to copy %s", source).
			WithDetail("source", source).
			WithDetail("target", target)
	}
	return nil
}
