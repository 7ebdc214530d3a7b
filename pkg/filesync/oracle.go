package filesync

import (
	"bytes"
	"io"
	"io/fs"

	"github.com/Abragus/syncsmith/pkg/filesystem"
)

const compareChunk = 32 * 1024

// IsSynced reports whether target already is source: a symlink whose link
// value equals source exactly, or a regular file with identical content.
// Anything else, including an absent target, is not synced.
func IsSynced(fsys filesystem.FS, source, target string) bool {
	info, err := fsys.Lstat(target)
	if err != nil {
		return false
	}

	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		link, err := fsys.Readlink(target)
		return err == nil && link == source
	case info.Mode().IsRegular():
		return sameContent(fsys, source, target, info.Size())
	default:
		return false
	}
}

func sameContent(fsys filesystem.FS, source, target string, size int64) bool {
	srcInfo, err := fsys.Stat(source)
	if err != nil || !srcInfo.Mode().IsRegular() || srcInfo.Size() != size {
		return false
	}

	a, err := fsys.Open(source)
	if err != nil {
		return false
	}
	defer func() {
		_ = a.Close()
	}()

	b, err := fsys.Open(target)
	if err != nil {
		return false
	}
	defer func() {
		_ = b.Close()
	}()

	bufA := make([]byte, compareChunk)
	bufB := make([]byte, compareChunk)
	for {
		na, errA := io.ReadFull(a, bufA)
		nb, errB := io.ReadFull(b, bufB)
		if na != nb || !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false
		}
		doneA := errA == io.EOF || errA == io.ErrUnexpectedEOF
		doneB := errB == io.EOF || errB == io.ErrUnexpectedEOF
		if doneA || doneB {
			return doneA && doneB
		}
		if errA != nil || errB != nil {
			return false
		}
	}
}
