package paths

import (
	"io/fs"
	"path/filepath"

	"github.com/Abragus/syncsmith/pkg/errors"
)

// Lstater is the subset of a filesystem the resolver needs.
type Lstater interface {
	Lstat(name string) (fs.FileInfo, error)
}

// Resolver finds a relative source specifier in an ordered list of roots.
// Earlier roots take precedence over later ones.
type Resolver struct {
	Roots []string
}

// NewResolver builds a resolver over roots in precedence order.
func NewResolver(roots ...string) *Resolver {
	return &Resolver{Roots: roots}
}

// Find returns the absolute path of spec in the first root that contains
// it. Absolute (or ~) specifiers bypass the roots. A specifier found in no
// root yields ErrNotFound.
func (r *Resolver) Find(fsys Lstater, spec string) (string, error) {
	if spec == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty source specifier")
	}

	expanded := ExpandHome(spec)
	if filepath.IsAbs(expanded) {
		clean := filepath.Clean(expanded)
		if _, err := fsys.Lstat(clean); err != nil {
			return "", errors.Wrapf(err, errors.ErrNotFound, "source not found: %s", clean)
		}
		return clean, nil
	}

	for _, root := range r.Roots {
		candidate := filepath.Join(root, expanded)
		if _, err := fsys.Lstat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", errors.Newf(errors.ErrNotFound, "source %q not found in any of %v", spec, r.Roots).
		WithDetail("spec", spec)
}
