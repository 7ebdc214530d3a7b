package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Abragus/syncsmith/pkg/errors"
	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvRoot overrides the syncsmith root directory
	EnvRoot = "SYNCSMITH_ROOT"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// AppDirName is the directory name used under XDG base directories
const AppDirName = "syncsmith"

// Layout names the well-known files and directories relative to the root.
type Layout struct {
	FilesDir        string
	CompiledDir     string
	ConfigFile      string
	EnvironmentFile string
}

// DefaultLayout mirrors the embedded settings defaults.
func DefaultLayout() Layout {
	return Layout{
		FilesDir:        "files",
		CompiledDir:     "compiled_files",
		ConfigFile:      "config.yaml",
		EnvironmentFile: "environment.yaml",
	}
}

// Paths provides centralized path management for syncsmith
type Paths struct {
	root         string
	layout       Layout
	usedFallback bool
}

// New creates a Paths instance rooted at root. An empty root is resolved
// with FindRoot.
func New(root string, layout Layout) (*Paths, error) {
	usedFallback := false
	if root == "" {
		var err error
		root, usedFallback, err = FindRoot()
		if err != nil {
			return nil, err
		}
	}

	absRoot, err := filepath.Abs(ExpandHome(root))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for root %s", root)
	}

	return &Paths{root: absRoot, layout: layout, usedFallback: usedFallback}, nil
}

// FindRoot determines the syncsmith root: SYNCSMITH_ROOT when set,
// otherwise the current working directory (reported as a fallback).
func FindRoot() (string, bool, error) {
	if root := os.Getenv(EnvRoot); root != "" {
		return ExpandHome(root), false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrap(err, errors.ErrFileAccess, "failed to get current directory")
	}
	return cwd, true, nil
}

// Root returns the syncsmith root directory
func (p *Paths) Root() string { return p.root }

// UsedFallback reports whether the working directory was used as the root
func (p *Paths) UsedFallback() bool { return p.usedFallback }

// FilesDir is the base directory for source files
func (p *Paths) FilesDir() string { return p.under(p.layout.FilesDir) }

// CompiledDir is the overlay directory for generated files
func (p *Paths) CompiledDir() string { return p.under(p.layout.CompiledDir) }

// ConfigFile is the declarative configuration tree
func (p *Paths) ConfigFile() string { return p.under(p.layout.ConfigFile) }

// EnvironmentFile is the per-host facts file
func (p *Paths) EnvironmentFile() string { return p.under(p.layout.EnvironmentFile) }

// StateDir returns the XDG state directory for syncsmith
func (p *Paths) StateDir() string {
	return filepath.Join(xdg.StateHome, AppDirName)
}

// Resolver returns the layered resolver: compiled overlay first, then files.
func (p *Paths) Resolver() *Resolver {
	return NewResolver(p.CompiledDir(), p.FilesDir())
}

func (p *Paths) under(rel string) string {
	rel = ExpandHome(rel)
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.root, rel)
}

// ExpandHome expands a leading ~ to the home directory. A trailing path
// separator is preserved since it marks a directory target.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}

	// ~user forms are left alone
	if path[1] != '/' && path[1] != filepath.Separator {
		return path
	}

	expanded := filepath.Join(homeDir, path[2:])
	if HasTrailingSeparator(path) && len(path) > 2 {
		expanded += string(filepath.Separator)
	}
	return expanded
}

// HasTrailingSeparator reports whether path ends in a path separator.
func HasTrailingSeparator(path string) bool {
	return strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator))
}
