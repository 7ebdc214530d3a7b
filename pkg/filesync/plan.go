package filesync

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/Abragus/syncsmith/pkg/errors"
	"github.com/Abragus/syncsmith/pkg/filesystem"
	"github.com/Abragus/syncsmith/pkg/logging"
	"github.com/Abragus/syncsmith/pkg/paths"
)

const dirPerm = 0755

// Entry is one resolved (source, target) pair
type Entry struct {
	Source string
	Target string
}

// Planner expands ActionSpecs into entries
type Planner struct {
	fs       filesystem.FS
	resolver *paths.Resolver
	gate     *Gate
}

// NewPlanner creates a planner resolving sources through resolver. The
// gate guards the target directories created for contents mode.
func NewPlanner(fsys filesystem.FS, resolver *paths.Resolver, gate *Gate) *Planner {
	return &Planner{fs: fsys, resolver: resolver, gate: gate}
}

// Plan returns the entries for spec in apply order. A missing source
// yields ErrNotFound and no entries.
func (p *Planner) Plan(spec ActionSpec) ([]Entry, error) {
	logger := logging.GetLogger("filesync.planner")

	if spec.Target == "" {
		return nil, errors.New(errors.ErrSpecInvalid, "action requires a target").
			WithDetail("source", spec.Source)
	}
	target := paths.ExpandHome(spec.Target)

	if !spec.ContentsMode() {
		source, err := p.resolver.Find(p.fs, spec.Source)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("source", source).Str("target", target).Msg("Planned single entry")
		return []Entry{{Source: source, Target: target}}, nil
	}

	spec.Source = strings.TrimSuffix(spec.Source, ContentsSuffix)
	if spec.Source == "" {
		return nil, errors.New(errors.ErrSpecInvalid, "contents source requires a directory")
	}
	sourceDir, err := p.resolver.Find(p.fs, spec.Source)
	if err != nil {
		return nil, err
	}
	info, err := p.fs.Stat(sourceDir)
	if err != nil || !info.IsDir() {
		return nil, errors.Newf(errors.ErrNotFound, "source for contents mode is not a directory: %s", sourceDir).
			WithDetail("source", sourceDir)
	}

	children, err := p.fs.ReadDir(sourceDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", sourceDir)
	}

	targetDir := filepath.Clean(target)
	if err := p.gate.MkdirAll(p.fs, targetDir); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", targetDir)
	}

	sort.Slice(children, func(i, j int) bool {
		return children[i].Name() < children[j].Name()
	})

	entries := make([]Entry, 0, len(children))
	for _, child := range children {
		entries = append(entries, Entry{
			Source: filepath.Join(sourceDir, child.Name()),
			Target: filepath.Join(targetDir, child.Name()),
		})
	}

	logger.Debug().
		Str("source", sourceDir).
		Str("target", targetDir).
		Int("entries", len(entries)).
		Msg("Planned contents entries")
	return entries, nil
}

// resolveTarget turns a directory target into directory/source-basename
func resolveTarget(e Entry) string {
	if paths.HasTrailingSeparator(e.Target) {
		return filepath.Join(e.Target, filepath.Base(e.Source))
	}
	return e.Target
}
