package modules

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/Abragus/syncsmith/pkg/errors"
	"github.com/Abragus/syncsmith/pkg/filesync"
	"github.com/Abragus/syncsmith/pkg/filesystem"
	"github.com/Abragus/syncsmith/pkg/logging"
)

// EditConfig is the configuration of an edit_file entry
type EditConfig struct {
	File          string         `mapstructure:"file"`
	Output        string         `mapstructure:"output"`
	Modifications []Modification `mapstructure:"modifications"`
}

// Modification is one editing rule. Exactly one of Add, Delete or Replace
// is set.
type Modification struct {
	Add     *string `mapstructure:"add"`
	Delete  *string `mapstructure:"delete"`
	Replace *string `mapstructure:"replace"`
	With    string  `mapstructure:"with"`
}

// editFile writes an edited copy of a file into the compiled directory.
// Since the compiled directory is consulted before the files directory, a
// later module syncing the same name picks up the edited version.
type editFile struct {
	deps Deps
}

func newEditFile(deps Deps) *editFile {
	return &editFile{deps: deps}
}

func (m *editFile) Name() string {
	return EditFileName
}

func decodeEditConfig(cfg Config) (EditConfig, error) {
	var ec EditConfig
	if err := mapstructure.WeakDecode(map[string]any(cfg), &ec); err != nil {
		return EditConfig{}, errors.Wrap(err, errors.ErrSpecInvalid, "invalid edit_file entry")
	}
	if ec.File == "" {
		return EditConfig{}, errors.New(errors.ErrSpecInvalid, "edit_file requires a file")
	}
	if strings.HasPrefix(ec.File, "~") || !filepath.IsLocal(ec.File) {
		return EditConfig{}, errors.Newf(errors.ErrSpecInvalid, "editing files outside the files directory is not allowed: %s", ec.File).
			WithDetail("file", ec.File)
	}
	if ec.Output != "" && !filepath.IsLocal(ec.Output) {
		return EditConfig{}, errors.Newf(errors.ErrSpecInvalid, "edit_file output must stay inside the compiled files directory: %s", ec.Output).
			WithDetail("output", ec.Output)
	}
	for i, mod := range ec.Modifications {
		set := 0
		for _, p := range []*string{mod.Add, mod.Delete, mod.Replace} {
			if p != nil {
				set++
			}
		}
		if set != 1 {
			return EditConfig{}, errors.Newf(errors.ErrSpecInvalid, "modification %d must have exactly one of add, delete or replace", i)
		}
	}
	return ec, nil
}

// outputPath is where the edited file is written
func (m *editFile) outputPath(ec EditConfig) string {
	name := ec.Output
	if name == "" {
		name = ec.File
	}
	return filepath.Join(m.deps.Paths.CompiledDir(), name)
}

func (m *editFile) Apply(ctx context.Context, cfg Config, dryRun bool) error {
	logger := logging.GetLogger("modules.edit_file")

	ec, err := decodeEditConfig(cfg)
	if err != nil {
		return err
	}

	source := filepath.Join(m.deps.Paths.FilesDir(), ec.File)
	info, err := m.deps.FS.Stat(source)
	if err != nil {
		return errors.Wrapf(err, errors.ErrNotFound, "file to edit not found: %s", source).
			WithDetail("file", ec.File)
	}
	data, err := m.deps.FS.ReadFile(source)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", source)
	}

	content := Edit(string(data), ec.Modifications)
	out := m.outputPath(ec)

	if existing, err := m.deps.FS.ReadFile(out); err == nil && string(existing) == content {
		m.deps.Printer.Info(fmt.Sprintf("%s is up to date", out))
		return nil
	}

	gate := filesync.NewGate(dryRun, m.deps.Printer)
	parent := filepath.Dir(out)
	if err := gate.MkdirAll(m.deps.FS, parent); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", parent)
	}

	err = gate.Do(fmt.Sprintf("write edited %s to %s", ec.File, out), func() error {
		return m.deps.FS.WriteFile(out, []byte(content), info.Mode().Perm()|fs.FileMode(0200))
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", out).
			WithDetail("output", out)
	}

	logger.Debug().
		Str("file", ec.File).
		Str("output", out).
		Int("modifications", len(ec.Modifications)).
		Msg("File edited")
	return nil
}

func (m *editFile) Rollback(ctx context.Context, cfg Config, dryRun bool) error {
	ec, err := decodeEditConfig(cfg)
	if err != nil {
		return err
	}

	out := m.outputPath(ec)
	if !filesystem.Exists(m.deps.FS, out) {
		m.deps.Printer.Info(fmt.Sprintf("nothing to roll back for %s", out))
		return nil
	}

	gate := filesync.NewGate(dryRun, m.deps.Printer)
	return gate.Do("remove edited file "+out, func() error {
		return m.deps.FS.Remove(out)
	})
}

// Edit applies modifications to content in order. add appends a line
// unless the text is already present, delete drops lines equal to the text
// ignoring surrounding space, and replace substitutes every occurrence.
// A trailing newline is preserved.
func Edit(content string, mods []Modification) string {
	trailing := strings.HasSuffix(content, "\n")
	body := strings.TrimSuffix(content, "\n")

	for _, mod := range mods {
		switch {
		case mod.Add != nil:
			if strings.Contains(body, *mod.Add) {
				continue
			}
			if body == "" {
				body = *mod.Add
			} else {
				body += "\n" + *mod.Add
			}
		case mod.Delete != nil:
			want := strings.TrimSpace(*mod.Delete)
			lines := strings.Split(body, "\n")
			kept := lines[:0]
			for _, line := range lines {
				if strings.TrimSpace(line) != want {
					kept = append(kept, line)
				}
			}
			body = strings.Join(kept, "\n")
		case mod.Replace != nil:
			if *mod.Replace != "" {
				body = strings.ReplaceAll(body, *mod.Replace, mod.With)
			}
		}
	}

	if trailing {
		body += "\n"
	}
	return body
}
