package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/Abragus/syncsmith/pkg/errors"
	"github.com/Abragus/syncsmith/pkg/logging"
	"github.com/Abragus/syncsmith/pkg/paths"
)

const (
	// FileName is the optional settings file in the syncsmith root
	FileName = "syncsmith.toml"

	// EnvPrefix prefixes environment overrides
	EnvPrefix = "SYNCSMITH_"
)

// Backup conflict policies
const (
	OnConflictRefuse    = "refuse"
	OnConflictOverwrite = "overwrite"
)

// Settings holds syncsmith's effective settings
type Settings struct {
	Root     string           `koanf:"root" toml:"root,omitempty"`
	Paths    PathSettings     `koanf:"paths" toml:"paths"`
	Backup   BackupSettings   `koanf:"backup" toml:"backup"`
	Security SecuritySettings `koanf:"security" toml:"security"`
	Output   OutputSettings   `koanf:"output" toml:"output"`
}

// PathSettings locates the well-known files under the root
type PathSettings struct {
	FilesDir        string `koanf:"files_dir" toml:"files_dir"`
	CompiledDir     string `koanf:"compiled_dir" toml:"compiled_dir"`
	ConfigFile      string `koanf:"config_file" toml:"config_file"`
	EnvironmentFile string `koanf:"environment_file" toml:"environment_file"`
}

// BackupSettings controls how pre-existing targets are moved aside
type BackupSettings struct {
	Suffix     string `koanf:"suffix" toml:"suffix"`
	OnConflict string `koanf:"on_conflict" toml:"on_conflict"`
}

// SecuritySettings controls security-context restoration
type SecuritySettings struct {
	RestoreContext bool   `koanf:"restore_context" toml:"restore_context"`
	Restorecon     string `koanf:"restorecon" toml:"restorecon"`
}

// OutputSettings controls user-facing output
type OutputSettings struct {
	NoColor bool `koanf:"no_color" toml:"no_color"`
}

// Overrides are explicit values from the command line. Empty fields are
// ignored.
type Overrides struct {
	Root string
}

// Layout converts the path settings for the paths package
func (s *Settings) Layout() paths.Layout {
	return paths.Layout{
		FilesDir:        s.Paths.FilesDir,
		CompiledDir:     s.Paths.CompiledDir,
		ConfigFile:      s.Paths.ConfigFile,
		EnvironmentFile: s.Paths.EnvironmentFile,
	}
}

// OverwriteBackups reports whether an existing backup may be replaced
func (s *Settings) OverwriteBackups() bool {
	return s.Backup.OnConflict == OnConflictOverwrite
}

// Default returns the embedded defaults alone
func Default() (*Settings, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}
	return unmarshal(k)
}

// Load builds the effective settings. The root is taken from overrides,
// then SYNCSMITH_ROOT, then the working directory; syncsmith.toml is read
// from that root when present.
func Load(overrides Overrides) (*Settings, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	root := overrides.Root
	if root == "" {
		found, _, err := paths.FindRoot()
		if err != nil {
			return nil, err
		}
		root = found
	}
	root = paths.ExpandHome(root)

	// 2. Root settings file
	settingsPath := filepath.Join(root, FileName)
	if _, err := os.Stat(settingsPath); err == nil {
		if err := k.Load(file.Provider(settingsPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load settings from %s", settingsPath).
				WithDetail("path", settingsPath)
		}
		logger.Debug().Str("path", settingsPath).Msg("Loaded settings file")
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment settings")
	}

	// 4. Command line
	if overrides.Root != "" {
		if err := k.Load(confmap.Provider(map[string]interface{}{"root": overrides.Root}, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	if !k.Exists("root") || k.String("root") == "" {
		if err := k.Load(confmap.Provider(map[string]interface{}{"root": root}, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to set root")
		}
	}

	settings, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("root", settings.Root).
		Str("on_conflict", settings.Backup.OnConflict).
		Msg("Settings loaded")
	return settings, nil
}

// Validate rejects settings the reconciler cannot act on
func (s *Settings) Validate() error {
	switch s.Backup.OnConflict {
	case OnConflictRefuse, OnConflictOverwrite:
	default:
		return errors.Newf(errors.ErrConfigParse, "backup.on_conflict must be %q or %q, got %q",
			OnConflictRefuse, OnConflictOverwrite, s.Backup.OnConflict)
	}
	if s.Backup.Suffix == "" {
		return errors.New(errors.ErrConfigParse, "backup.suffix must not be empty")
	}
	return nil
}

// envKey maps SYNCSMITH_BACKUP_ON_CONFLICT to backup.on_conflict. Only the
// first underscore separates the section from the key.
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

func unmarshal(k *koanf.Koanf) (*Settings, error) {
	var settings Settings
	conf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &settings,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &settings, conf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal settings")
	}
	return &settings, nil
}
