package modules

import (
	"context"

	"github.com/Abragus/syncsmith/pkg/config"
	"github.com/Abragus/syncsmith/pkg/filesync"
	"github.com/Abragus/syncsmith/pkg/filesystem"
	"github.com/Abragus/syncsmith/pkg/output"
	"github.com/Abragus/syncsmith/pkg/paths"
)

// Config is one pruned entry of the modules list
type Config map[string]any

// Name returns the module name the entry asks for
func (c Config) Name() string {
	name, _ := c["name"].(string)
	return name
}

// Enabled reports whether the entry is enabled. Entries are enabled unless
// they set enabled: false.
func (c Config) Enabled() bool {
	enabled, ok := c["enabled"].(bool)
	return !ok || enabled
}

// Module applies and rolls back one configuration entry
type Module interface {
	Name() string
	Apply(ctx context.Context, cfg Config, dryRun bool) error
	Rollback(ctx context.Context, cfg Config, dryRun bool) error
}

// Inspector is implemented by modules that can report entry state
// without changing anything
type Inspector interface {
	Status(ctx context.Context, cfg Config) ([]filesync.EntryStatus, error)
}

// Deps are the collaborators shared by all modules
type Deps struct {
	FS        filesystem.FS
	Commander filesystem.Commander
	Paths     *paths.Paths
	Settings  *config.Settings
	Printer   *output.Printer
}

// Descriptor describes a registered module
type Descriptor struct {
	Name           string
	Description    string
	SingleInstance bool
	New            func(Deps) Module
}
