package modules

import (
	"github.com/Abragus/syncsmith/pkg/filesync"
	"github.com/Abragus/syncsmith/pkg/registry"
)

// Module names
const (
	SymlinkName  = "symlink"
	CopyName     = "copy"
	BashrcName   = "bashrc"
	SSHKeysName  = "ssh_keys"
	EditFileName = "edit_file"
)

// Builtins returns the descriptors of every built-in module
func Builtins() []Descriptor {
	return []Descriptor{
		{
			Name:        SymlinkName,
			Description: "Sync any file using symbolic links",
			New: func(d Deps) Module {
				return newSyncModule(SymlinkName, filesync.Symlink, d, nil)
			},
		},
		{
			Name:        CopyName,
			Description: "Sync any file by copying",
			New: func(d Deps) Module {
				return newSyncModule(CopyName, filesync.Copy, d, nil)
			},
		},
		{
			Name:           BashrcName,
			Description:    "Sync .bashrc file",
			SingleInstance: true,
			New: func(d Deps) Module {
				return newSyncModule(BashrcName, filesync.Symlink, d, &preset{source: ".bashrc", target: "~/.bashrc"})
			},
		},
		{
			Name:           SSHKeysName,
			Description:    "Sync SSH authorized_keys file",
			SingleInstance: true,
			New: func(d Deps) Module {
				return newSyncModule(SSHKeysName, filesync.Symlink, d, &preset{source: "ssh_keys", target: "~/.ssh/authorized_keys"})
			},
		},
		{
			Name:        EditFileName,
			Description: "Edit files using custom rules",
			New: func(d Deps) Module {
				return newEditFile(d)
			},
		},
	}
}

// NewRegistry returns a registry holding the built-in modules
func NewRegistry() registry.Registry[Descriptor] {
	reg := registry.New[Descriptor]()
	for _, desc := range Builtins() {
		registry.MustRegister(reg, desc.Name, desc)
	}
	return reg
}
