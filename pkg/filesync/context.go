package filesync

import (
	"context"
	"strings"

	"github.com/Abragus/syncsmith/pkg/filesystem"
	"github.com/Abragus/syncsmith/pkg/logging"
)

// ContextRestorer restores the security context of placed files
type ContextRestorer interface {
	// Enabled reports whether the host supports security contexts
	Enabled() bool
	// NeedsRestore reports whether path's context differs from policy
	NeedsRestore(ctx context.Context, path string) (bool, error)
	// Restore resets path's context
	Restore(ctx context.Context, path string) error
}

// Restorecon restores SELinux contexts with the restorecon program
type Restorecon struct {
	Program   string
	Commander filesystem.Commander
	Sudo      bool
	Probe     func() bool
}

// NewRestorecon creates a restorer that runs program through cmd
func NewRestorecon(program string, cmd filesystem.Commander, sudo bool) *Restorecon {
	return &Restorecon{
		Program:   program,
		Commander: cmd,
		Sudo:      sudo,
		Probe:     filesystem.SELinuxEnabled,
	}
}

// Enabled reports whether SELinux is active
func (r *Restorecon) Enabled() bool {
	return r.Probe != nil && r.Probe()
}

// NeedsRestore asks restorecon for a read-only verbose pass; any output
// means a relabel is due.
func (r *Restorecon) NeedsRestore(ctx context.Context, path string) (bool, error) {
	out, err := r.run(ctx, "-n", "-v", path)
	if err != nil {
		return false, err
	}
	needed := strings.TrimSpace(string(out)) != ""
	logger := logging.GetLogger("filesync.context")
	logger.Debug().
		Str("path", path).
		Bool("needed", needed).
		Msg("Checked security context")
	return needed, nil
}

// Restore relabels path
func (r *Restorecon) Restore(ctx context.Context, path string) error {
	_, err := r.run(ctx, path)
	return err
}

func (r *Restorecon) run(ctx context.Context, args ...string) ([]byte, error) {
	if r.Sudo {
		return r.Commander.Run(ctx, "sudo", append([]string{r.Program}, args...)...)
	}
	return r.Commander.Run(ctx, r.Program, args...)
}
