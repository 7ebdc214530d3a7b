package filesystem

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/Abragus/syncsmith/pkg/errors"
	"github.com/Abragus/syncsmith/pkg/logging"
)

// Commander runs external programs and returns their combined output
type Commander interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecCommander runs commands with os/exec
type ExecCommander struct{}

// NewExecCommander returns a Commander backed by os/exec
func NewExecCommander() *ExecCommander {
	return &ExecCommander{}
}

// Run executes name with args. A non-zero exit is reported as
// ErrCommandFailed carrying the command line and its output.
func (c *ExecCommander) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	logger := logging.GetLogger("filesystem.commander")
	logger.Debug().Str("command", name).Strs("args", args).Msg("Running command")

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		line := strings.TrimSpace(name + " " + strings.Join(args, " "))
		return out.Bytes(), errors.Wrapf(err, errors.ErrCommandFailed, "command failed: %s", line).
			WithDetail("command", line).
			WithDetail("output", strings.TrimSpace(out.String()))
	}
	return out.Bytes(), nil
}
