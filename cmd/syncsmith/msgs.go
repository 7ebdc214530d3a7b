package syncsmith

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Reconcile a machine with a declarative configuration"
	MsgApplyShort      = "Apply every module entry to the system"
	MsgRollbackShort   = "Undo applied entries and restore backups"
	MsgStatusShort     = "Show the sync state of every entry"
	MsgEnvShort        = "Create or refresh the environment facts file"
	MsgModulesShort    = "List available modules"
	MsgGenConfigShort  = "Print the effective settings as syncsmith.toml"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgDryRunNotice     = "DRY RUN MODE - No changes were made"
	MsgEnvCreated       = "Created environment file %s"
	MsgEnvFilled        = "Environment file %s is up to date"
	MsgNoModules        = "No modules configured in %s"
	MsgNoEntries        = "No symlink or copy entries configured."
	MsgApplySummary     = "Ran %d module(s), skipped %d, failed %d"
	MsgRollbackSummary  = "Rolled back %d module(s), skipped %d, failed %d"
	MsgModuleItem       = "  %-10s %s%s"
	MsgSingleInstance   = " (single instance)"
	MsgGenConfigWritten = "Wrote %s"
	MsgVersionFormat    = "syncsmith version %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrLoadSettings = "failed to load settings: %w"
	MsgErrInitPaths    = "failed to initialize paths: %w"
	MsgErrEnvironment  = "failed to prepare environment: %w"
	MsgErrLoadConfig   = "failed to load configuration: %w"
	MsgErrRunFailed    = "%d module(s) failed: %w"
	MsgErrGenConfig    = "failed to generate settings: %w"
	MsgErrConfigExists = "%s already exists"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun   = "Preview changes without executing them"
	MsgFlagResetEnv = "Rebuild environment.yaml from detected values"
	MsgFlagRoot     = "Syncsmith root directory (default $SYNCSMITH_ROOT or the current directory)"
	MsgFlagWrite    = "Write syncsmith.toml into the root instead of stdout"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/apply-long.txt
	msgApplyLongRaw string
	MsgApplyLong    = strings.TrimSpace(msgApplyLongRaw)

	//go:embed msgs/apply-example.txt
	msgApplyExampleRaw string
	MsgApplyExample    = strings.TrimRight(msgApplyExampleRaw, "\n")

	//go:embed msgs/rollback-long.txt
	msgRollbackLongRaw string
	MsgRollbackLong    = strings.TrimSpace(msgRollbackLongRaw)

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/env-long.txt
	msgEnvLongRaw string
	MsgEnvLong    = strings.TrimSpace(msgEnvLongRaw)

	//go:embed msgs/fallback-warning.txt
	msgFallbackWarningRaw string
	MsgFallbackWarning    = strings.TrimSpace(msgFallbackWarningRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
