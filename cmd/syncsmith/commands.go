package syncsmith

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Abragus/syncsmith/internal/version"
	"github.com/Abragus/syncsmith/pkg/config"
	"github.com/Abragus/syncsmith/pkg/facts"
	"github.com/Abragus/syncsmith/pkg/filesystem"
	"github.com/Abragus/syncsmith/pkg/logging"
	"github.com/Abragus/syncsmith/pkg/modules"
	"github.com/Abragus/syncsmith/pkg/output"
	"github.com/Abragus/syncsmith/pkg/paths"
	"github.com/Abragus/syncsmith/pkg/runner"
)

type globalOptions struct {
	verbosity int
	dryRun    bool
	resetEnv  bool
	root      string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "syncsmith",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().BoolVar(&opts.resetEnv, "reset-env", false, MsgFlagResetEnv)
	rootCmd.PersistentFlags().StringVar(&opts.root, "root", "", MsgFlagRoot)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newApplyCmd(opts))
	rootCmd.AddCommand(newRollbackCmd(opts))
	rootCmd.AddCommand(newStatusCmd(opts))
	rootCmd.AddCommand(newEnvCmd(opts))
	rootCmd.AddCommand(newModulesCmd())
	rootCmd.AddCommand(newGenConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// session is everything a run over the configuration tree needs
type session struct {
	paths   *paths.Paths
	printer *output.Printer
	runner  *runner.Runner
	configs []modules.Config
}

// loadSettings resolves the settings and root for the command line
func loadSettings(cmd *cobra.Command, opts *globalOptions) (*config.Settings, *paths.Paths, error) {
	s, err := config.Load(config.Overrides{Root: opts.root})
	if err != nil {
		return nil, nil, fmt.Errorf(MsgErrLoadSettings, err)
	}

	p, err := paths.New(s.Root, s.Layout())
	if err != nil {
		return nil, nil, fmt.Errorf(MsgErrInitPaths, err)
	}

	if opts.root == "" {
		if _, fallback, err := paths.FindRoot(); err == nil && fallback {
			fmt.Fprintf(cmd.ErrOrStderr(), MsgFallbackWarning+"\n", p.Root())
		}
	}
	return s, p, nil
}

// newPrinter creates the user output printer for cmd
func newPrinter(cmd *cobra.Command, s *config.Settings) *output.Printer {
	w := cmd.OutOrStdout()
	return output.NewPrinter(w, output.ColorEnabled(w, s.Output.NoColor))
}

// ensureFacts creates or refreshes the environment file
func ensureFacts(fsys filesystem.FS, p *paths.Paths, printer *output.Printer, reset bool) (facts.Facts, error) {
	f, fresh, err := facts.Ensure(fsys, p.EnvironmentFile(), reset, facts.DefaultProbe())
	if err != nil {
		return nil, fmt.Errorf(MsgErrEnvironment, err)
	}
	if fresh {
		printer.Info(fmt.Sprintf(MsgEnvCreated, p.EnvironmentFile()))
	}
	return f, nil
}

// newSession loads settings, facts and the pruned configuration tree
func newSession(cmd *cobra.Command, opts *globalOptions) (*session, error) {
	s, p, err := loadSettings(cmd, opts)
	if err != nil {
		return nil, err
	}

	printer := newPrinter(cmd, s)
	fsys := filesystem.NewOS()

	f, err := ensureFacts(fsys, p, printer, opts.resetEnv)
	if err != nil {
		return nil, err
	}

	doc, err := runner.LoadDocument(fsys, p.ConfigFile(), f)
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	cfgs, err := runner.ModuleConfigs(doc)
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}

	deps := modules.Deps{
		FS:        fsys,
		Commander: filesystem.NewExecCommander(),
		Paths:     p,
		Settings:  s,
		Printer:   printer,
	}

	log.Info().
		Str("root", p.Root()).
		Int("modules", len(cfgs)).
		Bool("dry_run", opts.dryRun).
		Msg("Session ready")

	return &session{
		paths:   p,
		printer: printer,
		runner:  runner.New(modules.NewRegistry(), deps),
		configs: cfgs,
	}, nil
}

func newApplyCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "apply",
		Short:   MsgApplyShort,
		Long:    MsgApplyLong,
		Example: MsgApplyExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			if len(sess.configs) == 0 {
				sess.printer.Warning(fmt.Sprintf(MsgNoModules, sess.paths.ConfigFile()))
				return nil
			}

			summary, err := sess.runner.Apply(cmd.Context(), sess.configs, opts.dryRun)
			return finish(sess, opts, MsgApplySummary, summary, err)
		},
	}
}

func newRollbackCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rollback",
		Short:   MsgRollbackShort,
		Long:    MsgRollbackLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			if len(sess.configs) == 0 {
				sess.printer.Warning(fmt.Sprintf(MsgNoModules, sess.paths.ConfigFile()))
				return nil
			}

			summary, err := sess.runner.Rollback(cmd.Context(), sess.configs, opts.dryRun)
			return finish(sess, opts, MsgRollbackSummary, summary, err)
		},
	}
}

// finish prints the run summary and turns module failures into an error
func finish(sess *session, opts *globalOptions, format string, summary runner.Summary, err error) error {
	line := fmt.Sprintf(format, summary.Ran, summary.Skipped, summary.Failed)
	if summary.Failed > 0 {
		sess.printer.Warning(line)
	} else {
		sess.printer.Success(line)
	}
	if opts.dryRun {
		sess.printer.Info(MsgDryRunNotice)
	}
	if err != nil {
		return fmt.Errorf(MsgErrRunFailed, summary.Failed, err)
	}
	return nil
}

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(cmd, opts)
			if err != nil {
				return err
			}

			rows := sess.runner.Status(cmd.Context(), sess.configs)
			if len(rows) == 0 {
				sess.printer.Info(MsgNoEntries)
				return nil
			}
			w := sess.printer.Writer()
			_, err = fmt.Fprintln(w, output.RenderStatusTable(w, rows, sess.printer.Color()))
			return err
		},
	}
}

func newEnvCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "env",
		Short:   MsgEnvShort,
		Long:    MsgEnvLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, p, err := loadSettings(cmd, opts)
			if err != nil {
				return err
			}
			printer := newPrinter(cmd, s)

			f, err := ensureFacts(filesystem.NewOS(), p, printer, opts.resetEnv)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(map[string]any(f))
			if err != nil {
				return fmt.Errorf(MsgErrEnvironment, err)
			}
			printer.Printf("%s", data)
			return nil
		},
	}
}

func newModulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "modules",
		Short:   MsgModulesShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, desc := range modules.Builtins() {
				single := ""
				if desc.SingleInstance {
					single = MsgSingleInstance
				}
				fmt.Fprintf(w, MsgModuleItem+"\n", desc.Name, desc.Description, single)
			}
			return nil
		},
	}
}

func newGenConfigCmd(opts *globalOptions) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, p, err := loadSettings(cmd, opts)
			if err != nil {
				return err
			}

			content, err := config.GenerateConfigContent(s)
			if err != nil {
				return fmt.Errorf(MsgErrGenConfig, err)
			}

			if !write {
				_, err = fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			target := filepath.Join(p.Root(), config.FileName)
			if _, err := os.Stat(target); err == nil {
				return fmt.Errorf(MsgErrConfigExists, target)
			}
			if err := os.WriteFile(target, []byte(content), 0644); err != nil {
				return fmt.Errorf(MsgErrGenConfig, err)
			}
			newPrinter(cmd, s).Success(fmt.Sprintf(MsgGenConfigWritten, target))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}
}
