package rulesplit

import (
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/rulesplit/internal/version"
	"github.com/arthur-debert/rulesplit/pkg/cobrax/topics"
	"github.com/arthur-debert/rulesplit/pkg/config"
	"github.com/arthur-debert/rulesplit/pkg/logging"
	"github.com/arthur-debert/rulesplit/pkg/pipeline"
	"github.com/arthur-debert/rulesplit/pkg/ui"
	"github.com/arthur-debert/rulesplit/pkg/ui/display"
)

//go:embed topics
var topicsFS embed.FS

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	verbosity  int
	configPath string
	dryRun     bool
	url        string
	timeout    time.Duration
	insecure   bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}
	var format string

	rootCmd := &cobra.Command{
		Use:     "rulesplit",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, opts, format)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVarP(&opts.configPath, "config", "c", "", MsgFlagConfig)
	flags.BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	flags.StringVar(&opts.url, "url", "", MsgFlagURL)
	flags.DurationVar(&opts.timeout, "timeout", 0, MsgFlagTimeout)
	flags.BoolVar(&opts.insecure, "insecure", false, MsgFlagInsecure)
	_ = rootCmd.MarkPersistentFlagFilename("config", "toml", "yaml", "yml")

	addFormatFlag(rootCmd, &format)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate + "\n")

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newGroupsCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	helpTopics, err := fs.Sub(topicsFS, "topics")
	if err == nil {
		err = topics.InitializeWithOptions(rootCmd, helpTopics, topics.Options{
			Renderer: topics.NewGlamourRenderer(),
		})
	}
	if err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

// loadConfig loads the layered configuration, with flags set on the command
// line applied last
func (o *globalOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	overrides := map[string]interface{}{}
	flags := cmd.Flags()
	if flags.Changed("url") {
		overrides["source.url"] = o.url
	}
	if flags.Changed("timeout") {
		overrides["source.timeout"] = o.timeout.String()
	}
	if flags.Changed("insecure") {
		overrides["source.insecure_skip_verify"] = o.insecure
	}

	return config.Load(config.LoadOptions{
		Path:      o.configPath,
		Overrides: overrides,
	})
}

func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVarP(format, "format", "f", "auto", MsgFlagFormat)
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return ui.FormatNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

func newRenderer(cmd *cobra.Command, format string) (ui.Renderer, error) {
	f, err := ui.ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf(MsgErrFormat, format, err)
	}
	return ui.NewRenderer(f, cmd.OutOrStdout())
}

func runPipeline(cmd *cobra.Command, opts *globalOptions, format string) error {
	renderer, err := newRenderer(cmd, format)
	if err != nil {
		return err
	}

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	log.Info().
		Str("url", cfg.Source.URL).
		Int("targets", len(cfg.Targets)).
		Bool("dryRun", opts.dryRun).
		Msg("Starting run")

	result, runErr := pipeline.Run(cmd.Context(), pipeline.Options{
		Config: cfg,
		DryRun: opts.dryRun,
	})

	// A failed run still reports the targets written before the failure
	if result != nil {
		if err := renderer.RenderResult(display.NewRunReport(result)); err != nil {
			return fmt.Errorf(MsgErrRender, err)
		}
	}
	return runErr
}

func newRunCmd(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "run",
		Short:   MsgRunShort,
		Long:    MsgRunLong,
		Example: MsgRunExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, opts, format)
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}

func newGroupsCmd(opts *globalOptions) *cobra.Command {
	var (
		format    string
		withLines bool
	)

	cmd := &cobra.Command{
		Use:     "groups",
		Short:   MsgGroupsShort,
		Long:    MsgGroupsLong,
		Example: MsgGroupsExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := newRenderer(cmd, format)
			if err != nil {
				return err
			}

			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			result, err := pipeline.Groups(cmd.Context(), pipeline.Options{Config: cfg})
			if err != nil {
				return err
			}

			if err := renderer.RenderResult(display.NewGroupsReport(result, withLines)); err != nil {
				return fmt.Errorf(MsgErrRender, err)
			}
			return nil
		},
	}
	addFormatFlag(cmd, &format)
	cmd.Flags().BoolVarP(&withLines, "lines", "l", false, MsgFlagLines)
	return cmd
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		Example: MsgConfigExample,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "toml" && format != "yaml" {
				return fmt.Errorf(MsgErrDumpFormat, format)
			}

			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			out, err := config.Dump(cfg, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "toml", MsgFlagDumpFmt)
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"toml", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
			return err
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
