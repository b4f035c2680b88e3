package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/nhle/jira-categorize/internal/app"
	"github.com/nhle/jira-categorize/internal/credential"
	"github.com/nhle/jira-categorize/internal/log"
	"github.com/nhle/jira-categorize/internal/model"
	"github.com/nhle/jira-categorize/internal/source/jira"
	"github.com/nhle/jira-categorize/internal/theme"
	"github.com/nhle/jira-categorize/internal/ui/prompt"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	envFile    string
	jql        string
	selectMode bool
	useKeyring bool
	logLevel   string
	quiet      bool
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "jira-categorize",
		Short: "Set the Work Category on Jira issues matched by a JQL query",
		Long: `jira-categorize runs the JQL query in JIRA_JQL_QUERY, shows each matching
issue and asks which Work Category it belongs to. The choice is written
back to Jira immediately.

Connection settings come from JIRA_SERVER, JIRA_USER and JIRA_API_TOKEN,
optionally via a .env file or the YAML config file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCategorize(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", model.DefaultConfigPath(), "YAML config file")
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file with JIRA_* settings")
	flags.StringVar(&opts.jql, "jql", "", "JQL query (overrides JIRA_JQL_QUERY)")
	flags.BoolVar(&opts.selectMode, "select", false, "choose categories from an arrow-key list")
	flags.BoolVar(&opts.useKeyring, "keyring", false, "read JIRA_API_TOKEN from the OS keyring when unset")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the startup banner")

	cmd.AddCommand(newAuthCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	cmd := NewRootCommand()
	return exitCode(cmd.Execute(), cmd.ErrOrStderr())
}

// exitCode maps a command error to an exit code, reporting it on w.
// An interrupt has already been announced by the run loop.
func exitCode(err error, w io.Writer) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, prompt.ErrInterrupted):
		return ExitInterrupted
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
		return ExitFailure
	}
}

// loadConfig reads the configuration and applies flag overrides.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*model.AppConfig, error) {
	cfg, err := model.LoadConfig(model.LoadOptions{
		ConfigPath: o.configPath,
		EnvFile:    o.envFile,
	})
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if o.jql != "" {
		cfg.Jira.JQLQuery = o.jql
	}
	if o.selectMode {
		cfg.Prompt.Mode = model.PromptModeSelect
	}
	if o.useKeyring {
		cfg.Credentials.UseKeyring = true
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}

	return cfg, nil
}

// resolveToken fills a missing API token from the keyring when enabled.
// Lookup failures leave the token empty so validation reports it.
func resolveToken(cfg *model.AppConfig, logger arbor.ILogger) {
	if !cfg.Credentials.UseKeyring || cfg.Jira.APIToken != "" {
		return
	}
	if cfg.Jira.Server == "" || cfg.Jira.User == "" {
		return
	}

	token, err := credential.Get(credential.TokenKey(cfg.Jira.Server, cfg.Jira.User))
	if err != nil {
		if !errors.Is(err, credential.ErrNotFound) {
			logger.Warn().Err(err).Msg("Keyring lookup failed")
		}
		return
	}
	cfg.Jira.APIToken = token
}

func runCategorize(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := log.New(cfg.Logging.Level)
	runID := log.NewRunID()
	resolveToken(cfg, logger)

	out := cmd.OutOrStdout()
	styles := theme.New(lipgloss.NewRenderer(out))

	var prompter prompt.Prompter
	switch cfg.Prompt.Mode {
	case model.PromptModeSelect:
		prompter = prompt.NewSelectPrompter()
	default:
		prompter = prompt.NewLinePrompter(cmd.InOrStdin(), out, styles)
	}

	if !opts.quiet {
		printBanner(cfg, runID)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(app.Options{
		Config:   cfg,
		Connect:  jira.NewConnector(logger),
		Prompter: prompter,
		Styles:   styles,
		Out:      out,
		Logger:   logger,
		RunID:    runID,
	})

	_, err = a.Run(ctx)
	return err
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
