package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/jira-categorize/internal/credential"
	"github.com/nhle/jira-categorize/internal/model"
	"github.com/nhle/jira-categorize/internal/ui/prompt"
)

func newAuthCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the Jira API token stored in the OS keyring",
	}
	cmd.AddCommand(newAuthLoginCommand(opts))
	cmd.AddCommand(newAuthLogoutCommand(opts))
	return cmd
}

func newAuthLoginCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store the API token for JIRA_USER on JIRA_SERVER",
		Long: `Prompts for a Jira API token and stores it in the OS keyring. Later runs
with --keyring (or credentials.use_keyring) use it when JIRA_API_TOKEN
is not set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := requireAccount(cfg); err != nil {
				return err
			}

			var token string
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Jira API token").
						Description(cfg.Jira.User + " on " + cfg.Jira.Server).
						EchoMode(huh.EchoModePassword).
						Value(&token).
						Validate(validateRequired("Token")),
				),
			)
			if err := form.RunWithContext(commandContext(cmd)); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					return prompt.ErrInterrupted
				}
				return fmt.Errorf("reading token: %w", err)
			}

			key := credential.TokenKey(cfg.Jira.Server, cfg.Jira.User)
			if err := credential.Set(key, strings.TrimSpace(token)); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Stored API token for %s at %s\n",
				cfg.Jira.User, cfg.Jira.Server)
			return nil
		},
	}
}

func newAuthLogoutCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API token for JIRA_USER on JIRA_SERVER",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := requireAccount(cfg); err != nil {
				return err
			}

			key := credential.TokenKey(cfg.Jira.Server, cfg.Jira.User)
			if err := credential.Delete(key); err != nil {
				if errors.Is(err, credential.ErrNotFound) {
					fmt.Fprintln(cmd.OutOrStdout(), "No stored API token.")
					return nil
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed API token for %s at %s\n",
				cfg.Jira.User, cfg.Jira.Server)
			return nil
		},
	}
}

// requireAccount checks the settings that identify a keyring entry.
func requireAccount(cfg *model.AppConfig) error {
	var missing []string
	if cfg.Jira.Server == "" {
		missing = append(missing, model.EnvServer)
	}
	if cfg.Jira.User == "" {
		missing = append(missing, model.EnvUser)
	}
	if len(missing) > 0 {
		return &model.MissingConfigError{Missing: missing}
	}
	return nil
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
