package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yildizm/MeetSum/internal/credentials"
	"github.com/yildizm/MeetSum/internal/emoji"
)

func newAuthCommand() *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the backend API token",
		Long: `Store, remove and inspect the bearer token sent to the analysis backend.

Tokens are kept in the operating system keyring, one per backend URL.
A backend.api_key in the configuration takes precedence.`,
	}

	authCmd.AddCommand(newAuthLoginCommand())
	authCmd.AddCommand(newAuthLogoutCommand())
	authCmd.AddCommand(newAuthStatusCommand())

	return authCmd
}

func newAuthLoginCommand() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API token for the configured backend",
		Example: `  # Prompt for the token
  meetsum auth login

  # Read the token from a secret manager
  vault read -field=token secret/meetsum | meetsum auth login`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend := GetGlobalConfig().Backend.BaseURL

			if token == "" {
				var err error
				token, err = readToken(cmd)
				if err != nil {
					return err
				}
			}
			if err := credentials.NewStore().Save(backend, token); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Token stored for %s\n", emoji.GetEmoji("success"), backend)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "token value (prompted for when omitted)")

	return cmd
}

// readToken prompts without echo on a terminal and reads one line otherwise.
func readToken(cmd *cobra.Command) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) { // #nosec G115 -- fd fits in int
		fmt.Fprint(cmd.ErrOrStderr(), "API token: ")
		raw, err := term.ReadPassword(int(f.Fd())) // #nosec G115 -- fd fits in int
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func newAuthLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend := GetGlobalConfig().Backend.BaseURL
			if err := credentials.NewStore().Delete(backend); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Token removed for %s\n", emoji.GetEmoji("success"), backend)
			return nil
		},
	}
}

func newAuthStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which token will be sent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetGlobalConfig()
			out := cmd.OutOrStdout()

			if cfg.Backend.APIKey != "" {
				fmt.Fprintf(out, "Using backend.api_key from configuration (%s)\n", credentials.Mask(cfg.Backend.APIKey))
				return nil
			}

			token, err := credentials.NewStore().Token(cfg.Backend.BaseURL)
			switch {
			case errors.Is(err, credentials.ErrNoToken):
				fmt.Fprintf(out, "No token stored for %s\n", cfg.Backend.BaseURL)
				return nil
			case err != nil:
				return err
			}
			fmt.Fprintf(out, "Token for %s: %s\n", cfg.Backend.BaseURL, credentials.Mask(token))
			return nil
		},
	}
}
