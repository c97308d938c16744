package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/pbrec/internal/services/auth"
	"nathanbeddoewebdev/pbrec/internal/tui"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store Porkbun API credentials",
		Long: `Store the Porkbun API key pair in the local keychain.

Keys are created under Account > API Access on porkbun.com. Without
flags an interactive form asks for both values with masked input.

Examples:
  pbrec auth login
  pbrec auth login --api-key pk1_... --secret-api-key sk1_...`,
		Args:         cobra.NoArgs,
		RunE:         runLogin,
		SilenceUsage: true,
	}

	cmd.Flags().String("api-key", "", "Porkbun API key (skips the prompt)")
	cmd.Flags().String("secret-api-key", "", "Porkbun secret API key (skips the prompt)")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	apiKey, _ := cmd.Flags().GetString("api-key")
	secretKey, _ := cmd.Flags().GetString("secret-api-key")

	creds := auth.Credentials{
		APIKey:       strings.TrimSpace(apiKey),
		SecretAPIKey: strings.TrimSpace(secretKey),
	}

	if creds.APIKey == "" || creds.SecretAPIKey == "" {
		switch {
		case !term.IsTerminal(int(os.Stdin.Fd())):
			return fmt.Errorf("cannot prompt for credentials without a terminal: pass --api-key and --secret-api-key")
		case term.IsTerminal(int(os.Stdout.Fd())):
			full, err := tui.LoginForm()
			if err != nil {
				if errors.Is(err, tui.ErrAborted) {
					fmt.Fprintln(cmd.ErrOrStderr(), "Login cancelled.")
					return nil
				}
				return err
			}
			creds = full
		default:
			filled, err := promptHidden(cmd, creds)
			if err != nil {
				return err
			}
			creds = filled
		}
	}

	if creds.APIKey == "" || creds.SecretAPIKey == "" {
		return fmt.Errorf("both the api key and the secret api key are required")
	}

	store := auth.DefaultStore()
	if err := store.SetToken(auth.KeyAPIKey, creds.APIKey); err != nil {
		return fmt.Errorf("failed to store api key: %w", err)
	}
	if err := store.SetToken(auth.KeySecretAPIKey, creds.SecretAPIKey); err != nil {
		return fmt.Errorf("failed to store secret api key: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Saved Porkbun API credentials to the keychain.")
	return nil
}

// promptHidden asks for each missing credential without echoing input.
// Prompts go to stderr so redirected stdout stays clean.
func promptHidden(cmd *cobra.Command, creds auth.Credentials) (auth.Credentials, error) {
	targets := map[string]*string{
		auth.KeyAPIKey:       &creds.APIKey,
		auth.KeySecretAPIKey: &creds.SecretAPIKey,
	}

	for _, key := range auth.CredentialKeys() {
		target := targets[key.Key]
		if *target != "" {
			continue
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Enter %s: ", key.Prompt)
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return creds, err
		}
		*target = strings.TrimSpace(string(raw))
	}

	return creds, nil
}
