package auth

import (
	"fmt"
	"os"

	"nathanbeddoewebdev/pbrec/internal/config"
	"nathanbeddoewebdev/pbrec/internal/dns/domain"
	"nathanbeddoewebdev/pbrec/internal/dns/providers"
	"nathanbeddoewebdev/pbrec/internal/services/auth"
	"nathanbeddoewebdev/pbrec/internal/tui"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show where credentials resolve from and test them",
		Long: `Show whether the Porkbun API key pair is available, where each key
comes from (keychain or environment), and whether the pair is accepted
by the API.

Example:
  pbrec auth status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := auth.DefaultStore()
			pinger := buildPinger(store)

			// Use TUI in interactive terminal.
			if term.IsTerminal(int(os.Stdout.Fd())) {
				if err := tui.RunAuthStatus(store, pinger); err != nil {
					return fmt.Errorf("auth status failed: %w", err)
				}
				return nil
			}

			// Non-interactive fallback.
			for _, key := range auth.CredentialKeys() {
				source, err := auth.KeySource(store, key)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: error (%v)\n", key.Prompt, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", key.Prompt, source)
			}

			if pinger == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "API check: skipped (no credential pair)")
				return nil
			}
			ip, err := pinger.Ping(cmd.Context())
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "API check: failed (%v)\n", err)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API check: ok (your IP %s)\n", ip)
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}

// buildPinger returns a provider for the live API check, or nil when no
// complete credential pair resolves.
func buildPinger(store auth.Store) domain.Provider {
	creds, err := auth.ResolveCredentials(store)
	if err != nil {
		return nil
	}

	opts := []providers.PorkbunOption{}
	if cfg, err := config.Load(); err == nil && cfg.BaseURL != "" {
		opts = append(opts, providers.WithBaseURL(cfg.BaseURL))
	}
	return providers.NewPorkbunProvider(creds.APIKey, creds.SecretAPIKey, opts...)
}
