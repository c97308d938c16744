package auth

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/pbrec/internal/services/auth"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored API credentials",
		Long: `Remove the Porkbun API key pair from the OS keychain.

Credentials set through the environment are unaffected.

Example:
  pbrec auth logout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := auth.DefaultStore()

			removed := 0
			for _, key := range auth.CredentialKeys() {
				err := store.DeleteToken(key.Key)
				if errors.Is(err, auth.ErrTokenNotFound) {
					continue
				}
				if err != nil {
					return fmt.Errorf("failed to remove %s: %w", key.Prompt, err)
				}
				removed++
			}

			if removed == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No stored credentials to remove.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed Porkbun API credentials from the keychain.")
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
