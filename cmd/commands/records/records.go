// Package records implements read-only record inspection commands.
package records

import (
	"fmt"

	"nathanbeddoewebdev/pbrec/internal/config"
	"nathanbeddoewebdev/pbrec/internal/dns/providers"
	"nathanbeddoewebdev/pbrec/internal/dns/services"
	"nathanbeddoewebdev/pbrec/internal/services/auth"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

// NewCommand returns the top-level "records" command with all subcommands attached.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Inspect DNS records on a domain",
		Long:  `Inspect the DNS records Porkbun currently serves for a domain.`,
	}

	cmd.AddCommand(ListCommand())

	return cmd
}

// newService builds a reconciler service from stored credentials and config.
func newService(cmd *cobra.Command) (*services.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	creds, err := auth.ResolveCredentials(auth.DefaultStore())
	if err != nil {
		return nil, err
	}

	log := logr.FromContextOrDiscard(cmd.Context())
	providerOpts := []providers.PorkbunOption{providers.WithLogger(log)}
	if cfg.BaseURL != "" {
		providerOpts = append(providerOpts, providers.WithBaseURL(cfg.BaseURL))
	}
	provider := providers.NewPorkbunProvider(creds.APIKey, creds.SecretAPIKey, providerOpts...)

	return services.New(provider, services.WithLogger(log)), nil
}
