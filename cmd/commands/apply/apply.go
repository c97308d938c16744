// Package apply implements the pbrec apply command, the CLI entry point
// for reconciling one DNS record against its desired state.
package apply

import (
	"fmt"
	"os"
	"time"

	"nathanbeddoewebdev/pbrec/internal/auditlog"
	"nathanbeddoewebdev/pbrec/internal/config"
	"nathanbeddoewebdev/pbrec/internal/dns/domain"
	"nathanbeddoewebdev/pbrec/internal/dns/providers"
	"nathanbeddoewebdev/pbrec/internal/dns/services"
	"nathanbeddoewebdev/pbrec/internal/services/auth"
	"nathanbeddoewebdev/pbrec/internal/specfile"
	"nathanbeddoewebdev/pbrec/internal/tui"

	"github.com/charmbracelet/huh/spinner"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Bring a DNS record to its desired state",
		Long: `Bring a single DNS record to its desired state: present with the
given content and TTL, or absent. The record is looked up once, compared,
and at most one change is made. Running apply again with the same inputs
is a no-op.

The record can be described with flags, with a YAML file, or both; flags
override file values.

Examples:
  # Create or update an A record
  pbrec apply --domain example.com --type A --name www --content 192.0.2.1

  # Pin the TTL; leading zeros are read as decimal
  pbrec apply --domain example.com --type A --name www --content 192.0.2.1 --ttl 0600

  # Remove a record
  pbrec apply --domain example.com --type TXT --name _acme-challenge --state absent

  # From a file, overriding one field
  pbrec apply -f record.yaml --content 192.0.2.7

  # See what would change without touching anything
  pbrec apply -f record.yaml --dry-run`,
		Args:         cobra.NoArgs,
		RunE:         runApply,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("file", "f", "", "YAML file describing the record")
	cmd.Flags().String("domain", "", "Root domain the record belongs to")
	cmd.Flags().String("type", "", "Record type (A, AAAA, CNAME, MX, TXT, etc.)")
	cmd.Flags().String("name", "", "Subdomain name (leave empty for the root domain)")
	cmd.Flags().String("content", "", "Record content (IP address, hostname, text value, etc.)")
	cmd.Flags().String("ttl", "", "Time-to-live in seconds (default: 600)")
	cmd.Flags().Int("priority", 0, "Record priority (for MX, SRV, etc.)")
	cmd.Flags().String("notes", "", "Optional notes stored with the record on creation")
	cmd.Flags().String("state", "", "Desired state: present or absent (default: present)")
	cmd.Flags().Bool("dry-run", false, "Report the decision without making any change")
	cmd.Flags().Bool("strict", false, "Fail when more than one existing record matches")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt for deletions")
	cmd.Flags().String("api-key", "", "Porkbun API key (overrides keychain and environment)")
	cmd.Flags().String("secret-api-key", "", "Porkbun secret API key (overrides keychain and environment)")

	return cmd
}

func runApply(cmd *cobra.Command, args []string) error {
	start := time.Now()
	log := logr.FromContextOrDiscard(cmd.Context())

	desired, fileSpec, err := desiredFromInputs(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if desired.TTL == 0 && cfg.DefaultTTL > 0 {
		desired.TTL = cfg.DefaultTTL
	}

	creds, err := resolveCredentials(cmd, fileSpec)
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	yes, _ := cmd.Flags().GetBool("yes")
	interactive := term.IsTerminal(int(os.Stdout.Fd()))

	if desired.State == domain.StateAbsent && !dryRun && !yes && interactive {
		confirmed, err := tui.ConfirmDelete(desired)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(cmd.ErrOrStderr(), "Aborted, no changes made.")
			return nil
		}
	}

	svc := newService(cmd, cfg, creds, log)

	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{
		Domain:     desired.Domain,
		RecordType: string(desired.Type),
		RecordName: desired.FQName(),
	}))

	res, err := reconcile(cmd, svc, desired, interactive)
	if err == nil && res.Record.ID != "" {
		cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{
			RecordID:   res.Record.ID,
			RecordName: res.Record.Name,
		}))
	}
	recordAudit(cmd, res, err, time.Since(start))
	if err != nil {
		return err
	}

	msg := res.Msg
	if dryRun {
		msg = "[dry-run] " + msg
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}

// desiredFromInputs builds the desired record from the --file spec, if any,
// with explicitly set flags overriding file values field by field.
func desiredFromInputs(cmd *cobra.Command) (domain.DesiredRecord, specfile.Spec, error) {
	var desired domain.DesiredRecord
	var fileSpec specfile.Spec

	if path, _ := cmd.Flags().GetString("file"); path != "" {
		spec, err := specfile.Load(path)
		if err != nil {
			return desired, fileSpec, err
		}
		fileSpec = spec
		desired = spec.Record
	}

	flags := cmd.Flags()
	if flags.Changed("domain") {
		desired.Domain, _ = flags.GetString("domain")
	}
	if flags.Changed("type") {
		t, _ := flags.GetString("type")
		desired.Type = domain.RecordType(t)
	}
	if flags.Changed("name") {
		desired.Name, _ = flags.GetString("name")
	}
	if flags.Changed("content") {
		desired.Content, _ = flags.GetString("content")
	}
	if flags.Changed("ttl") {
		raw, _ := flags.GetString("ttl")
		ttl, err := services.ParseTTL(raw)
		if err != nil {
			return desired, fileSpec, err
		}
		desired.TTL = ttl
	}
	if flags.Changed("priority") {
		desired.Priority, _ = flags.GetInt("priority")
	}
	if flags.Changed("notes") {
		desired.Notes, _ = flags.GetString("notes")
	}
	if flags.Changed("state") {
		s, _ := flags.GetString("state")
		desired.State = domain.State(s)
	}

	if desired.Domain == "" {
		return desired, fileSpec, fmt.Errorf("%w: --domain or a record file is required", domain.ErrValidation)
	}

	return desired, fileSpec, nil
}

// resolveCredentials resolves the API credential pair one key at a time:
// an explicit flag wins, then a value from the record file, then the
// keychain, then the environment.
func resolveCredentials(cmd *cobra.Command, fileSpec specfile.Spec) (auth.Credentials, error) {
	store := auth.DefaultStore()
	creds := auth.Credentials{}

	if cmd.Flags().Changed("api-key") {
		creds.APIKey, _ = cmd.Flags().GetString("api-key")
	} else if fileSpec.Credentials.APIKey != "" {
		creds.APIKey = fileSpec.Credentials.APIKey
	} else {
		key, err := auth.ResolveKey(store, auth.KeyAPIKey, auth.EnvAPIKey)
		if err != nil {
			return auth.Credentials{}, fmt.Errorf("api key not found (run 'pbrec auth login' or set %s): %w", auth.EnvAPIKey, err)
		}
		creds.APIKey = key
	}

	if cmd.Flags().Changed("secret-api-key") {
		creds.SecretAPIKey, _ = cmd.Flags().GetString("secret-api-key")
	} else if fileSpec.Credentials.SecretAPIKey != "" {
		creds.SecretAPIKey = fileSpec.Credentials.SecretAPIKey
	} else {
		key, err := auth.ResolveKey(store, auth.KeySecretAPIKey, auth.EnvSecretAPIKey)
		if err != nil {
			return auth.Credentials{}, fmt.Errorf("secret api key not found (run 'pbrec auth login' or set %s): %w", auth.EnvSecretAPIKey, err)
		}
		creds.SecretAPIKey = key
	}

	return creds, nil
}

// newService builds the reconciler from resolved inputs.
func newService(cmd *cobra.Command, cfg *config.Config, creds auth.Credentials, log logr.Logger) *services.Service {
	providerOpts := []providers.PorkbunOption{providers.WithLogger(log)}
	if cfg.BaseURL != "" {
		providerOpts = append(providerOpts, providers.WithBaseURL(cfg.BaseURL))
	}
	provider := providers.NewPorkbunProvider(creds.APIKey, creds.SecretAPIKey, providerOpts...)

	svcOpts := []services.Option{services.WithLogger(log)}
	if strict, _ := cmd.Flags().GetBool("strict"); strict {
		svcOpts = append(svcOpts, services.WithStrictMatch())
	}
	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		svcOpts = append(svcOpts, services.WithDryRun())
	}
	return services.New(provider, svcOpts...)
}

// reconcile runs Apply, behind a spinner when attached to a terminal.
func reconcile(cmd *cobra.Command, svc *services.Service, desired domain.DesiredRecord, interactive bool) (services.Result, error) {
	if !interactive {
		return svc.Apply(cmd.Context(), desired)
	}

	accessible := os.Getenv("ACCESSIBLE") != ""
	var res services.Result
	var applyErr error
	spinErr := spinner.New().
		Title(fmt.Sprintf("Reconciling %s record %s...", desired.Type, desired.FQName())).
		Accessible(accessible).
		Output(cmd.ErrOrStderr()).
		Action(func() {
			res, applyErr = svc.Apply(cmd.Context(), desired)
		}).
		Run()
	if spinErr != nil {
		return res, spinErr
	}
	return res, applyErr
}
