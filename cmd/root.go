package cmd

import (
	"fmt"
	"os"

	"nathanbeddoewebdev/pbrec/cmd/commands/apply"
	"nathanbeddoewebdev/pbrec/cmd/commands/audit"
	"nathanbeddoewebdev/pbrec/cmd/commands/auth"
	cfgcmd "nathanbeddoewebdev/pbrec/cmd/commands/config"
	"nathanbeddoewebdev/pbrec/cmd/commands/records"
	"nathanbeddoewebdev/pbrec/cmd/commands/verify"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "pbrec",
		Short: "Reconcile Porkbun DNS records against a desired state",
		Long: `pbrec brings a single DNS record on a Porkbun-hosted domain to a
desired state: present with specific content and TTL, or absent. One
lookup, one decision, at most one change per run.

Quick start:
  pbrec auth login                                  # Store your API credentials
  pbrec apply --domain example.com --type A \
              --name www --content 192.0.2.1       # Create or update a record
  pbrec records list example.com                    # Browse the domain's records
  pbrec verify --domain example.com --type A \
              --name www --content 192.0.2.1 --wait # Wait for resolvers to agree`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(logr.NewContext(cmd.Context(), newLogger(cmd)))
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log request and decision detail to stderr")

	cmd.AddCommand(apply.NewCommand())
	cmd.AddCommand(records.NewCommand())
	cmd.AddCommand(verify.NewCommand())
	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(audit.NewCommand())

	return cmd
}

// newLogger builds the logger subcommands pick up from the command context.
// Quiet by default; --verbose installs a stderr sink that includes wire-level
// detail (credential values never reach the logger in the first place).
func newLogger(cmd *cobra.Command) logr.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return logr.Discard()
	}

	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(cmd.ErrOrStderr(), args)
	}, funcr.Options{Verbosity: 1})
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}
