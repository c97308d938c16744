package config

import (
	"nathanbeddoewebdev/pbrec/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pbrec configuration",
		Long: "View and modify persistent pbrec settings.\n\n" +
			"Configuration is stored at ~/.config/pbrec/config.json.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
