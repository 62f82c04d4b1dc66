package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds the flags shared by every subcommand.
type RootOptions struct {
	// EnvFile is loaded before the environment is read; empty uses .env.
	EnvFile string
}

// NewRootCommand builds the booking-engine CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "booking-engine",
		Short:         "Availability and booking API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "dotenv file to load before reading the environment")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}
