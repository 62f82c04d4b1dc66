package cli

import (
	"github.com/spf13/cobra"

	dbpkg "github.com/BruksfildServices01/booking-engine/internal/db"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, db, err := bootstrap(rootOpts)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if err := dbpkg.Migrate(db); err != nil {
				return err
			}
			logger.Info("schema up to date")
			return nil
		},
	}
}
