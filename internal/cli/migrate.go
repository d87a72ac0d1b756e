package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordsearch/internal/db"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQLite migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := dbPath
			if path == "" {
				path = rootOpts.Config.DBPath
			}
			sqlDB, err := db.OpenMigrated(path)
			if err != nil {
				return fmt.Errorf("migrate %s: %w", path, err)
			}
			defer sqlDB.Close()

			log.Info().Str("db", path).Msg("migrations applied")
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite path (default $DB_PATH)")

	return cmd
}
