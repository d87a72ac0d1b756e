package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordsearch/internal/db"
	"github.com/robalobadob/wordsearch/internal/httpserver"
	"github.com/robalobadob/wordsearch/internal/presets"
	"github.com/robalobadob/wordsearch/internal/store"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var port, dbPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP/websocket backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config
			if port != "" {
				cfg.Port = port
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}

			cat, err := loadCatalog(cfg.PresetsFile, cfg.DefaultPreset)
			if err != nil {
				return err
			}
			sqlDB, err := db.OpenMigrated(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer sqlDB.Close()

			srv := httpserver.New(cfg, store.NewMemoryStore(), sqlDB, cat)
			log.Info().Str("port", cfg.Port).Str("db", cfg.DBPath).Msg("starting wordsearch server")
			return srv.Start(":" + cfg.Port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (default $PORT or 5175)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite path (default $DB_PATH)")

	return cmd
}

// loadCatalog reads presets from path (embedded when empty) and applies a
// default override.
func loadCatalog(path, def string) (*presets.Catalog, error) {
	cat, err := presets.Load(path)
	if err != nil {
		return nil, err
	}
	if def != "" {
		if err := cat.SetDefault(def); err != nil {
			return nil, err
		}
	}
	return cat, nil
}
