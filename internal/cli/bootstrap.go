package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-engine/internal/config"
	dbpkg "github.com/BruksfildServices01/booking-engine/internal/db"
	"github.com/BruksfildServices01/booking-engine/internal/logging"
)

// bootstrap loads configuration and opens the logger and database every
// subcommand needs.
func bootstrap(opts *RootOptions) (*config.Config, *zap.Logger, *gorm.DB, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return nil, nil, nil, fmt.Errorf("load env file: %w", err)
		}
	}
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build logger: %w", err)
	}

	db, err := dbpkg.NewDB(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, err
	}
	return cfg, logger, db, nil
}
