package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dmoraru/facturo/internal/config"
	"github.com/dmoraru/facturo/internal/models"
)

// ConnectAndMigrate opens the configured backend and applies GORM migrations.
// For postgres it retries a few times to give the server time to come up;
// the embedded sqlite backend opens on the first attempt or not at all.
func ConnectAndMigrate(cfg config.DatabaseConfig, log zerolog.Logger) (*gorm.DB, error) {
	var (
		dial     gorm.Dialector
		attempts int
	)
	switch cfg.Kind {
	case "postgres":
		dial = postgres.Open(cfg.DSN())
		attempts = 5
	default:
		dial = sqlite.Open(cfg.Path)
		attempts = 1
	}

	var db *gorm.DB
	var err error
	for i := 0; i < attempts; i++ {
		db, err = gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		if err == nil {
			break
		}
		log.Warn().Err(err).Int("attempt", i+1).Int("max", attempts).Msg("database connection failed, retrying")
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Kind, err)
	}

	if err := db.AutoMigrate(
		&models.Client{},
		&models.Product{},
		&models.Invoice{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}
