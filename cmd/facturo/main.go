package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/dmoraru/facturo/internal/config"
	"github.com/dmoraru/facturo/internal/db"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	conn, err := db.ConnectAndMigrate(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Str("kind", cfg.Database.Kind).Msg("database init failed")
	}
	log.Info().Str("kind", cfg.Database.Kind).Msg("ledger ready")

	newShell(os.Stdin, os.Stdout, conn, cfg.OutputDir, log).run()
}
