package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/KAsare1/fintrack-server/cmd/api"
	"github.com/KAsare1/fintrack-server/cmd/config"
	"github.com/KAsare1/fintrack-server/cmd/logger"
	"github.com/KAsare1/fintrack-server/db"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, !cfg.IsProduction())

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			runMigrations(cfg, log)
			return
		case "clear-db":
			runDatabaseClear(cfg, log)
			return
		default:
			log.Fatal().Msgf("Unknown command: %s", os.Args[1])
		}
	}

	startServer(cfg, log)
}

func openDatabase(cfg *config.Config, log zerolog.Logger) (*gorm.DB, func()) {
	DB, err := db.NewStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database initialization error")
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("connected to the database")

	return DB, func() {
		if sqlDB, err := DB.DB(); err == nil {
			sqlDB.Close()
		}
		log.Info().Msg("database connection closed")
	}
}

func runMigrations(cfg *config.Config, log zerolog.Logger) {
	DB, closeDB := openDatabase(cfg, log)
	defer closeDB()

	log.Info().Msg("starting database migrations")
	if err := db.Migrate(DB); err != nil {
		log.Fatal().Err(err).Msg("migration error")
	}
	log.Info().Msg("migrations completed successfully")
}

func startServer(cfg *config.Config, log zerolog.Logger) {
	DB, closeDB := openDatabase(cfg, log)
	defer closeDB()

	if cfg.DBDriver == "sqlite" {
		// Local sqlite files are migrated on boot; postgres uses the migrate command.
		if err := db.Migrate(DB); err != nil {
			log.Fatal().Err(err).Msg("migration error")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := api.NewApiServer(cfg, DB, log)
	if err := server.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
}

func runDatabaseClear(cfg *config.Config, log zerolog.Logger) {
	DB, closeDB := openDatabase(cfg, log)
	defer closeDB()

	in := bufio.NewReader(os.Stdin)
	fmt.Print("Are you sure you want to clear the database? (yes/no): ")
	confirmation, _ := in.ReadString('\n')
	if strings.TrimSpace(confirmation) != "yes" {
		log.Info().Msg("database clearing cancelled")
		return
	}

	fmt.Print("Enter table names to clear (comma separated) or leave blank to clear all: ")
	tableNames, _ := in.ReadString('\n')

	var tables []interface{}
	for _, name := range strings.Split(strings.TrimSpace(tableNames), ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		model, ok := db.Lookup(name)
		if !ok {
			log.Warn().Str("table", name).Msg("unknown table")
			continue
		}
		tables = append(tables, model)
	}

	if err := db.Drop(DB, tables); err != nil {
		log.Fatal().Err(err).Msg("error clearing database")
	}
	log.Info().Msg("database cleared successfully")
}
