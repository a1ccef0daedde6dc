package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/zaviagodev/ai-commerce-sub002/internal/config"
	"github.com/zaviagodev/ai-commerce-sub002/internal/logger"
)

func main() {
	down := flag.Bool("down", false, "Roll back all migrations instead of applying them")
	steps := flag.Int("steps", 0, "Apply (or with -down roll back) only this many migrations")
	showVersion := flag.Bool("version", false, "Print the current schema version and exit")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	logger.Infow("Connecting to database",
		"host", cfg.Postgres.Host,
		"migrations_path", cfg.Postgres.MigrationsPath,
	)

	m, err := migrate.New("file://"+cfg.Postgres.MigrationsPath, cfg.Postgres.GetMigrationURL())
	if err != nil {
		logger.Fatalw("Failed to initialize migrations", "error", err)
	}
	defer m.Close()

	if *showVersion {
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			logger.Fatalw("Failed to read schema version", "error", err)
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return
	}

	switch {
	case *steps != 0 && *down:
		err = m.Steps(-*steps)
	case *steps != 0:
		err = m.Steps(*steps)
	case *down:
		err = m.Down()
	default:
		err = m.Up()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply")
		return
	}
	if err != nil {
		logger.Fatalw("Migration failed", "error", err)
	}

	logger.Info("Migration completed successfully")
}
