// Command purge deletes every user account. It is meant for test and staging databases.
package main

import (
	"context"
	"flag"
	"os"

	"examauth/internal/config"
	"examauth/internal/db"
	"examauth/internal/logging"
	"examauth/internal/repository"
)

func main() {
	yes := flag.Bool("yes", false, "confirm deletion of all users")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel)
	ctx := context.Background()

	if !*yes {
		logger.Error(ctx, "refusing to purge without -yes")
		os.Exit(2)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Error(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(gormDB, false); err != nil {
		logger.Error(ctx, "failed to run migrations", "error", err)
		os.Exit(1)
	}

	deleted, err := repository.NewUserRepository(gormDB).DeleteAll(ctx)
	if err != nil {
		logger.Error(ctx, "failed to purge users", "error", err)
		os.Exit(1)
	}
	logger.Info(ctx, "purge completed", "deleted", deleted)
}
