// Command adduser registers an account directly against the configured
// storage backend, bypassing the HTTP API. Useful for seeding a fresh
// deployment with an initial user.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/artempelyovin/rashodomer-be/internal/cli"
	"github.com/artempelyovin/rashodomer-be/internal/service"
)

func main() {
	login := flag.String("login", "", "login for the new user (required)")
	firstName := flag.String("first", "", "first name for the new user")
	lastName := flag.String("last", "", "last name for the new user")
	password := flag.String("password", "", "password for the new user (prompted if omitted)")
	backendType := flag.String("backend", "", "storage backend to use (overrides DATA_BACKEND)")
	filePath := flag.String("file", "", "file database path (overrides FILE_DB_PATH)")
	dbPath := flag.String("db", "", "SQLite database path (overrides SQLITE_DB_PATH)")
	flag.Parse()

	if *login == "" {
		fmt.Fprintln(os.Stderr, "adduser: -login is required")
		flag.Usage()
		os.Exit(2)
	}

	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig()
	if *backendType != "" {
		cfg.DataBackend = *backendType
	}
	if *filePath != "" {
		cfg.FileDBPath = *filePath
	}
	if *dbPath != "" {
		cfg.SQLiteDBPath = *dbPath
	}

	logger := cli.SetupLogger(cfg, "adduser")

	pass := *password
	if pass == "" {
		var err error
		pass, err = cli.ReadPassword("Password: ")
		if err != nil {
			logger.Error("Failed to read password", "error", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()

	result := cli.OpenStore(ctx, logger, cfg)
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Storage cleanup failed", "error", err)
			}
		}
	}()

	auth := service.NewAuthManager(result.Store)
	user, err := auth.Register(ctx, *firstName, *lastName, *login, pass)
	if err != nil {
		logger.Error("Failed to register user", "error", err, "login", *login)
		os.Exit(1)
	}

	fmt.Printf("Created user %s (%s)\n", user.Login, user.ID)
}
