// Command adminctl bootstraps an administrator account directly against the
// database, bypassing the HTTP API. Intended for first-time setup.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/facturio/facturio/internal/logging"
	"github.com/facturio/facturio/internal/server/auth"
	"github.com/facturio/facturio/internal/server/config"
	"github.com/facturio/facturio/internal/server/repositories/repomanager"
	"github.com/facturio/facturio/internal/server/services"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func promptPassword() (string, error) {
	fmt.Print("Enter password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}

	fmt.Print("Repeat password: ")
	confirm, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}

	if string(pw) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(pw), nil
}

func run(ctx context.Context, cfg *config.Config, username, email, password string) error {
	tokens, err := auth.NewTokenCodec(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenValidityDuration)
	if err != nil {
		return fmt.Errorf("token codec init error: %w", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	users := services.NewUserService(db, rm, auth.NewArgon2idHasher(), tokens, logger)

	user, err := users.CreateAdmin(ctx, username, email, password)
	if err != nil {
		return fmt.Errorf("error creating admin: %w", err)
	}

	fmt.Printf("Created admin %q (id %d)\n", user.Username, user.ID)
	return nil
}

func main() {
	fs := flag.NewFlagSet("adminctl", flag.ExitOnError)
	username := fs.String("username", "admin", "admin username")
	email := fs.String("email", "", "admin email")
	fs.Parse(os.Args[1:])

	if *email == "" {
		log.Fatal("email is required")
	}

	password, err := promptPassword()
	if err != nil {
		log.Fatalf("%v", err)
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.DatabaseDSN = dsn
	}
	if secret := os.Getenv("SECRET_KEY"); secret != "" {
		cfg.SecretKey = secret
	}

	if err := run(context.Background(), cfg, *username, *email, password); err != nil {
		log.Fatalf("%v", err)
	}
}
