package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dripnest/storefront/internal/domain/identity"
	"github.com/dripnest/storefront/internal/infrastructure/config"
	"github.com/dripnest/storefront/internal/infrastructure/logger"
	"github.com/dripnest/storefront/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command, args := os.Args[1], os.Args[2:]

	log, err := logger.New(&logger.Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	var (
		name, email, password string
		role                  identity.Role
	)
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	fs.StringVar(&email, "email", "", "Account email")
	switch command {
	case "create":
		fs.StringVar(&name, "name", "Admin", "Display name")
		fs.StringVar(&password, "password", os.Getenv("ADMIN_PASSWORD"), "Password (defaults to $ADMIN_PASSWORD)")
	case "password":
		fs.StringVar(&password, "password", os.Getenv("ADMIN_PASSWORD"), "New password (defaults to $ADMIN_PASSWORD)")
	case "promote":
		role = identity.RoleAdmin
	case "demote":
		role = identity.RoleCustomer
	default:
		printUsage()
		os.Exit(1)
	}
	_ = fs.Parse(args)
	if email == "" {
		log.Fatal("-email is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	db, err := persistence.NewDatabase(&cfg.Database, nil, log)
	if err != nil {
		log.Fatal("Failed to configure database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := db.Connect(ctx); err != nil {
		log.Fatal("Database unavailable", zap.Error(err))
	}
	repo := persistence.NewGormUserRepository(db.DB)

	switch command {
	case "create":
		user, err := createAdmin(ctx, repo, name, email, password)
		if err != nil {
			log.Fatal("Failed to create admin", zap.Error(err))
		}
		log.Info("Admin created", zap.String("user_id", user.ID.String()), zap.String("email", user.Email))
		return
	case "password":
		user, err := resetPassword(ctx, repo, email, password)
		if err != nil {
			log.Fatal("Failed to reset password", zap.Error(err))
		}
		log.Info("Password reset", zap.String("email", user.Email))
		return
	}

	user, changed, err := setRole(ctx, repo, email, role)
	if err != nil {
		log.Fatal("Failed to change role", zap.Error(err))
	}
	if !changed {
		log.Info("Role unchanged", zap.String("email", user.Email), zap.String("role", string(user.Role)))
		return
	}
	log.Info("Role changed", zap.String("email", user.Email), zap.String("role", string(user.Role)))
}

func printUsage() {
	fmt.Println(`Usage: admin <command> [flags]

Commands:
  create   -email <email> [-name <name>] [-password <password>]   Create an admin account
  password -email <email> [-password <password>]                  Reset an account password
  promote  -email <email>                                         Give an existing account the admin role
  demote   -email <email>                                         Return an admin to the customer role

The database is configured the same way as the API server (config.toml, STORE_* or DATABASE_URL).`)
}
