package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gorm.io/gorm"

	"leadcrm/internal/auth"
	"leadcrm/internal/config"
	"leadcrm/internal/db"
	"leadcrm/internal/logger"
	"leadcrm/internal/model"
	"leadcrm/internal/repository"
)

const systemAccountName = "Website Lead Capture"

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.Env)
	log.Info("starting seed script")

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	users := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	created, err := seedAdmin(ctx, users, cfg.Seed)
	if err != nil {
		log.Error("failed to seed admin", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if created {
		log.Info("admin created", slog.String("email", cfg.Seed.AdminEmail))
	} else {
		log.Info("admin already exists", slog.String("email", cfg.Seed.AdminEmail))
	}

	created, err = seedSystemAccount(ctx, users, cfg.SystemAccountEmail)
	if err != nil {
		log.Error("failed to seed system account", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if created {
		log.Info("system account created", slog.String("email", cfg.SystemAccountEmail))
	} else {
		log.Info("system account already exists", slog.String("email", cfg.SystemAccountEmail))
	}

	log.Info("seed completed")
}

// seedAdmin creates the initial active admin with a usable password. Existing users are left untouched.
func seedAdmin(ctx context.Context, users repository.UserRepository, seed config.SeedConfig) (bool, error) {
	exists, err := userExists(ctx, users, seed.AdminEmail)
	if err != nil || exists {
		return false, err
	}
	if seed.AdminPassword == "" {
		return false, errors.New("SEED_ADMIN_PASSWORD is required")
	}

	hash, err := auth.HashPassword(seed.AdminPassword)
	if err != nil {
		return false, err
	}
	admin := &model.User{
		Name:         seed.AdminName,
		Email:        seed.AdminEmail,
		Role:         model.RoleAdmin,
		Status:       model.UserStatusActive,
		PasswordHash: &hash,
	}
	if err := users.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}

// seedSystemAccount creates the account public leads are attributed to.
// It is inactive and has no password, so it can never sign in.
func seedSystemAccount(ctx context.Context, users repository.UserRepository, email string) (bool, error) {
	exists, err := userExists(ctx, users, email)
	if err != nil || exists {
		return false, err
	}

	system := &model.User{
		Name:   systemAccountName,
		Email:  email,
		Role:   model.RoleSales,
		Status: model.UserStatusInactive,
	}
	if err := users.Create(ctx, system); err != nil {
		return false, fmt.Errorf("create system account: %w", err)
	}
	return true, nil
}

func userExists(ctx context.Context, users repository.UserRepository, email string) (bool, error) {
	_, err := users.FindByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("check user %s: %w", email, err)
}
