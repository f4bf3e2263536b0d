package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/booking-api/config"
	"github.com/oksasatya/booking-api/internal/domain/entity"
	repo "github.com/oksasatya/booking-api/internal/domain/repository"
	pginfra "github.com/oksasatya/booking-api/internal/infrastructure/postgres"
	"github.com/oksasatya/booking-api/pkg/helpers"
)

// seed creates the bootstrap admin from ADMIN_EMAIL/ADMIN_NAME/ADMIN_PASSWORD.
// An existing account with that email is left untouched.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	if cfg.AdminPassword == "" {
		log.Fatal("ADMIN_PASSWORD is required")
	}
	if err := helpers.ValidatePasswordStrength(cfg.AdminPassword); err != nil {
		log.Fatalf("ADMIN_PASSWORD rejected: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{
		DSN:         cfg.PostgresDSN(),
		AppName:     cfg.AppName + "-seed",
		MaxConns:    2,
		MinConns:    1,
		MaxConnLife: time.Minute,
	})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	email := entity.NormalizeEmail(cfg.AdminEmail)

	if existing, err := users.GetByEmail(ctx, email); err == nil {
		logger.WithField("user_id", existing.ID).Info("admin already exists; skipping")
		return
	} else if !errors.Is(err, repo.ErrNotFound) {
		log.Fatalf("lookup admin: %v", err)
	}

	hash, err := helpers.NewPasswordHasher(cfg.BcryptCost).Hash(cfg.AdminPassword)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	admin := &entity.User{Email: email, Name: cfg.AdminName, Password: hash, Role: entity.RoleAdmin}
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			logger.Info("admin created concurrently; skipping")
			return
		}
		log.Fatalf("failed to seed admin: %v", err)
	}
	helpers.LogInfo(logger, "seeded admin user", logrus.Fields{"user_id": admin.ID, "email": admin.Email})
}
