// Package bootstrap wires the runtime dependencies shared by the server and
// the operator commands.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bailemos/internal/cache"
	"bailemos/internal/config"
	"bailemos/internal/database"
	"bailemos/internal/middleware"
	"bailemos/internal/models"
	"bailemos/internal/seed"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultDevAdminEmail = "root@bailemos.local"

// Options control runtime initialization behavior.
type Options struct {
	// Seed loads the demo catalogue after connecting.
	Seed        bool
	SeedOptions seed.Options
}

// InitRuntime connects to DB and Redis and optionally seeds demo data.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Nil when Redis is unreachable.
	r := cache.InitRedis(cfg.RedisURL)

	if err := EnsureDevRootAdmin(context.Background(), cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development root admin: %w", err)
	}

	if opts.Seed {
		if _, err := seed.NewSeeder(db, opts.SeedOptions).Run(context.Background()); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}

// EnsureDevRootAdmin creates or refreshes the root admin account in
// development when DEV_BOOTSTRAP_ADMIN is enabled.
func EnsureDevRootAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapAdmin {
		return nil
	}

	email := strings.TrimSpace(strings.ToLower(cfg.DevAdminEmail))
	if email == "" {
		email = defaultDevAdminEmail
	}
	password := cfg.DevAdminPassword
	if password == "" {
		return fmt.Errorf("DEV_ADMIN_PASSWORD must be set when DEV_BOOTSTRAP_ADMIN is enabled")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash root password: %w", err)
	}

	var rootID string
	if err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var root models.User
		findErr := tx.Where("is_root_admin = ?", true).First(&root).Error
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			findErr = tx.Where("email = ?", email).First(&root).Error
		}
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			root = models.User{
				Role:        models.RoleAdmin,
				Name:        "Bailemos Root",
				Email:       email,
				Password:    string(hashedPassword),
				IsRootAdmin: true,
			}
			if err := tx.Create(&root).Error; err != nil {
				return err
			}
		case findErr != nil:
			return findErr
		default:
			if err := tx.Model(&models.User{}).Where("id = ?", root.ID).Updates(map[string]interface{}{
				"role":          models.RoleAdmin,
				"is_root_admin": true,
				"email":         email,
				"password":      string(hashedPassword),
			}).Error; err != nil {
				return err
			}
		}
		rootID = root.ID
		return nil
	}); err != nil {
		return err
	}

	middleware.Logger.Info("development root admin ensured", "user_id", rootID, "email", email)
	return nil
}
