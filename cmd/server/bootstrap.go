package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/leminhha/salespipe/internal/api"
	"github.com/leminhha/salespipe/internal/app"
	iauth "github.com/leminhha/salespipe/internal/auth"
	"github.com/leminhha/salespipe/internal/database"
	"github.com/leminhha/salespipe/internal/services"
)

// runtimeStack bundles long-lived resources used by the HTTP server.
type runtimeStack struct {
	DB     *gorm.DB
	Tokens *iauth.TokenService
	Router *gin.Engine
}

// bootstrapRuntime initialises the database, token service and HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error

	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	if err := bootstrapAccounts(ctx, cfg, stack.DB, log); err != nil {
		if closeErr := closeDatabase(stack.DB); closeErr != nil {
			log.Warn("database close failed", zap.Error(closeErr))
		}
		return nil, err
	}

	stack.Tokens, err = iauth.NewTokenService(iauth.TokenConfig{
		Secret:     cfg.Auth.TokenSecret,
		Issuer:     cfg.Auth.Issuer,
		SessionTTL: cfg.Auth.SessionTTL,
	})
	if err != nil {
		if closeErr := closeDatabase(stack.DB); closeErr != nil {
			log.Warn("database close failed", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("initialise token service: %w", err)
	}

	stack.Router, err = api.NewRouter(stack.DB, stack.Tokens, cfg)
	if err != nil {
		if closeErr := closeDatabase(stack.DB); closeErr != nil {
			log.Warn("database close failed", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("build api router: %w", err)
	}

	log.Info("runtime initialised",
		zap.String("database", cfg.Database.Driver),
		zap.String("identity_policy", string(cfg.IdentityPolicy())),
	)

	return stack, nil
}

// Shutdown releases the stack's resources, aggregating any cleanup errors.
func (s *runtimeStack) Shutdown(log *zap.Logger) error {
	var errs error

	if err := closeDatabase(s.DB); err != nil {
		errs = multierr.Append(errs, err)
	}

	if errs == nil && log != nil {
		log.Info("runtime shut down")
	}
	return errs
}

// bootstrapAccounts provisions the configured initial SUPERADMIN, if any.
func bootstrapAccounts(ctx context.Context, cfg *app.Config, db *gorm.DB, log *zap.Logger) error {
	boot := cfg.Auth.Bootstrap
	if boot.Email == "" && boot.Password == "" {
		return nil
	}

	users, err := services.NewUserService(db)
	if err != nil {
		return err
	}
	if err := users.EnsureBootstrapSuperAdmin(ctx, boot.Email, boot.Password); err != nil {
		return fmt.Errorf("bootstrap superadmin: %w", err)
	}

	log.Info("bootstrap superadmin ensured", zap.String("email", boot.Email))
	return nil
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg.DatabaseOptions())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrateAndSeed(db); err != nil {
		if closeErr := closeDatabase(db); closeErr != nil {
			err = multierr.Append(err, closeErr)
		}
		return nil, fmt.Errorf("prepare database: %w", err)
	}

	return db, nil
}

func closeDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
