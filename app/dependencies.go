// Package app wires application dependencies. It is the single place where
// concrete implementations meet their consumers.
package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"

	"github.com/worldpop/worldpop-api/auth"
	"github.com/worldpop/worldpop-api/config"
	"github.com/worldpop/worldpop-api/handlers"
	"github.com/worldpop/worldpop-api/middleware"
	"github.com/worldpop/worldpop-api/pagination"
	"github.com/worldpop/worldpop-api/repositories"
	"github.com/worldpop/worldpop-api/repositories/postgres"
	"github.com/worldpop/worldpop-api/services"
)

// Dependencies holds all application dependencies. This is the central
// wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repositories
	Repos repositories.Repositories

	// Core
	TokenCodec *auth.TokenCodec
	Normalizer *pagination.Normalizer

	// Services
	AuthService       *services.AuthService
	PopulationService *services.PopulationService

	// HTTP
	AuthMiddleware *middleware.AuthMiddleware
	AuthHandler    *handlers.AuthHandler
	CountryHandler *handlers.CountryHandler
	StatsHandler   *handlers.StatsHandler
	NewsHandler    *handlers.NewsHandler
	UserHandler    *handlers.UserHandler
	HealthHandler  *handlers.HealthHandler
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	db, err := postgres.NewDB(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.DB = db

	if err := db.InitSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	deps.Repos = repositories.Repositories{
		Users:     postgres.NewUserRepository(db, logger),
		Countries: postgres.NewCountryRepository(db, logger),
		History:   postgres.NewHistoryRepository(db, logger),
	}

	secret, err := signingSecret(cfg, logger)
	if err != nil {
		return nil, err
	}
	deps.TokenCodec = auth.NewTokenCodec(secret, cfg.Auth.TokenTTL)

	deps.Normalizer = pagination.NewNormalizer(pagination.Bounds{
		DefaultPageNumber: cfg.Pagination.DefaultPageNumber,
		DefaultPageSize:   cfg.Pagination.DefaultPageSize,
		MaxPageSize:       cfg.Pagination.MaxPageSize,
	}, logger)

	deps.AuthService = services.NewAuthService(deps.Repos.Users, deps.TokenCodec, logger)
	deps.PopulationService = services.NewPopulationService(
		deps.Repos.Countries, deps.Repos.History, deps.Normalizer, logger)

	deps.AuthMiddleware = middleware.NewAuthMiddleware(deps.TokenCodec, cfg.Auth.CookieName, logger)
	deps.AuthHandler = handlers.NewAuthHandler(deps.AuthService, cfg.Auth, logger)
	deps.CountryHandler = handlers.NewCountryHandler(deps.PopulationService, logger)
	deps.StatsHandler = handlers.NewStatsHandler(deps.PopulationService, logger)
	deps.NewsHandler = handlers.NewNewsHandler(cfg.News, logger)
	deps.UserHandler = handlers.NewUserHandler(deps.Repos.Users, deps.Normalizer, logger)
	deps.HealthHandler = handlers.NewHealthHandler(db, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// Close releases held resources.
func (d *Dependencies) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

// signingSecret returns the configured token signing key. In development a
// random throwaway key is generated when none is set; tokens then survive
// only one process lifetime, which is acceptable there.
func signingSecret(cfg *config.Config, logger *zap.Logger) ([]byte, error) {
	if cfg.Auth.Secret != "" {
		return []byte(cfg.Auth.Secret), nil
	}
	if !cfg.IsDevelopment() {
		return nil, fmt.Errorf("JWT_SECRET is required outside development")
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate development signing key: %w", err)
	}
	logger.Warn("JWT_SECRET not set, generated a throwaway development key",
		zap.String("hint", "tokens will not survive a restart"))
	return []byte(base64.RawURLEncoding.EncodeToString(buf)), nil
}
