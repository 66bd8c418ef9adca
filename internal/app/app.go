// Package app wires configuration, storage and HTTP handlers together.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"photomarket/internal/config"
	"photomarket/internal/database"
	"photomarket/internal/domain/credits"
	"photomarket/internal/domain/identity"
	"photomarket/internal/domain/marketplace"
	"photomarket/internal/domain/verification"
	"photomarket/internal/events"
	"photomarket/internal/kvstore"
	"photomarket/internal/logger"
	"photomarket/internal/pkg/jwt"
)

const shutdownTimeout = 10 * time.Second

// Container holds the services shared by the API and the seed command.
type Container struct {
	Config       *config.Config
	DB           *gorm.DB
	JWT          *jwt.Service
	Hub          *events.Hub
	Users        *identity.Repository
	Identity     *identity.Service
	Verification *verification.Registry
	Ledger       *credits.Ledger
	Marketplace  *marketplace.Service
}

// Bootstrap loads .env and config, then initializes the logger.
func Bootstrap() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.AppEnv, cfg.LogLevel)
	logger.Info("Logger initialized", "env", cfg.AppEnv, "store_backend", cfg.StoreBackend)
	return cfg, nil
}

// Migrate creates every table. Users always live in the database; the rest
// is only used when STORE_BACKEND=database but is cheap to keep migrated.
func Migrate(db *gorm.DB) error {
	models := []any{&identity.User{}}
	models = append(models, verification.Models()...)
	models = append(models, credits.Models()...)
	models = append(models, marketplace.Models()...)
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// OpenKV opens the key-value store when the kv backend is selected; it
// returns nil otherwise. The close func is always safe to call.
func OpenKV(ctx context.Context, cfg *config.Config) (kvstore.Store, func(), error) {
	noop := func() {}
	if cfg.StoreBackend != config.StoreBackendKV {
		return nil, noop, nil
	}

	kv, err := kvstore.Open(kvstore.Options{
		Driver:      cfg.KVDriver,
		Path:        cfg.KVPath,
		RedisURL:    cfg.RedisURL,
		RedisPrefix: cfg.RedisPrefix,
	})
	if err != nil {
		return nil, noop, err
	}

	if rs, ok := kv.(*kvstore.RedisStore); ok {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rs.Ping(pingCtx); err != nil {
			_ = rs.Close()
			return nil, noop, fmt.Errorf("redis unavailable: %w", err)
		}
		return kv, func() { _ = rs.Close() }, nil
	}
	return kv, noop, nil
}

// NewContainer builds the services on the backend cfg selects. kv must be
// non-nil when STORE_BACKEND=kv.
func NewContainer(cfg *config.Config, db *gorm.DB, kv kvstore.Store) (*Container, error) {
	var (
		verificationStore verification.Store
		creditStore       credits.Store
		marketStore       marketplace.Store
	)
	switch cfg.StoreBackend {
	case config.StoreBackendDatabase:
		verificationStore = verification.NewGormStore(db)
		creditStore = credits.NewGormStore(db)
		marketStore = marketplace.NewGormStore(db)
	case config.StoreBackendKV:
		if kv == nil {
			return nil, errors.New("kv store is required for STORE_BACKEND=kv")
		}
		verificationStore = verification.NewKVStore(kv)
		creditStore = credits.NewKVStore(kv)
		marketStore = marketplace.NewKVStore(kv)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	c := &Container{
		Config: cfg,
		DB:     db,
		JWT:    jwt.New(cfg.JWTSecret, cfg.JWTAccessTTL),
		Hub:    events.NewHub(),
		Users:  identity.NewRepository(db),
	}
	c.Identity = identity.NewService(c.Users, c.JWT)
	c.Verification = verification.NewRegistry(verificationStore, c.Identity, c.Hub)
	c.Ledger = credits.NewLedger(creditStore, cfg.StartingCredits)
	c.Marketplace = marketplace.NewService(marketStore, c.Users, c.Verification, c.Ledger, c.Hub, marketplace.Options{
		Region:        cfg.MarketplaceRegion,
		MinAccountAge: cfg.MinAccountAge,
	})
	return c, nil
}

// Open connects the database, migrates it and builds the container.
func Open(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	logger.Info("Connecting to database...")
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, nil, err
	}
	logger.Info("Database connected")

	kv, closeKV, err := OpenKV(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	c, err := NewContainer(cfg, db, kv)
	if err != nil {
		closeKV()
		return nil, nil, err
	}

	cleanup := func() {
		closeKV()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return c, cleanup, nil
}

// Run serves the API until SIGINT or SIGTERM.
func Run() error {
	cfg, err := Bootstrap()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, cleanup, err := Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	created, err := c.Identity.EnsureAdmin(ctx, identity.AdminSeed{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Name:     cfg.AdminName,
		Country:  cfg.AdminCountry,
	})
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		logger.Info("Admin account created", "email", cfg.AdminEmail)
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(c),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server startup error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
