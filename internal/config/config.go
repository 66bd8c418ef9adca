package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppEnv            = "dev"
	defaultHTTPAddr          = ":8080"
	defaultDatabaseURL       = "photomarket.db"
	defaultStoreBackend      = StoreBackendDatabase
	defaultKVDriver          = KVDriverFile
	defaultKVPath            = "./data"
	defaultRedisPrefix       = "photomarket:"
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultJWTAccessTTL      = "24h"
	defaultStartingCredits   = "20"
	defaultMinAccountAge     = "168h"
	defaultMarketplaceRegion = "Tunisia"
	defaultAdminEmail        = "admin@photomarket.local"
	defaultAdminPassword     = "change-me-admin-password"
	defaultAdminName         = "Administrator"
	defaultApplyRatePerSec   = "1"
	defaultApplyRateBurst    = "5"
	defaultLogLevel          = "info"
)

const (
	StoreBackendDatabase = "database"
	StoreBackendKV       = "kv"

	KVDriverFile   = "file"
	KVDriverRedis  = "redis"
	KVDriverMemory = "memory"
)

type Config struct {
	AppEnv   string
	HTTPAddr string
	LogLevel string

	DatabaseURL  string
	StoreBackend string
	KVDriver     string
	KVPath       string
	RedisURL     string
	RedisPrefix  string

	JWTSecret    string
	JWTAccessTTL time.Duration

	StartingCredits   int64
	MinAccountAge     time.Duration
	MarketplaceRegion string

	AdminEmail    string
	AdminPassword string
	AdminName     string
	AdminCountry  string

	ApplyRatePerSec float64
	ApplyRateBurst  int

	CORSAllowedOrigins []string
}

// Load reads the runtime configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = defaultAppEnv
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(getEnv("STORE_BACKEND", defaultStoreBackend)))
	cfg.KVDriver = strings.ToLower(strings.TrimSpace(getEnv("KV_DRIVER", defaultKVDriver)))
	cfg.KVPath = strings.TrimSpace(getEnv("KV_PATH", defaultKVPath))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.RedisPrefix = getEnv("REDIS_PREFIX", defaultRedisPrefix)

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.MarketplaceRegion = strings.TrimSpace(getEnv("MARKETPLACE_REGION", defaultMarketplaceRegion))

	cfg.AdminEmail = strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", defaultAdminEmail)))
	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", defaultAdminPassword)
	cfg.AdminName = strings.TrimSpace(getEnv("ADMIN_NAME", defaultAdminName))
	cfg.AdminCountry = strings.TrimSpace(getEnv("ADMIN_COUNTRY", cfg.MarketplaceRegion))

	cfg.CORSAllowedOrigins = parseCSV(os.Getenv("CORS_ALLOWED_ORIGINS"))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}

	cfg.MinAccountAge, err = parseDurationEnv("MIN_ACCOUNT_AGE", defaultMinAccountAge)
	if err != nil {
		return nil, err
	}

	cfg.StartingCredits, err = parseIntEnv("STARTING_CREDITS", defaultStartingCredits)
	if err != nil {
		return nil, err
	}

	cfg.ApplyRatePerSec, err = parseFloatEnv("APPLY_RATE_PER_SEC", defaultApplyRatePerSec)
	if err != nil {
		return nil, err
	}

	burst, err := parseIntEnv("APPLY_RATE_BURST", defaultApplyRateBurst)
	if err != nil {
		return nil, err
	}
	cfg.ApplyRateBurst = int(burst)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsDevelopment reports whether human readable logs and relaxed defaults apply.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "dev" || c.AppEnv == "development" || c.AppEnv == "local"
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.MinAccountAge <= 0 {
		return fmt.Errorf("MIN_ACCOUNT_AGE must be > 0")
	}
	if cfg.StartingCredits < 0 {
		return fmt.Errorf("STARTING_CREDITS must be >= 0")
	}
	if cfg.MarketplaceRegion == "" {
		return fmt.Errorf("MARKETPLACE_REGION must not be empty")
	}
	if cfg.ApplyRatePerSec <= 0 {
		return fmt.Errorf("APPLY_RATE_PER_SEC must be > 0")
	}
	if cfg.ApplyRateBurst <= 0 {
		return fmt.Errorf("APPLY_RATE_BURST must be > 0")
	}

	switch cfg.StoreBackend {
	case StoreBackendDatabase:
	case StoreBackendKV:
		switch cfg.KVDriver {
		case KVDriverFile:
			if cfg.KVPath == "" {
				return fmt.Errorf("KV_PATH must not be empty when KV_DRIVER=file")
			}
		case KVDriverRedis:
			if cfg.RedisURL == "" {
				return fmt.Errorf("REDIS_URL is required when KV_DRIVER=redis")
			}
		case KVDriverMemory:
		default:
			return fmt.Errorf("KV_DRIVER must be one of: file, redis, memory")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be one of: database, kv")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.AdminPassword, defaultAdminPassword) {
			return fmt.Errorf("in prod/release ADMIN_PASSWORD must be set and not default")
		}
		if cfg.StoreBackend == StoreBackendKV && cfg.KVDriver == KVDriverMemory {
			return fmt.Errorf("in prod/release KV_DRIVER=memory is not allowed")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseFloatEnv(name, fallback string) (float64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return f, nil
}

func parseCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
