package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Auth      AuthConfig
	RateLimit RateLimitConfig
	Catalog   CatalogConfig
	Bootstrap BootstrapConfig
}

type AuthConfig struct {
	JWTSecret     string
	Issuer        string
	AdminTokenTTL time.Duration
	OEMTokenTTL   time.Duration
}

type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TokenRate     float64
	TokenBurst    int
}

type CatalogConfig struct {
	// ScopeProductsToCatalog restricts product lookups to the requested catalog.
	// When false a product id resolves across catalogs.
	ScopeProductsToCatalog bool
	// SettingsPath points to the directory holding catalog.yml.
	SettingsPath string
}

type BootstrapConfig struct {
	Seed bool
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "oemcatalog"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: environment,
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		DBType:            getenv("DB_TYPE", "postgres"),
		DBHost:            getenv("DB_HOST", "localhost"),
		DBPort:            getenv("DB_PORT", "5432"),
		DBName:            getenv("DB_NAME", "oemcatalog"),
		DBUser:            getenv("DB_USER", "postgres"),
		DBPassword:        getenv("DB_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DB_SSL_MODE", "disable"),
		DBMaxIdleConn:     getenvInt("DB_MAX_IDLE_CONN", 10),
		DBMaxOpenConn:     getenvInt("DB_MAX_OPEN_CONN", 50),
		DBConnMaxLifetime: getenvInt("DB_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DB_CONN_MAX_IDLE_TIME", 60),

		Auth: AuthConfig{
			JWTSecret:     strings.TrimSpace(getenv("AUTH_JWT_SECRET", "")),
			Issuer:        getenv("AUTH_JWT_ISSUER", "oemcatalog"),
			AdminTokenTTL: getenvDuration("AUTH_ADMIN_TOKEN_TTL", 10*365*24*time.Hour),
			OEMTokenTTL:   getenvDuration("AUTH_OEM_TOKEN_TTL", 12*time.Hour),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
			RedisPassword: getenv("REDIS_PASSWORD", ""),
			RedisDB:       getenvInt("REDIS_DB", 0),
			TokenRate:     getenvFloat("RATE_LIMIT_TOKEN_RATE", 1),
			TokenBurst:    getenvInt("RATE_LIMIT_TOKEN_BURST", 5),
		},
		Catalog: CatalogConfig{
			ScopeProductsToCatalog: getenvBool("CATALOG_SCOPE_PRODUCTS_TO_CATALOG", true),
			SettingsPath:           getenv("CATALOG_CONFIG_PATH", "."),
		},
		Bootstrap: BootstrapConfig{
			Seed: getenvBool("BOOTSTRAP_SEED", environment != "production"),
		},
	}

	if cfg.Auth.JWTSecret == "" && !cfg.IsProduction() {
		cfg.Auth.JWTSecret = "oemcatalog-dev-secret"
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
