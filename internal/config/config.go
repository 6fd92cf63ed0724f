package config

import (
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageRedis  = "redis"
	StorageMemory = "memory"

	CatalogPostgres = "postgres"
	CatalogFixture  = "fixture"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Catalog   CatalogConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port          string
	Env           string
	SecureCookies bool
}

// IsDevelopment reports whether the server runs outside production
func (c ServerConfig) IsDevelopment() bool {
	return c.Env != "production"
}

type DatabaseConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	Database      string
	Schema        string
	SSLMode       string
	MigrationsDir string
}

// DSN renders the keyword/value connection string understood by the pgx stdlib driver.
// Values are quoted so empty or spaced passwords survive.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s search_path=%s sslmode=%s",
		quoteDSN(c.Host), quoteDSN(c.Port), quoteDSN(c.User), quoteDSN(c.Password),
		quoteDSN(c.Database), quoteDSN(c.Schema), quoteDSN(c.SSLMode))
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quoteDSN(v string) string {
	return "'" + dsnEscaper.Replace(v) + "'"
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  int // in minutes
	RefreshExpiry int // in days
}

func (c JWTConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessExpiry) * time.Minute
}

func (c JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshExpiry) * 24 * time.Hour
}

// StorageConfig selects where per-client state (cart, favorites, session flag, theme) lives
type StorageConfig struct {
	Driver string
	Prefix string
	TTL    time.Duration // zero keeps client state forever
}

// CatalogConfig selects the product source and the collation used for name sorting
type CatalogConfig struct {
	Source string
	Locale string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

// Load reads configuration from the environment, with .env values preloaded.
// Variables already set in the process environment take precedence over .env.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("SERVER_SECURE_COOKIES", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MIGRATIONS_DIR", "migrations")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_ACCESS_EXPIRY", 15)
	v.SetDefault("JWT_REFRESH_EXPIRY", 7)
	v.SetDefault("STORAGE_DRIVER", StorageRedis)
	v.SetDefault("STORAGE_PREFIX", "abk")
	v.SetDefault("STORAGE_TTL", "0s")
	v.SetDefault("CATALOG_SOURCE", CatalogPostgres)
	v.SetDefault("CATALOG_LOCALE", "tr")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_REQUESTS", 120)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")

	return &Config{
		Server: ServerConfig{
			Port:          v.GetString("SERVER_PORT"),
			Env:           v.GetString("SERVER_ENV"),
			SecureCookies: v.GetBool("SERVER_SECURE_COOKIES"),
		},
		Database: DatabaseConfig{
			Host:          v.GetString("DB_HOST"),
			Port:          v.GetString("DB_PORT"),
			User:          v.GetString("DB_USER"),
			Password:      v.GetString("DB_PASSWORD"),
			Database:      v.GetString("DB_DATABASE"),
			Schema:        v.GetString("DB_SCHEMA"),
			SSLMode:       v.GetString("DB_SSLMODE"),
			MigrationsDir: v.GetString("DB_MIGRATIONS_DIR"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpiry:  v.GetInt("JWT_ACCESS_EXPIRY"),
			RefreshExpiry: v.GetInt("JWT_REFRESH_EXPIRY"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
			Prefix: v.GetString("STORAGE_PREFIX"),
			TTL:    v.GetDuration("STORAGE_TTL"),
		},
		Catalog: CatalogConfig{
			Source: strings.ToLower(v.GetString("CATALOG_SOURCE")),
			Locale: v.GetString("CATALOG_LOCALE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		RateLimit: RateLimitConfig{
			Enabled:  v.GetBool("RATE_LIMIT_ENABLED"),
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   v.GetDuration("RATE_LIMIT_WINDOW"),
		},
	}
}

// Validate rejects combinations the server cannot start with
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.Storage.Driver != StorageRedis && c.Storage.Driver != StorageMemory {
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageRedis, StorageMemory, c.Storage.Driver)
	}
	if c.Catalog.Source != CatalogPostgres && c.Catalog.Source != CatalogFixture {
		return fmt.Errorf("CATALOG_SOURCE must be %q or %q, got %q", CatalogPostgres, CatalogFixture, c.Catalog.Source)
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("rate limit needs a positive RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW")
	}
	return nil
}

// NeedsRedis reports whether client storage or rate limiting use Redis
func (c *Config) NeedsRedis() bool {
	return c.Storage.Driver == StorageRedis || c.RateLimit.Enabled
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
