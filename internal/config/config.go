package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Port           string
		Mode           string // debug, release or test
		AllowedOrigins []string
	}
	Database struct {
		Driver   string // postgres, sqlite or mongo
		Postgres struct {
			Host     string
			Port     string
			User     string
			Password string
			Name     string
			SSLMode  string
		}
		SQLitePath string
		Mongo      struct {
			URI      string
			Database string
		}
	}
	JWT struct {
		SecretKey string
		Expire    time.Duration
	}
	Redis struct {
		Host     string
		Port     string
		Password string
		DB       int
	}
	Gemini struct {
		APIKey string
		Model  string
	}
	Gmail struct {
		CredentialsFile string
		TokenFile       string
		OwnerEmail      string
		PollInterval    time.Duration
	}
	RateLimit struct {
		PerMinute int
		Burst     int
	}
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the environment only.
func FromEnv() (*Config, error) {
	var cfg Config

	cfg.Server.Port = getEnv("PORT", "8080")
	cfg.Server.Mode = getEnv("GIN_MODE", "debug")
	cfg.Server.AllowedOrigins = splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"))

	cfg.Database.Driver = strings.ToLower(getEnv("DB_DRIVER", "postgres"))
	cfg.Database.Postgres.Host = getEnv("POSTGRES_HOST", "localhost")
	cfg.Database.Postgres.Port = getEnv("POSTGRES_PORT", "5432")
	cfg.Database.Postgres.User = getEnv("POSTGRES_USER", "postgres")
	cfg.Database.Postgres.Password = getEnv("POSTGRES_PASSWORD", "password")
	cfg.Database.Postgres.Name = getEnv("POSTGRES_DB", "jobtracker")
	cfg.Database.Postgres.SSLMode = getEnv("POSTGRES_SSLMODE", "disable")
	cfg.Database.SQLitePath = getEnv("SQLITE_PATH", "jobhunter.db")
	cfg.Database.Mongo.URI = getEnv("MONGO_URI", "mongodb://localhost:27017")
	cfg.Database.Mongo.Database = getEnv("MONGO_DB", "jobhunter")

	cfg.JWT.SecretKey = os.Getenv("JWT_SECRET_KEY")
	var err error
	if cfg.JWT.Expire, err = getDuration("JWT_EXPIRE", 7*24*time.Hour); err != nil {
		return nil, err
	}

	cfg.Redis.Host = os.Getenv("REDIS_HOST")
	cfg.Redis.Port = getEnv("REDIS_PORT", "6379")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if cfg.Redis.DB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	cfg.Gemini.Model = getEnv("GEMINI_MODEL", "gemini-2.5-flash")

	cfg.Gmail.CredentialsFile = getEnv("GMAIL_CREDENTIALS_FILE", "credentials.json")
	cfg.Gmail.TokenFile = getEnv("GMAIL_TOKEN_FILE", "token.json")
	cfg.Gmail.OwnerEmail = strings.ToLower(os.Getenv("GMAIL_OWNER_EMAIL"))
	if cfg.Gmail.PollInterval, err = getDuration("GMAIL_POLL_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}

	if cfg.RateLimit.PerMinute, err = getInt("AUTH_RATE_PER_MINUTE", 20); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Burst, err = getInt("AUTH_RATE_BURST", 5); err != nil {
		return nil, err
	}

	return &cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite", "mongo":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres, sqlite or mongo, got %q", c.Database.Driver)
	}
	if c.JWT.SecretKey == "" {
		if c.Server.Mode == "release" {
			return errors.New("JWT_SECRET_KEY is required in release mode")
		}
		c.JWT.SecretKey = "dev-secret-change-me"
	}
	if c.JWT.Expire <= 0 {
		return errors.New("JWT_EXPIRE must be positive")
	}
	return nil
}

// PostgresDSN is the connection string for gorm's postgres driver.
func (c *Config) PostgresDSN() string {
	p := c.Database.Postgres
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		p.Host, p.User, p.Password, p.Name, p.Port, p.SSLMode)
}

// RedisAddr is empty when Redis is not configured.
func (c *Config) RedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	return c.Redis.Host + ":" + c.Redis.Port
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// getDuration accepts Go durations ("90m") or plain seconds ("3600").
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
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
