package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAPIURL     = "https://nonforensic-glisteringly-hannah.ngrok-free.dev"
	defaultTimeout    = 15 * time.Second
	defaultJWTSecret  = "fintrack-development-secret-change-me!!"
	minJWTSecretBytes = 32
)

// Client holds configuration for the fintrack CLI and client library
type Client struct {
	Env string

	// Backend API
	APIBaseURL     string
	RequestTimeout time.Duration

	// Display
	Locale         string
	CurrencySymbol string

	// Session persistence
	SessionFile string

	// Optional YAML catalog of payment methods for the add command
	PaymentMethodsFile string

	// Optional Redis cache for fetched transactions
	RedisURL      string
	RedisPassword string
	CacheTTL      time.Duration
}

// Server holds configuration for the finapi reference backend
type Server struct {
	Port string
	Env  string

	// Empty DatabaseURL selects the in-memory store
	DatabaseURL string
	Migrate     bool

	JWTSecret string

	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// LoadDotEnv loads variables from .env files if present. Missing files are
// not an error; variables already set in the environment win.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		_ = godotenv.Load(f)
	}
}

// LoadClient loads client configuration from environment variables
func LoadClient() (*Client, error) {
	cfg := &Client{
		Env:                getEnv("ENV", "development"),
		APIBaseURL:         strings.TrimRight(getEnv("FINTRACK_API_URL", defaultAPIURL), "/"),
		RequestTimeout:     getEnvAsDuration("FINTRACK_TIMEOUT", defaultTimeout),
		Locale:             getEnv("FINTRACK_LOCALE", "tr-TR"),
		CurrencySymbol:     getEnv("FINTRACK_CURRENCY", "₺"),
		SessionFile:        getEnv("FINTRACK_SESSION_FILE", defaultSessionFile()),
		PaymentMethodsFile: getEnv("FINTRACK_METHODS_FILE", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		CacheTTL:           getEnvAsDuration("CACHE_TTL", 10*time.Minute),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures the client configuration is usable
func (c *Client) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("FINTRACK_API_URL is not a valid URL: %q", c.APIBaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("FINTRACK_API_URL must use http or https, got %q", u.Scheme)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("FINTRACK_TIMEOUT must be positive")
	}
	if c.SessionFile == "" {
		return fmt.Errorf("FINTRACK_SESSION_FILE is required")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	return nil
}

// CacheEnabled reports whether a Redis cache is configured
func (c *Client) CacheEnabled() bool {
	return c.RedisURL != ""
}

// IsProduction returns true if running in production mode
func (c *Client) IsProduction() bool {
	return c.Env == "production"
}

// LoadServer loads reference backend configuration from environment variables
func LoadServer() (*Server, error) {
	cfg := &Server{
		Port:           getEnv("PORT", "8000"),
		Env:            getEnv("ENV", "development"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		Migrate:        getEnvAsBool("MIGRATE", true),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:8081", "http://localhost:19006"}),
		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 100),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 20),
	}

	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = defaultJWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures all required server configuration is present
func (c *Server) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.JWTSecret) < minJWTSecretBytes {
		return fmt.Errorf("JWT_SECRET must be at least %d characters long", minJWTSecretBytes)
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	return nil
}

// UsesPostgres reports whether the server should use the Postgres store
func (c *Server) UsesPostgres() bool {
	return c.DatabaseURL != ""
}

// IsProduction returns true if running in production mode
func (c *Server) IsProduction() bool {
	return c.Env == "production"
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".fintrack-session.json"
	}
	return filepath.Join(dir, "fintrack", "session.json")
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as a boolean with a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blanks
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
