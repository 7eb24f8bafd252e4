package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL        string
	Port               string
	GoEnv              string
	Auth0Domain        string
	Auth0Audience      string
	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	LogLevel           string
	CORSAllowedOrigins []string // "*" allows every origin
	RateLimitRPS       float64
	RateLimitBurst     int

	// EnvFile is the dotenv file Load read, empty when only the process
	// environment was used
	EnvFile string
}

var appConfig *Config

// Load reads the configuration from the environment. A .env.<GO_ENV> file is
// preferred over a plain .env; variables already set in the process win.
func Load() (*Config, error) {
	envFile := loadDotenv(getEnv("GO_ENV", "development"))

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "20"), 64)
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must be a number: %w", err)
	}
	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "40"))
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be an integer: %w", err)
	}

	origins := splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))
	if len(origins) == 0 {
		return nil, fmt.Errorf("CORS_ALLOWED_ORIGINS must list at least one origin, or *")
	}

	config := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		Port:               getEnv("PORT", "8080"),
		GoEnv:              getEnv("GO_ENV", "development"),
		Auth0Domain:        getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience:      getEnv("AUTH0_AUDIENCE", ""),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: origins,
		RateLimitRPS:       rps,
		RateLimitBurst:     burst,
		EnvFile:            envFile,
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	appConfig = config
	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive")
	}
	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// AllowAllOrigins reports whether CORS_ALLOWED_ORIGINS contains "*"
func (c *Config) AllowAllOrigins() bool {
	for _, origin := range c.CORSAllowedOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// AuthEnabled reports whether Auth0 token validation should guard the API
func (c *Config) AuthEnabled() bool {
	return c.Auth0Domain != "" && c.Auth0Audience != ""
}

// ArchiveEnabled reports whether report archiving to S3 is configured
func (c *Config) ArchiveEnabled() bool {
	return c.AWSS3Bucket != ""
}

// GetConfig returns the configuration loaded by the last successful Load
func GetConfig() *Config {
	return appConfig
}

// SetConfig replaces the process configuration (primarily for testing)
func SetConfig(cfg *Config) {
	appConfig = cfg
}

func loadDotenv(env string) string {
	for _, name := range []string{".env." + env, ".env"} {
		if err := godotenv.Load(name); err == nil {
			return name
		}
	}
	return ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
