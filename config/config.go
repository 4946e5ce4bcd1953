package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultKitchenPollInterval is how often the kitchen display re-reads orders.
const DefaultKitchenPollInterval = 10 * time.Second

// Config holds all application configuration
type Config struct {
	StorePath           string
	MirrorDatabaseURL   string
	Port                string
	GoEnv               string
	Timezone            string
	KitchenPollInterval time.Duration
	MenuCatalogFile     string
	UploadDir           string
	CORSAllowedOrigins  []string
	Auth0Domain         string
	Auth0Audience       string
	AWSRegion           string
	AWSS3Bucket         string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	LogLevel            string
	LogFormat           string
}

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	pollInterval, err := time.ParseDuration(getEnv("KITCHEN_POLL_INTERVAL", DefaultKitchenPollInterval.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid KITCHEN_POLL_INTERVAL: %w", err)
	}

	config := &Config{
		StorePath:           getEnv("STORE_PATH", "resto_pos.db"),
		MirrorDatabaseURL:   getEnv("MIRROR_DATABASE_URL", ""),
		Port:                getEnv("PORT", "8080"),
		GoEnv:               getEnv("GO_ENV", "development"),
		Timezone:            getEnv("TZ_NAME", ""),
		KitchenPollInterval: pollInterval,
		MenuCatalogFile:     getEnv("MENU_CATALOG_FILE", ""),
		UploadDir:           getEnv("UPLOAD_DIR", "./uploads"),
		CORSAllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		Auth0Domain:         getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience:       getEnv("AUTH0_AUDIENCE", ""),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:         getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "text"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.StorePath == "" {
		return fmt.Errorf("STORE_PATH is required")
	}
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port)
	}
	if c.KitchenPollInterval <= 0 {
		return fmt.Errorf("KITCHEN_POLL_INTERVAL must be positive")
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid TZ_NAME %q: %w", c.Timezone, err)
		}
	}
	return nil
}

// Location returns the time zone used for calendar-day grouping
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// AuthEnabled returns true when API routes must carry a valid JWT
func (c *Config) AuthEnabled() bool {
	return c.Auth0Domain != ""
}

// S3Enabled returns true when profile logos are also stored in S3
func (c *Config) S3Enabled() bool {
	return c.AWSS3Bucket != ""
}

// MirrorEnabled returns true when orders are mirrored into a relational database
func (c *Config) MirrorEnabled() bool {
	return c.MirrorDatabaseURL != ""
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
