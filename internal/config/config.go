// Package config loads the application settings from the environment
// (optionally seeded from a .env file) using viper.
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the server needs.
type Config struct {
	AppPort string

	DatabaseDriver   string
	DatabaseDSN      string
	DBMaxOpenConns   int
	DBMaxIdleTime    time.Duration
	DBConnectTimeout time.Duration
	QueryTimeout     time.Duration

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	RabbitMQURL string

	UploadDir       string
	UploadURLPrefix string
	UploadMaxWidth  int
	UploadMaxBytes  int

	SiteLocale     string
	SeedSampleData bool
	AdminUsername  string
	AdminEmail     string
	AdminPassword  string

	LoginRateLimit int
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=maninews port=5432 sslmode=disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_TIME", "20s")
	v.SetDefault("DB_CONNECT_TIMEOUT", "10s")
	v.SetDefault("QUERY_TIMEOUT", "10s")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", "168h")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("UPLOAD_URL_PREFIX", "/uploads")
	v.SetDefault("UPLOAD_MAX_WIDTH", 1200)
	v.SetDefault("UPLOAD_MAX_BYTES", 10<<20)
	v.SetDefault("SITE_LOCALE", "pt-BR")
	v.SetDefault("SEED_SAMPLE_DATA", true)
	v.SetDefault("ADMIN_USERNAME", "")
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("LOGIN_RATE_LIMIT", 10)
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:          v.GetString("APP_PORT"),
		DatabaseDriver:   strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:      v.GetString("DATABASE_DSN"),
		DBMaxOpenConns:   v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleTime:    v.GetDuration("DB_MAX_IDLE_TIME"),
		DBConnectTimeout: v.GetDuration("DB_CONNECT_TIMEOUT"),
		QueryTimeout:     v.GetDuration("QUERY_TIMEOUT"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTTTL:           v.GetDuration("JWT_TTL"),
		BcryptCost:       v.GetInt("BCRYPT_COST"),
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		UploadDir:        v.GetString("UPLOAD_DIR"),
		UploadURLPrefix:  strings.TrimRight(v.GetString("UPLOAD_URL_PREFIX"), "/"),
		UploadMaxWidth:   v.GetInt("UPLOAD_MAX_WIDTH"),
		UploadMaxBytes:   v.GetInt("UPLOAD_MAX_BYTES"),
		SiteLocale:       v.GetString("SITE_LOCALE"),
		SeedSampleData:   v.GetBool("SEED_SAMPLE_DATA"),
		AdminUsername:    v.GetString("ADMIN_USERNAME"),
		AdminEmail:       v.GetString("ADMIN_EMAIL"),
		AdminPassword:    v.GetString("ADMIN_PASSWORD"),
		LoginRateLimit:   v.GetInt("LOGIN_RATE_LIMIT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		problems = append(problems, fmt.Sprintf("DATABASE_DRIVER must be postgres or sqlite, got %q", c.DatabaseDriver))
	}
	if c.JWTTTL <= 0 {
		problems = append(problems, "JWT_TTL must be positive")
	}
	if c.DBMaxOpenConns <= 0 {
		problems = append(problems, "DB_MAX_OPEN_CONNS must be positive")
	}
	if c.UploadMaxWidth <= 0 {
		problems = append(problems, "UPLOAD_MAX_WIDTH must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("configuration errors:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}
