package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const EnvProduction = "production"

type Config struct {
	AppEnv         string `envconfig:"APP_ENV" default:"development"`
	Port           string `envconfig:"PORT" default:"8080"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`

	DatabaseURL string `envconfig:"DATABASE_URL"`
	RedisURL    string `envconfig:"REDIS_URL"`

	SessionSecret string        `envconfig:"SESSION_SECRET"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"1h"`
	SessionMaxAge time.Duration `envconfig:"SESSION_MAX_AGE" default:"12h"`

	MeiliSearchHost string `envconfig:"MEILISEARCH_HOST"`
	MeiliMasterKey  string `envconfig:"MEILI_MASTER_KEY"`

	CloudinaryURL          string `envconfig:"CLOUDINARY_URL"`
	CloudinaryCloudName    string `envconfig:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryUploadFolder string `envconfig:"CLOUDINARY_UPLOAD_FOLDER" default:"eventtech_exports"`
	ExportArchive          bool   `envconfig:"EXPORT_ARCHIVE" default:"false"`

	EventTitle string `envconfig:"EVENT_TITLE" default:"TARUNYAM - Tech Event 2025"`

	RateLimitRegister time.Duration `envconfig:"RATE_LIMIT_REGISTER" default:"5s"`
	RateLimitLogin    time.Duration `envconfig:"RATE_LIMIT_LOGIN" default:"2s"`

	// development seed account
	AdminUsername string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"admin123"`
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.IsProduction() && c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required in production")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.SessionMaxAge < c.SessionTTL {
		return errors.New("SESSION_MAX_AGE must not be shorter than SESSION_TTL")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// MeiliHost normalizes a bare host name into a URL.
func (c *Config) MeiliHost() string {
	host := strings.TrimSpace(c.MeiliSearchHost)
	if host == "" || strings.HasPrefix(host, "http") {
		return host
	}
	return "http://" + host + ":7700"
}
