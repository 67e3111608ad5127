package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ServerAddr     string        `mapstructure:"SERVER_ADDR"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	DatabaseDriver string        `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	ConnectTimeout time.Duration `mapstructure:"DATABASE_CONNECT_TIMEOUT"`
	RedisURL       string        `mapstructure:"REDIS_URL"`
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	TokenTTL       time.Duration `mapstructure:"TOKEN_TTL"`
	NonceTTL       time.Duration `mapstructure:"NONCE_TTL"`

	TermImage TermImageConfig `mapstructure:",squash"`
}

// TermImageConfig carries the override points of the term image component.
type TermImageConfig struct {
	Taxonomies       []string `mapstructure:"TERM_IMAGE_TAXONOMIES"`
	Storage          string   `mapstructure:"TERM_IMAGE_STORAGE"`
	MetaKey          string   `mapstructure:"TERM_IMAGE_META_KEY"`
	OptionName       string   `mapstructure:"TERM_IMAGE_OPTION_NAME"`
	LabelField       string   `mapstructure:"TERM_IMAGE_LABEL_FIELD"`
	LabelDescription string   `mapstructure:"TERM_IMAGE_LABEL_DESCRIPTION"`
	LabelAttach      string   `mapstructure:"TERM_IMAGE_LABEL_ATTACH"`
	LabelRemove      string   `mapstructure:"TERM_IMAGE_LABEL_REMOVE"`
	LabelModalTitle  string   `mapstructure:"TERM_IMAGE_LABEL_MODAL_TITLE"`
	LabelModalButton string   `mapstructure:"TERM_IMAGE_LABEL_MODAL_BUTTON"`
}

var defaults = map[string]any{
	"SERVER_ADDR":                   ":8080",
	"LOG_LEVEL":                     "info",
	"DATABASE_DRIVER":               "postgres",
	"DATABASE_URL":                  "",
	"DATABASE_CONNECT_TIMEOUT":      "30s",
	"REDIS_URL":                     "redis://localhost:6379/0",
	"JWT_SECRET":                    "",
	"TOKEN_TTL":                     "168h",
	"NONCE_TTL":                     "24h",
	"TERM_IMAGE_TAXONOMIES":         "category",
	"TERM_IMAGE_STORAGE":            "meta",
	"TERM_IMAGE_META_KEY":           "taxonomy_term_image",
	"TERM_IMAGE_OPTION_NAME":        "custom_taxonomy_term_images",
	"TERM_IMAGE_LABEL_FIELD":        "",
	"TERM_IMAGE_LABEL_DESCRIPTION":  "",
	"TERM_IMAGE_LABEL_ATTACH":       "",
	"TERM_IMAGE_LABEL_REMOVE":       "",
	"TERM_IMAGE_LABEL_MODAL_TITLE":  "",
	"TERM_IMAGE_LABEL_MODAL_BUTTON": "",
}

// LoadConfig loads the configuration from a .env file in dir and environment variables.
// Environment variables win over the file; every key has a default.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	cfg.TermImage.Taxonomies = normalizeList(cfg.TermImage.Taxonomies)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first configuration value the server cannot start with.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	switch c.TermImage.Storage {
	case "meta", "option", "redis", "memory":
	default:
		return fmt.Errorf("unsupported TERM_IMAGE_STORAGE %q", c.TermImage.Storage)
	}
	if len(c.TermImage.Taxonomies) == 0 {
		return errors.New("TERM_IMAGE_TAXONOMIES must name at least one taxonomy")
	}
	if c.TermImage.MetaKey == "" {
		return errors.New("TERM_IMAGE_META_KEY must not be empty")
	}
	if c.NonceTTL <= 0 || c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL and NONCE_TTL must be positive")
	}
	if c.ConnectTimeout <= 0 {
		return errors.New("DATABASE_CONNECT_TIMEOUT must be positive")
	}
	return nil
}

// normalizeList trims entries and drops empty ones; a single env value may
// still hold a comma separated list when it was not split by the decoder.
func normalizeList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
