package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"meme-generator/service"

	"github.com/go-playground/validator"
)

// Config holds the settings read from the environment
type Config struct {
	Port           string        `validate:"required,numeric"`
	BaseURL        string        `validate:"required,url"` // Where this server is reachable (used by the Chrome rasterizer)
	CatalogURL     string        `validate:"required,url"`
	CatalogTimeout time.Duration // 0 means no timeout
	ImageDomains   []string      `validate:"min=1,dive,required"`
	PageSize       int           `validate:"min=1"`
	Rasterizer     string        `validate:"oneof=chrome native"`
	ChromePath     string
	RedisURL       string        `validate:"omitempty,url"`
	SessionTTL     time.Duration
}

// LoadConfig reads the configuration from environment variables
func LoadConfig() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	// Remove leading colon if present (PORT from Render doesn't include it)
	port = strings.TrimPrefix(port, ":")

	cfg := &Config{
		Port:         port,
		BaseURL:      os.Getenv("BASE_URL"),
		CatalogURL:   os.Getenv("CATALOG_URL"),
		ImageDomains: service.DefaultImageDomains,
		PageSize:     service.DefaultPageSize,
		Rasterizer:   strings.ToLower(strings.TrimSpace(os.Getenv("RASTERIZER"))),
		ChromePath:   os.Getenv("CHROME_PATH"),
		RedisURL:     os.Getenv("REDIS_URL"),
		SessionTTL:   30 * time.Minute,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + port
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.CatalogURL == "" {
		cfg.CatalogURL = service.DefaultCatalogURL
	}
	if cfg.Rasterizer == "" {
		cfg.Rasterizer = "chrome"
	}

	if domains := os.Getenv("IMAGE_DOMAINS"); domains != "" {
		cfg.ImageDomains = nil
		for _, d := range strings.Split(domains, ",") {
			if d = strings.TrimSpace(d); d != "" {
				cfg.ImageDomains = append(cfg.ImageDomains, d)
			}
		}
	}

	if v := os.Getenv("PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PAGE_SIZE %q: %w", v, err)
		}
		cfg.PageSize = n
	}

	var err error
	if cfg.CatalogTimeout, err = durationEnv("CATALOG_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", cfg.SessionTTL); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func durationEnv(name string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", name, v)
	}
	return d, nil
}
