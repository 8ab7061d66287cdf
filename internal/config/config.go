package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Wikipedia API client
	WikiAPIURL      string
	UserAgent       string
	FetchTimeout    time.Duration
	MaxArticleBytes int64

	// Search
	DefaultSearchLimit int

	// Storage
	DBPath       string
	SettingsPath string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("WIKIBINDER_API_KEY"),

		WikiAPIURL:      envOr("WIKI_API_URL", "https://en.wikipedia.org/w/api.php"),
		UserAgent:       envOr("WIKI_USER_AGENT", "wikibinder/1.0"),
		FetchTimeout:    envDuration("FETCH_TIMEOUT", 30*time.Second),
		MaxArticleBytes: envInt64("MAX_ARTICLE_BYTES", 10485760), // 10MB

		DefaultSearchLimit: envInt("DEFAULT_SEARCH_LIMIT", 10),

		DBPath:       envOr("DB_PATH", "data/wikibinder.db"),
		SettingsPath: envOr("SETTINGS_PATH", "data/settings.yaml"),
	}

	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.MaxArticleBytes <= 0 {
		cfg.MaxArticleBytes = 10485760
	}
	if cfg.DefaultSearchLimit <= 0 {
		cfg.DefaultSearchLimit = 10
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("WIKIBINDER_API_KEY is required")
	}
	if c.WikiAPIURL == "" {
		return fmt.Errorf("WIKI_API_URL must not be empty")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
