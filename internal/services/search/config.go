package search

import (
	"time"

	"qbit-backend/internal/common/errors"
)

type Config struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Geo         string        `mapstructure:"geo"`
	Language    string        `mapstructure:"language"`
	ResultCount int           `mapstructure:"result_count"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "https://serpapi.com",
		Geo:         "za",
		Language:    "en",
		ResultCount: 10,
		Timeout:     30 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.NewConfigurationError("API key missing", "SERP API key is not configured on the server")
	}
	if c.BaseURL == "" {
		return errors.NewConfigurationError("SerpApi base URL is required", "")
	}
	if c.Timeout <= 0 {
		return errors.NewConfigurationError("SerpApi timeout must be positive", "")
	}
	return nil
}
