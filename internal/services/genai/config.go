package genai

import (
	"time"

	"qbit-backend/internal/common/errors"
)

type Config struct {
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL: "https://generativelanguage.googleapis.com",
		Model:   "gemini-2.0-flash",
		Timeout: 60 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.NewConfigurationError("Server configuration error: API key missing", "GEMINI_API_KEY is not configured")
	}
	if c.Model == "" {
		return errors.NewConfigurationError("Gemini model is required", "")
	}
	if c.Timeout <= 0 {
		return errors.NewConfigurationError("Gemini timeout must be positive", "")
	}
	return nil
}
