package auth

import (
	"fmt"
	"time"
)

type Config struct {
	SecretKey string        `mapstructure:"secret_key"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	Issuer    string        `mapstructure:"issuer"`
}

func DefaultConfig() *Config {
	return &Config{
		TokenTTL: time.Hour,
		Issuer:   "qbit-backend",
	}
}

func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("secret key is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive")
	}
	return nil
}
