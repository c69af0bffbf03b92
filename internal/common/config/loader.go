// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envOverrides maps flat environment names used by deployments onto config fields
// that stay empty after the YAML and ${VAR} expansion pass.
var envOverrides = []struct {
	env   string
	field func(*Config) *string
}{
	{"DATABASE_URL", func(c *Config) *string { return &c.Database.Postgres.URL }},
	{"SECRET_KEY", func(c *Config) *string { return &c.Auth.SecretKey }},
	{"MAIL_USERNAME", func(c *Config) *string { return &c.Mail.SMTP.Username }},
	{"MAIL_PASSWORD", func(c *Config) *string { return &c.Mail.SMTP.Password }},
	{"SERP_API_KEY", func(c *Config) *string { return &c.APIs.Serp.APIKey }},
	{"GEMINI_API_KEY", func(c *Config) *string { return &c.APIs.Gemini.APIKey }},
	{"REDIS_URL", func(c *Config) *string { return &c.Database.Redis.Address }},
	{"ELASTICSEARCH_URL", func(c *Config) *string { return &c.Database.Elasticsearch.URL }},
	{"AWS_REGION", func(c *Config) *string { return &c.Integrations.AWS.Region }},
	{"S3_BUCKET", func(c *Config) *string { return &c.Integrations.AWS.S3.Bucket }},
	{"SENDGRID_API_KEY", func(c *Config) *string { return &c.Mail.SendGrid.APIKey }},
	{"POSTMARK_SERVER_TOKEN", func(c *Config) *string { return &c.Mail.Postmark.ServerToken }},
}

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	if err := mergeEnvOverlay(v, env); err != nil {
		return nil, err
	}

	return finish(v)
}

// mergeEnvOverlay merges config.<env>.yaml over the base config. A missing overlay is not an error.
func mergeEnvOverlay(v *viper.Viper, env string) error {
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("error reading %s config: %w", env, err)
	}
	return nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills fields that are still empty from flat env names.
func overrideEmptyConfig(cfg *Config) {
	for _, o := range envOverrides {
		field := o.field(cfg)
		if *field != "" {
			continue
		}
		if val := os.Getenv(o.env); val != "" {
			*field = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "qbit-backend"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":5000"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30000
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{
			"http://localhost:5173",
			"http://localhost:3000",
			"http://localhost:5174",
			"https://qbit-tech-six.vercel.app",
		}
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 3600000
	}

	if cfg.APIs.Serp.BaseURL == "" {
		cfg.APIs.Serp.BaseURL = "https://serpapi.com"
	}
	if cfg.APIs.Serp.Geo == "" {
		cfg.APIs.Serp.Geo = "za"
	}
	if cfg.APIs.Serp.Language == "" {
		cfg.APIs.Serp.Language = "en"
	}
	if cfg.APIs.Serp.Timeout == 0 {
		cfg.APIs.Serp.Timeout = 30000
	}
	if cfg.APIs.Gemini.BaseURL == "" {
		cfg.APIs.Gemini.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.APIs.Gemini.Model == "" {
		cfg.APIs.Gemini.Model = "gemini-2.0-flash"
	}
	if cfg.APIs.Gemini.Timeout == 0 {
		cfg.APIs.Gemini.Timeout = 60000
	}

	if cfg.Mail.Provider == "" {
		cfg.Mail.Provider = "smtp"
	}
	if cfg.Mail.SMTP.Host == "" {
		cfg.Mail.SMTP.Host = "smtp.gmail.com"
		cfg.Mail.SMTP.UseTLS = true
	}
	if cfg.Mail.SMTP.Port == 0 {
		cfg.Mail.SMTP.Port = 587
	}

	if cfg.PriceMonitor.ExportDir == "" {
		cfg.PriceMonitor.ExportDir = "."
	}
	if cfg.PriceMonitor.HistoryIndex == "" {
		cfg.PriceMonitor.HistoryIndex = "price-history"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.APIs.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if cfg.Database.Postgres.GetDSN() == "" {
		return fmt.Errorf("database.postgres.url (DATABASE_URL) or database.postgres.host is required")
	}
	if cfg.Auth.SecretKey == "" {
		return fmt.Errorf("auth.secret_key (SECRET_KEY) is required")
	}

	switch cfg.Mail.MailProvider() {
	case "smtp", "ses", "sendgrid", "postmark":
	default:
		return fmt.Errorf("mail.provider %q is not supported", cfg.Mail.Provider)
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
