// internal/common/config/config.go
package config

import (
	"fmt"
	"strings"
)

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Auth         AuthConfig         `mapstructure:"auth"`
	APIs         APIsConfig         `mapstructure:"apis"`
	Mail         MailConfig         `mapstructure:"mail"`
	Integrations IntegrationConfig  `mapstructure:"integrations"`
	PriceMonitor PriceMonitorConfig `mapstructure:"price_monitor"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string   `mapstructure:"address"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
	CORSOrigins     []string `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	URL            string `mapstructure:"url"` // DATABASE_URL, wins over the discrete fields
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	if p.URL != "" {
		return p.URL
	}
	if p.Host == "" {
		return ""
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"` // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

// Enabled reports whether any Elasticsearch endpoint is configured.
func (e ElasticsearchConfig) Enabled() bool {
	return e.GetURL() != ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// --- Specific Configuration Sections ---

// AuthConfig holds token signing settings.
type AuthConfig struct {
	SecretKey string `mapstructure:"secret_key"`
	TokenTTL  int    `mapstructure:"token_ttl"` // milliseconds
	Issuer    string `mapstructure:"issuer"`
}

// APIsConfig holds settings for external API integrations.
type APIsConfig struct {
	Serp struct {
		BaseURL  string `mapstructure:"base_url"`
		APIKey   string `mapstructure:"api_key"`
		Geo      string `mapstructure:"geo"`
		Language string `mapstructure:"language"`
		Timeout  int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"serp"`

	Gemini struct {
		BaseURL string `mapstructure:"base_url"`
		Model   string `mapstructure:"model"`
		APIKey  string `mapstructure:"api_key"`
		Timeout int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"gemini"`
}

// MailConfig selects and configures the outbound mail transport.
type MailConfig struct {
	Provider string `mapstructure:"provider"` // smtp | ses | sendgrid | postmark
	From     string `mapstructure:"from"`

	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		UseTLS   bool   `mapstructure:"use_tls"`
	} `mapstructure:"smtp"`

	SendGrid struct {
		APIKey string `mapstructure:"api_key"`
	} `mapstructure:"sendgrid"`

	Postmark struct {
		ServerToken string `mapstructure:"server_token"`
	} `mapstructure:"postmark"`

	SMS struct {
		Enabled  bool   `mapstructure:"enabled"`
		SenderID string `mapstructure:"sender_id"`
	} `mapstructure:"sms"`
}

// IntegrationConfig holds settings for cloud integrations.
type IntegrationConfig struct {
	AWS struct {
		Region          string `mapstructure:"region"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
		S3              struct {
			Bucket   string `mapstructure:"bucket"`
			Prefix   string `mapstructure:"prefix"`
			Endpoint string `mapstructure:"endpoint"`
		} `mapstructure:"s3"`
	} `mapstructure:"aws"`
}

// PriceMonitorConfig holds export, history and watch settings.
type PriceMonitorConfig struct {
	ExportDir    string   `mapstructure:"export_dir"`
	HistoryIndex string   `mapstructure:"history_index"`
	Schedule     string   `mapstructure:"schedule"`
	WatchQueries []string `mapstructure:"watch_queries"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MailProvider returns the normalized transport name.
func (m MailConfig) MailProvider() string {
	return strings.ToLower(strings.TrimSpace(m.Provider))
}
