package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helpers
// ==========================

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, o := range envOverrides {
		t.Setenv(o.env, "")
	}
}

const baseYAML = `
app:
  name: qbit-test
database:
  postgres:
    url: ${TEST_DATABASE_URL}
auth:
  secret_key: s3cret
apis:
  gemini:
    api_key: gem-key
`

// ==========================
// LoadFromFile Tests
// ==========================

func TestLoadFromFile_ExpandsEnvAndAppliesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_DATABASE_URL", "postgres://u:p@localhost/qbit")

	cfg, err := LoadFromFile(writeConfigFile(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "qbit-test", cfg.App.Name)
	assert.Equal(t, "postgres://u:p@localhost/qbit", cfg.Database.Postgres.GetDSN())
	assert.Equal(t, ":5000", cfg.Server.Address)
	assert.Equal(t, "za", cfg.APIs.Serp.Geo)
	assert.Equal(t, "en", cfg.APIs.Serp.Language)
	assert.Equal(t, "gemini-2.0-flash", cfg.APIs.Gemini.Model)
	assert.Equal(t, "smtp", cfg.Mail.Provider)
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.SMTP.Host)
	assert.Equal(t, 587, cfg.Mail.SMTP.Port)
	assert.True(t, cfg.Mail.SMTP.UseTLS)
	assert.Equal(t, time.Hour, GetDuration(cfg.Auth.TokenTTL))
	assert.Contains(t, cfg.Server.CORSOrigins, "http://localhost:5173")
	assert.False(t, cfg.Database.Redis.Enabled())
	assert.False(t, cfg.Database.Elasticsearch.Enabled())
}

func TestLoadFromFile_FlatEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_DATABASE_URL", "postgres://localhost/qbit")
	t.Setenv("SERP_API_KEY", "serp-from-env")
	t.Setenv("MAIL_USERNAME", "mailer@example.com")
	t.Setenv("REDIS_URL", "localhost:6379")

	cfg, err := LoadFromFile(writeConfigFile(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "serp-from-env", cfg.APIs.Serp.APIKey)
	assert.Equal(t, "mailer@example.com", cfg.Mail.SMTP.Username)
	assert.True(t, cfg.Database.Redis.Enabled())
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errMsg string
	}{
		{
			name: "missing gemini key is fatal",
			yaml: `
database:
  postgres:
    url: postgres://localhost/qbit
auth:
  secret_key: s3cret
`,
			errMsg: "GEMINI_API_KEY is required",
		},
		{
			name: "missing database",
			yaml: `
auth:
  secret_key: s3cret
apis:
  gemini:
    api_key: gem-key
`,
			errMsg: "database.postgres.url",
		},
		{
			name: "missing secret",
			yaml: `
database:
  postgres:
    host: localhost
apis:
  gemini:
    api_key: gem-key
`,
			errMsg: "auth.secret_key",
		},
		{
			name: "unknown mail provider",
			yaml: baseYAML + `
mail:
  provider: pigeon
`,
			errMsg: "mail.provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("TEST_DATABASE_URL", "postgres://localhost/qbit")

			_, err := LoadFromFile(writeConfigFile(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestMergeEnvOverlay(t *testing.T) {
	tests := []struct {
		name    string
		overlay string
		wantErr bool
		wantAdr string
	}{
		{name: "missing overlay is ignored", wantAdr: ":5000"},
		{name: "overlay overrides base", overlay: "server:\n  address: \":7000\"\n", wantAdr: ":7000"},
		{name: "malformed overlay fails", overlay: "server: [unclosed\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server:\n  address: \":5000\"\n"), 0o600))
			if tt.overlay != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "config.staging.yaml"), []byte(tt.overlay), 0o600))
			}

			v := viper.New()
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(dir)
			require.NoError(t, v.ReadInConfig())

			err := mergeEnvOverlay(v, "staging")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "staging")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAdr, v.GetString("server.address"))
		})
	}
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "app", Password: "pw", Database: "qbit", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=qbit sslmode=disable", p.GetDSN())

	p.URL = "postgres://override"
	assert.Equal(t, "postgres://override", p.GetDSN())

	assert.Equal(t, "", PostgresConfig{}.GetDSN())
}
