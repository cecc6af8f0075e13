package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
[server]
http_port = 9090
shutdown_timeout = 5

[database]
host = "db"
port = 5433
user = "smc"
dbname = "workload"

[currentrms]
url = "http://crm.local/api/v1"
subdomain = "acme"
excluded_product_ids = [1, 2]

[workload]
workshop_days = 60
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 60, cfg.Server.WriteTimeout)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, "acme", cfg.CurrentRMS.Subdomain)
	assert.Equal(t, []int64{1, 2}, cfg.CurrentRMS.ExcludedProductIDs)
	assert.Equal(t, 60, cfg.Workload.WorkshopDays)
	assert.Equal(t, 14, cfg.Workload.WorkloadDays)
	assert.Equal(t, "Europe/London", cfg.Workload.Timezone)
	assert.Equal(t, 900, cfg.Sync.TaskTTL)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("WORKLOAD_DATABASE_PASSWORD", "s3cret")
	t.Setenv("WORKLOAD_CURRENTRMS_AUTH_TOKEN", "token-123")
	t.Setenv("WORKLOAD_SERVER_HTTP_PORT", "7070")

	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "token-123", cfg.CurrentRMS.AuthToken)
	assert.Equal(t, 7070, cfg.Server.HTTPPort)
}

func TestLoad_MissingFileUsesDefaultsAndEnv(t *testing.T) {
	t.Setenv("WORKLOAD_CURRENTRMS_SUBDOMAIN", "acme")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "acme", cfg.CurrentRMS.Subdomain)
}

func TestLoad_InvalidFile(t *testing.T) {
	_, err := Load(writeConfig(t, "[server\nhttp_port = "))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.CurrentRMS.Subdomain = "acme"
		return cfg
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing subdomain", func(c *Config) { c.CurrentRMS.Subdomain = "" }},
		{"missing url", func(c *Config) { c.CurrentRMS.URL = "" }},
		{"bad port", func(c *Config) { c.Server.HTTPPort = 0 }},
		{"zero horizon", func(c *Config) { c.Workload.CalendarDays = 0 }},
		{"horizon too long", func(c *Config) { c.Sync.Days = 400 }},
		{"bad timezone", func(c *Config) { c.Workload.Timezone = "Mars/Olympus" }},
		{"zero ttl", func(c *Config) { c.Sync.TaskTTL = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", d.DSN())
}
