package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
database:
  driver: postgres
  postgres:
    host: db
    port: 5433
    user: thoughts
    password: secret
    dbname: thoughts
    sslmode: disable
jwt:
  secret: from-file
log:
  level: debug
`)
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 10, cfg.JWT.BcryptCost)
	assert.Equal(t,
		"host=db port=5433 user=thoughts password=secret dbname=thoughts sslmode=disable",
		cfg.Database.Postgres.DSN())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 5050, cfg.Server.Port)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, "mongodb://localhost/happyThoughts", cfg.Database.Mongo.URL)
}

func TestLoad_MissingSecretFailsFast(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	path := writeConfig(t, "database:\n  driver: mongo\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "jwt secret is required")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "static without secret",
			mutate: func(c *Config) { c.Database.Driver = DriverStatic; c.Static.Source = "thoughts.json" },
		},
		{
			name:    "static without source",
			mutate:  func(c *Config) { c.Database.Driver = DriverStatic },
			wantErr: "static source is required",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Database.Driver = "cassandra"; c.JWT.Secret = "x" },
			wantErr: "unknown database driver",
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.JWT.Secret = "x"; c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestPostgresDSN_PrefersURL(t *testing.T) {
	c := PostgresConfig{Host: "ignored", URL: "postgres://u:p@db/thoughts"}
	assert.Equal(t, "postgres://u:p@db/thoughts", c.DSN())
}
