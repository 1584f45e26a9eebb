package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("HOSTINGER", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("PORT", "")
	t.Setenv("SEED_EXAMPLES", "")

	cfg := Load()

	assert.Equal(t, "3000", cfg.ServerPort)
	assert.Equal(t, BackendFile, cfg.StorageBackend)
	assert.False(t, cfg.SeedExamples)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, int64(5*1024*1024), cfg.UploadMaxBytes)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	require.NoError(t, cfg.Validate())
}

func TestLoad_HostingerSelectsMemoryBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("HOSTINGER", "true")
	t.Setenv("SEED_EXAMPLES", "")

	cfg := Load()

	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.True(t, cfg.SeedExamples)
}

func TestLoad_PortAlias(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("PORT", "8081")

	assert.Equal(t, "8081", Load().ServerPort)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "memory ok", mutate: func(c *Config) { c.StorageBackend = BackendMemory }},
		{name: "mysql without dsn", mutate: func(c *Config) { c.StorageBackend = BackendMySQL; c.DatabaseDSN = "" }, wantErr: true},
		{name: "postgres with dsn", mutate: func(c *Config) { c.StorageBackend = BackendPostgres; c.DatabaseDSN = "postgres://x" }},
		{name: "unknown backend", mutate: func(c *Config) { c.StorageBackend = "mongo" }, wantErr: true},
		{name: "empty secret", mutate: func(c *Config) { c.SessionSecret = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				StorageBackend: BackendFile,
				SessionSecret:  "secret",
				UploadMaxBytes: 1,
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
