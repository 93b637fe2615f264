package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("USER_SOURCE", "Postgres")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, UserSourcePostgres, cfg.UserSource)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, UserSourceBuiltin, cfg.UserSource)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 300, cfg.Database.ConnMaxLifetimeSec)
	assert.Equal(t, "seed/users.json", cfg.MinIO.UsersKey)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Encoding)
	assert.Equal(t, "UTC", cfg.Log.Timezone)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9090\"\nlog_level: debug\nminio_bucket: users\n"), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "users", cfg.MinIO.Bucket)
	// environment wins over the file
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user_source: postgres\ndb_host: db.internal\n"), 0o600))

	t.Setenv("CONFIG_FILE", "/ignored/when/explicit.yaml")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, UserSourcePostgres, cfg.UserSource)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "non numeric port", key: "PORT", val: "http"},
		{name: "port out of range", key: "PORT", val: "70000"},
		{name: "unknown user source", key: "USER_SOURCE", val: "redis"},
		{name: "unknown log encoding", key: "LOG_ENCODING", val: "xml"},
		{name: "missing config file", key: "CONFIG_FILE", val: "/does/not/exist.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}
