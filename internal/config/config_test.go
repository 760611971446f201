package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, "/uploads", cfg.Storage.PublicPath)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
  mode: release
database:
  driver: memory
storage:
  upload_dir: /var/uploads
  max_size_mb: 2
session:
  secret: s3cret
  ttl_hours: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "/var/uploads", cfg.Storage.UploadDir)
	assert.Equal(t, int64(2<<20), cfg.Storage.MaxUploadBytes())
	assert.Equal(t, "s3cret", cfg.Session.Secret)
	assert.Equal(t, 2*time.Hour, cfg.Session.SessionTTL())
	// untouched sections keep defaults
	assert.Equal(t, 6379, cfg.Redis.Port)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [unclosed")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/labs")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("S3_BUCKET", "pictures")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://u:p@db:5432/labs", cfg.Database.DSN())
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "s3", cfg.Storage.Driver)
	assert.Equal(t, "pictures", cfg.Storage.S3.Bucket)
}

func TestDSN_FromFields(t *testing.T) {
	c := DatabaseConfig{Host: "h", Port: 1, User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable", c.DSN())
}

func TestDefaultsForZeroValues(t *testing.T) {
	var s SessionConfig
	assert.Equal(t, 24*time.Hour, s.SessionTTL())

	var st StorageConfig
	assert.Equal(t, int64(5<<20), st.MaxUploadBytes())
}
