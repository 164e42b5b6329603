package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "libsql", cfg.Database.Driver)
	assert.Empty(t, cfg.Database.URI)
	assert.Equal(t, time.Duration(0), cfg.JWT.Expiration)
	assert.Equal(t, "moonshot-v1-8k", cfg.Advisor.Model)
	assert.Equal(t, 0.7, cfg.Advisor.Temperature)
	assert.Equal(t, 60*time.Second, cfg.Advisor.Timeout)
	assert.False(t, cfg.S3.Enabled())
	assert.True(t, cfg.S3.UseSSL)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
database:
  driver: sqlite
  uri: ":memory:"
jwt:
  secret: file-secret
  expiration: 2h
s3:
  region: eu-central-1
  bucket_name: photos
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("TURSO_AUTH_TOKEN", "token-123")
	t.Setenv("KIMI_API_KEY", "sk-test")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.URI)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "token-123", cfg.Database.AccessKey)
	assert.Equal(t, "sk-test", cfg.Advisor.APIKey)
	assert.True(t, cfg.S3.Enabled())
}

func TestS3Config_EndpointURL(t *testing.T) {
	assert.Empty(t, S3Config{}.EndpointURL())
	assert.Equal(t, "https://minio.local:9000", S3Config{Endpoint: "minio.local:9000", UseSSL: true}.EndpointURL())
	assert.Equal(t, "http://minio.local:9000", S3Config{Endpoint: "minio.local:9000"}.EndpointURL())
	assert.Equal(t, "http://localhost:9000", S3Config{Endpoint: "http://localhost:9000", UseSSL: true}.EndpointURL())
}
