package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.AppPort)
	assert.Equal(t, "/api/v1", cfg.APIURL)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 8, cfg.OrderWorkers)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("API_URL", "/api/v2")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("ORDER_WORKERS", "3")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/api/v2", cfg.APIURL)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 90*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 3, cfg.OrderWorkers)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("UPLOAD_DIR=/tmp/eshop-uploads\n"), 0o600))
	// godotenv never overrides variables that are already set
	t.Setenv("UPLOAD_DIR", "")
	require.NoError(t, os.Unsetenv("UPLOAD_DIR"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/eshop-uploads", cfg.UploadDir)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.NoError(t, err)
}

func TestLoad_RejectsNonPositiveWorkers(t *testing.T) {
	t.Setenv("ORDER_WORKERS", "0")
	_, err := Load("")
	assert.Error(t, err)
}
