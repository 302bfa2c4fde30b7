package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"productapi/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, config.DriverMemory, cfg.StoreDriver)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.Empty(t, cfg.JWTSecret)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8088")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":8088", cfg.Addr())
	assert.Equal(t, config.DriverSQLite, cfg.StoreDriver)
	assert.NotEmpty(t, cfg.SQLiteDSN)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Run("port", func(t *testing.T) {
		t.Setenv("PORT", "not-a-port")
		_, err := config.Load(viper.New())
		assert.ErrorContains(t, err, "invalid PORT")
	})

	t.Run("driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "postgres")
		_, err := config.Load(viper.New())
		assert.ErrorContains(t, err, "unsupported STORE_DRIVER")
	})
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, config.LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PRODUCTAPI_DOTENV_PROBE=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("PRODUCTAPI_DOTENV_PROBE") })

	require.NoError(t, config.LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("PRODUCTAPI_DOTENV_PROBE"))
}
