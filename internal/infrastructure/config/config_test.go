package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"SHOPPULSE_APP_NAME":                  os.Getenv("SHOPPULSE_APP_NAME"),
		"SHOPPULSE_APP_ENV":                   os.Getenv("SHOPPULSE_APP_ENV"),
		"SHOPPULSE_APP_PORT":                  os.Getenv("SHOPPULSE_APP_PORT"),
		"SHOPPULSE_DATABASE_HOST":             os.Getenv("SHOPPULSE_DATABASE_HOST"),
		"SHOPPULSE_DATABASE_PORT":             os.Getenv("SHOPPULSE_DATABASE_PORT"),
		"SHOPPULSE_DATABASE_PASSWORD":         os.Getenv("SHOPPULSE_DATABASE_PASSWORD"),
		"SHOPPULSE_DATABASE_SSLMODE":          os.Getenv("SHOPPULSE_DATABASE_SSLMODE"),
		"SHOPPULSE_DATABASE_MAX_OPEN_CONNS":   os.Getenv("SHOPPULSE_DATABASE_MAX_OPEN_CONNS"),
		"SHOPPULSE_DATABASE_MAX_IDLE_CONNS":   os.Getenv("SHOPPULSE_DATABASE_MAX_IDLE_CONNS"),
		"SHOPPULSE_TIKTOK_APP_KEY":            os.Getenv("SHOPPULSE_TIKTOK_APP_KEY"),
		"SHOPPULSE_TIKTOK_APP_SECRET":         os.Getenv("SHOPPULSE_TIKTOK_APP_SECRET"),
		"SHOPPULSE_TIKTOK_BATCH_SIZE":         os.Getenv("SHOPPULSE_TIKTOK_BATCH_SIZE"),
		"SHOPPULSE_WEBHOOK_SECRET":            os.Getenv("SHOPPULSE_WEBHOOK_SECRET"),
		"SHOPPULSE_NOTIFY_TELEGRAM_BOT_TOKEN": os.Getenv("SHOPPULSE_NOTIFY_TELEGRAM_BOT_TOKEN"),
		"SHOPPULSE_SCHEDULER_TRIGGER_TOKEN":   os.Getenv("SHOPPULSE_SCHEDULER_TRIGGER_TOKEN"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "shoppulse-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "shoppulse", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 100, cfg.TikTok.PageSize)
		assert.Equal(t, 50, cfg.TikTok.BatchSize)
		assert.Equal(t, 24*time.Hour, cfg.TikTok.SyncLookback)
		assert.Equal(t, 5*time.Second, cfg.Notify.SendTimeout)
		assert.Equal(t, "*/30 * * * *", cfg.Scheduler.SyncCronSchedule)
	})

	t.Run("loads values from environment variables with SHOPPULSE prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPPULSE_APP_NAME", "test-app")
		os.Setenv("SHOPPULSE_APP_PORT", "9000")
		os.Setenv("SHOPPULSE_DATABASE_HOST", "testdb.local")
		os.Setenv("SHOPPULSE_DATABASE_PORT", "5433")
		os.Setenv("SHOPPULSE_TIKTOK_APP_KEY", "key-123")
		os.Setenv("SHOPPULSE_TIKTOK_APP_SECRET", "secret-123")
		os.Setenv("SHOPPULSE_WEBHOOK_SECRET", "whsec-123")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "key-123", cfg.TikTok.AppKey)
		assert.Equal(t, "secret-123", cfg.TikTok.AppSecret)
		assert.Equal(t, "whsec-123", cfg.Webhook.Secret)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPPULSE_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("SHOPPULSE_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects an upsert batch size above the cap", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPPULSE_TIKTOK_BATCH_SIZE", "250")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch_size")
	})

	t.Run("production requires platform and webhook secrets", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPPULSE_APP_ENV", "production")
		os.Setenv("SHOPPULSE_DATABASE_PASSWORD", "prod-pass")
		os.Setenv("SHOPPULSE_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tiktok.app_key")

		os.Setenv("SHOPPULSE_TIKTOK_APP_KEY", "key")
		os.Setenv("SHOPPULSE_TIKTOK_APP_SECRET", "secret")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "webhook.secret")

		os.Setenv("SHOPPULSE_WEBHOOK_SECRET", "whsec")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "trigger_token")

		os.Setenv("SHOPPULSE_SCHEDULER_TRIGGER_TOKEN", "cron-token")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	t.Run("production rejects sslmode disable", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPPULSE_APP_ENV", "production")
		os.Setenv("SHOPPULSE_DATABASE_PASSWORD", "prod-pass")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "sync",
		Password: "p@ss/word",
		DBName:   "shoppulse",
		SSLMode:  "require",
	}

	dsn := cfg.DSN()

	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
