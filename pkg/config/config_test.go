package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "postgres", cfg.App.Storage)
	assert.Equal(t, "0.0.0.0:3000", cfg.HTTP.Addr())
	assert.Equal(t, "api/v1", cfg.HTTP.APIPrefix)
	assert.Equal(t, 10, cfg.Pagination.DefaultPageSize)
	assert.Equal(t, 50, cfg.Pagination.MaxPageSize)
	assert.Equal(t, 10, cfg.DB.MaxConnections)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.APIURL)
	assert.Equal(t, 10*time.Second, cfg.Telegram.Timeout)
	assert.False(t, cfg.Telegram.Enabled())
	assert.Equal(t, "alertas_stock", cfg.RabbitMQ.AlertsQueue)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("MAX_PAGE_SIZE", "80")
	v.Set("API_PREFIX", "/api/v2/")
	v.Set("TELEGRAM_BOT_TOKEN", "123:abc")
	v.Set("TELEGRAM_CHAT_ID", "-100")
	v.Set("TELEGRAM_API_URL", "http://localhost:9999/")
	v.Set("DB_AUTO_MIGRATE", "false")
	v.Set("STORAGE", "memory")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 80, cfg.Pagination.MaxPageSize)
	assert.Equal(t, "api/v2", cfg.HTTP.APIPrefix)
	assert.True(t, cfg.Telegram.Enabled())
	assert.Equal(t, "http://localhost:9999", cfg.Telegram.APIURL)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "memory", cfg.App.Storage)
}

func TestFromViper_RejectsOutOfRange(t *testing.T) {
	v := viper.New()
	v.Set("MAX_PAGE_SIZE", 5)
	v.Set("DEFAULT_PAGE_SIZE", 0)
	v.Set("APP_ENV", "staging")

	_, err := fromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_PAGE_SIZE")
	assert.Contains(t, err.Error(), "DEFAULT_PAGE_SIZE")
	assert.Contains(t, err.Error(), "APP_ENV")
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "productos", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/productos?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
