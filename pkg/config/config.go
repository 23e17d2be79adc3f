package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App        AppConfig
	HTTP       HTTPConfig
	DB         DBConfig
	Pagination PaginationConfig
	Telegram   TelegramConfig
	RabbitMQ   RabbitMQConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, production, test
	Name     string
	LogLevel string
	Storage  string // postgres | memory
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host       string
	Port       int
	APIPrefix  string // sin barra inicial, ej. "api/v1"
	CORSOrigin string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL    string
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MaxConnections int
	AutoMigrate    bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// PaginationConfig límites de paginación para los listados.
type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// TelegramConfig credenciales del bot de alertas de stock.
// Sin token o chat_id los envíos fallan, pero la API sigue disponible.
type TelegramConfig struct {
	BotToken string
	ChatID   string
	APIURL   string
	Timeout  time.Duration
}

// Enabled indica si hay credenciales completas.
func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && c.ChatID != ""
}

// RabbitMQConfig publicación opcional de alertas en una cola (URL vacía = desactivado).
type RabbitMQConfig struct {
	URL         string
	AlertsQueue string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, MAX_PAGE_SIZE, TELEGRAM_BOT_TOKEN, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "productos-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
			Storage:  getString(v, "STORAGE", "postgres"),
		},
		HTTP: HTTPConfig{
			Host:       getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:       getInt(v, "HTTP_PORT", 3000),
			APIPrefix:  strings.Trim(getString(v, "API_PREFIX", "api/v1"), "/"),
			CORSOrigin: getString(v, "CORS_ORIGIN", "*"),
		},
		DB: DBConfig{
			DatabaseURL:    getString(v, "DATABASE_URL", ""),
			Host:           getString(v, "DB_HOST", "localhost"),
			Port:           getInt(v, "DB_PORT", 5432),
			User:           getString(v, "DB_USER", "postgres"),
			Password:       getString(v, "DB_PASSWORD", ""),
			DBName:         getString(v, "DB_NAME", "productos"),
			SSLMode:        getString(v, "DB_SSLMODE", "disable"),
			MaxConnections: getInt(v, "DB_MAX_CONNECTIONS", 10),
			AutoMigrate:    getBool(v, "DB_AUTO_MIGRATE", true),
		},
		Pagination: PaginationConfig{
			DefaultPageSize: getInt(v, "DEFAULT_PAGE_SIZE", 10),
			MaxPageSize:     getInt(v, "MAX_PAGE_SIZE", 50),
		},
		Telegram: TelegramConfig{
			BotToken: getString(v, "TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getString(v, "TELEGRAM_CHAT_ID", ""),
			APIURL:   strings.TrimRight(getString(v, "TELEGRAM_API_URL", "https://api.telegram.org"), "/"),
			Timeout:  time.Duration(getInt(v, "TELEGRAM_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		RabbitMQ: RabbitMQConfig{
			URL:         getString(v, "RABBITMQ_URL", ""),
			AlertsQueue: getString(v, "RABBITMQ_ALERTS_QUEUE", "alertas_stock"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate verifica rangos y valores permitidos; devuelve todos los problemas juntos.
func (c *Config) Validate() error {
	var errs []error
	switch c.App.Env {
	case "development", "production", "test":
	default:
		errs = append(errs, fmt.Errorf("APP_ENV: valor no permitido %q", c.App.Env))
	}
	switch c.App.Storage {
	case "postgres", "memory":
	default:
		errs = append(errs, fmt.Errorf("STORAGE: valor no permitido %q", c.App.Storage))
	}
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT: fuera de rango (%d)", c.HTTP.Port))
	}
	if c.DB.MaxConnections < 1 || c.DB.MaxConnections > 100 {
		errs = append(errs, fmt.Errorf("DB_MAX_CONNECTIONS: debe estar entre 1 y 100 (%d)", c.DB.MaxConnections))
	}
	if c.Pagination.DefaultPageSize < 1 || c.Pagination.DefaultPageSize > 100 {
		errs = append(errs, fmt.Errorf("DEFAULT_PAGE_SIZE: debe estar entre 1 y 100 (%d)", c.Pagination.DefaultPageSize))
	}
	if c.Pagination.MaxPageSize < 10 || c.Pagination.MaxPageSize > 200 {
		errs = append(errs, fmt.Errorf("MAX_PAGE_SIZE: debe estar entre 10 y 200 (%d)", c.Pagination.MaxPageSize))
	}
	if c.Telegram.Timeout <= 0 {
		errs = append(errs, errors.New("TELEGRAM_TIMEOUT_SECONDS: debe ser positivo"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("errores de configuración: %w", errors.Join(errs...))
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
