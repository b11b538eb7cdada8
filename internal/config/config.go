package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config конфигурация сервиса
// Значения читаются из TOML файла и могут быть переопределены переменными окружения
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Business  BusinessConfig  `toml:"business"`
	Calendar  CalendarConfig  `toml:"calendar"`
	SMTP      SMTPConfig      `toml:"smtp"`
	Events    EventsConfig    `toml:"events"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" env:"SERVER_HTTP_PORT"`
	ReadTimeout     int `toml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    int `toml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout     int `toml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT"`
	ShutdownTimeout int `toml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host" env:"DB_HOST"`
	Port            int    `toml:"port" env:"DB_PORT"`
	User            string `toml:"user" env:"DB_USER"`
	Password        string `toml:"password" env:"DB_PASSWORD"`
	DBName          string `toml:"dbname" env:"DB_NAME"`
	SSLMode         string `toml:"sslmode" env:"DB_SSLMODE"`
	MaxOpenConns    int    `toml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `toml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file" env:"LOGS_FILE"`
	Level string `toml:"level" env:"LOGS_LEVEL"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" env:"METRICS_ENABLED"`
	Path        string `toml:"path" env:"METRICS_PATH"`
	ServiceName string `toml:"service_name" env:"METRICS_SERVICE_NAME"`
}

// BusinessConfig бизнес-настройки: единый часовой пояс и маркеры бронирования
type BusinessConfig struct {
	Timezone    string `toml:"timezone" env:"BUSINESS_TIMEZONE"`
	MarkerOpen  string `toml:"marker_open" env:"BUSINESS_MARKER_OPEN"`
	MarkerClose string `toml:"marker_close" env:"BUSINESS_MARKER_CLOSE"`
}

// Location возвращает часовой пояс бизнеса
func (c BusinessConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// CalendarConfig настройки внешнего календаря
type CalendarConfig struct {
	URL        string `toml:"url" env:"CALENDAR_URL"`
	Timeout    int    `toml:"timeout" env:"CALENDAR_TIMEOUT"` // секунды
	MaxRetries int    `toml:"max_retries" env:"CALENDAR_MAX_RETRIES"`
}

// SMTPConfig настройки отправки e-mail
type SMTPConfig struct {
	Host       string `toml:"host" env:"SMTP_HOST"`
	Port       int    `toml:"port" env:"SMTP_PORT"`
	User       string `toml:"user" env:"SMTP_USER"`
	Password   string `toml:"password" env:"SMTP_PASSWORD"`
	From       string `toml:"from" env:"SMTP_FROM"`
	Timeout    int    `toml:"timeout" env:"SMTP_TIMEOUT"` // секунды
	MaxRetries int    `toml:"max_retries" env:"SMTP_MAX_RETRIES"`
}

// EventsConfig настройки публикации событий в RabbitMQ
type EventsConfig struct {
	Enabled  bool   `toml:"enabled" env:"EVENTS_ENABLED"`
	URL      string `toml:"url" env:"EVENTS_AMQP_URL"`
	Exchange string `toml:"exchange" env:"EVENTS_EXCHANGE"`
	Timeout  int    `toml:"timeout" env:"EVENTS_TIMEOUT"` // секунды
}

// RateLimitConfig настройки ограничения частоты запросов
// Если RedisAddr пуст, используется ограничитель в памяти процесса
type RateLimitConfig struct {
	Enabled   bool   `toml:"enabled" env:"RATELIMIT_ENABLED"`
	Limit     int    `toml:"limit" env:"RATELIMIT_LIMIT"`
	Window    int    `toml:"window" env:"RATELIMIT_WINDOW"` // секунды
	RedisAddr string `toml:"redis_addr" env:"RATELIMIT_REDIS_ADDR"`
	FailOpen  bool   `toml:"fail_open" env:"RATELIMIT_FAIL_OPEN"`
}

// Load загружает конфигурацию из TOML файла и переменных окружения
func Load(path string) (*Config, error) {
	// .env используется только при локальной разработке
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default значения по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "smc_assistant_booking",
		},
		Business: BusinessConfig{
			Timezone:    "Europe/Paris",
			MarkerOpen:  "[BOOKING]",
			MarkerClose: "[/BOOKING]",
		},
		Calendar: CalendarConfig{Timeout: 5, MaxRetries: 3},
		SMTP:     SMTPConfig{Port: 587, Timeout: 10, MaxRetries: 2},
		Events:   EventsConfig{Exchange: "booking.events", Timeout: 5},
		RateLimit: RateLimitConfig{
			Limit:    60,
			Window:   60,
			FailOpen: true,
		},
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("config: invalid server.http_port %d", c.Server.HTTPPort)
	}
	if _, err := c.Business.Location(); err != nil {
		return fmt.Errorf("config: invalid business.timezone %q: %w", c.Business.Timezone, err)
	}
	if c.Business.MarkerOpen == "" || c.Business.MarkerClose == "" {
		return errors.New("config: business markers must not be empty")
	}
	if c.Business.MarkerOpen == c.Business.MarkerClose {
		return errors.New("config: business.marker_open and business.marker_close must differ")
	}
	if c.Events.Enabled && c.Events.URL == "" {
		return errors.New("config: events.url is required when events are enabled")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Limit <= 0 || c.RateLimit.Window <= 0) {
		return errors.New("config: ratelimit.limit and ratelimit.window must be positive")
	}
	return nil
}
