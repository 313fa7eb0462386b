package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/ranking"
)

// PasswordEnv переопределяет database.password, чтобы не хранить пароль в файле
const PasswordEnv = "DB_PASSWORD"

// Config конфигурация сервиса
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	UserService UserServiceConfig `toml:"user_service"`
	Redis       RedisConfig       `toml:"redis"`
	Booking     BookingConfig     `toml:"booking"`
	Scoring     ScoringConfig     `toml:"scoring"`
	RateLimit   RateLimitConfig   `toml:"rate_limit"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN собирает строку подключения для lib/pq.
// Пароль из переменной окружения DB_PASSWORD имеет приоритет над файлом.
func (c DatabaseConfig) DSN() string {
	password := c.Password
	if env, ok := os.LookupEnv(PasswordEnv); ok && env != "" {
		password = env
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

// LogsConfig параметры логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // пустая строка - только stdout
}

// MetricsConfig параметры Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// UserServiceConfig параметры клиента UserService
type UserServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// RedisConfig параметры Redis для блокировок комнат
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	LockTTL  int    `toml:"lock_ttl_ms"`
}

// LockTTLDuration возвращает время жизни блокировки
func (c RedisConfig) LockTTLDuration() time.Duration {
	return time.Duration(c.LockTTL) * time.Millisecond
}

// BookingConfig параметры поиска и бронирования
type BookingConfig struct {
	Timezone           string `toml:"timezone"`
	DefaultPageSize    int    `toml:"default_page_size"`
	MaxPageSize        int    `toml:"max_page_size"`
	SearchWorkers      int    `toml:"search_workers"`
	BatchSize          int    `toml:"batch_size"`
	RecencyWindowDays  int    `toml:"recency_window_days"`
	AdvanceBookingDays int    `toml:"advance_booking_days"` // 0 - без ограничения
	OccurrencePreview  int    `toml:"occurrence_preview"`
}

// RecencyWindow возвращает период учета недавних бронирований
func (c BookingConfig) RecencyWindow() time.Duration {
	return time.Duration(c.RecencyWindowDays) * 24 * time.Hour
}

// ScoringConfig веса агентов ранжирования
type ScoringConfig struct {
	PreScoreCap        float64 `toml:"pre_score_cap"`
	SpecialtyBonus     float64 `toml:"specialty_bonus"`
	UsageWeight        float64 `toml:"usage_weight"`
	UsageCap           float64 `toml:"usage_cap"`
	ReliabilityBase    float64 `toml:"reliability_base"`
	CancellationWeight float64 `toml:"cancellation_weight"`
}

// Agents собирает агентов ранжирования в порядке регистрации
func (c ScoringConfig) Agents() []ranking.Agent {
	return []ranking.Agent{
		ranking.SpecialtyAffinity{Bonus: c.SpecialtyBonus},
		ranking.UsageRate{Weight: c.UsageWeight, Cap: c.UsageCap},
		ranking.Reliability{Base: c.ReliabilityBase, Penalty: c.CancellationWeight},
	}
}

// RateLimitConfig ограничение частоты поисковых запросов на заявителя
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "room_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "room_booking_service",
		},
		UserService: UserServiceConfig{
			URL:     "http://localhost:8081",
			Timeout: 5,
		},
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			LockTTL: 10000,
		},
		Booking: BookingConfig{
			Timezone:          domain.DefaultTimezone,
			DefaultPageSize:   domain.DefaultPageSize,
			MaxPageSize:       domain.MaxPageSize,
			SearchWorkers:     domain.DefaultSearchWorkers,
			BatchSize:         domain.MaxPageSize,
			RecencyWindowDays: domain.DefaultRecencyWindowDays,
			OccurrencePreview: domain.DefaultOccurrencePreview,
		},
		Scoring: ScoringConfig{
			PreScoreCap:        domain.DefaultPreScoreCap,
			SpecialtyBonus:     ranking.DefaultSpecialtyBonus,
			UsageWeight:        ranking.DefaultUsageWeight,
			UsageCap:           ranking.DefaultUsageCap,
			ReliabilityBase:    ranking.DefaultReliabilityBase,
			CancellationWeight: ranking.DefaultCancellationWeight,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 5,
			Burst:             10,
		},
	}
}

// Load читает TOML файл поверх значений по умолчанию и проверяет результат
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}

	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}

	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("%w: metrics.path is required when metrics are enabled", ErrInvalidConfig)
	}

	if c.UserService.URL == "" {
		return fmt.Errorf("%w: user_service.url is required", ErrInvalidConfig)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}

	if _, err := time.LoadLocation(c.Booking.Timezone); err != nil {
		return fmt.Errorf("%w: booking.timezone %q: %w", ErrInvalidConfig, c.Booking.Timezone, err)
	}

	if c.Booking.DefaultPageSize <= 0 || c.Booking.MaxPageSize <= 0 {
		return fmt.Errorf("%w: booking page sizes must be positive", ErrInvalidConfig)
	}

	if c.Booking.DefaultPageSize > c.Booking.MaxPageSize {
		return fmt.Errorf("%w: booking.default_page_size %d exceeds max_page_size %d",
			ErrInvalidConfig, c.Booking.DefaultPageSize, c.Booking.MaxPageSize)
	}

	if c.Booking.SearchWorkers <= 0 || c.Booking.BatchSize <= 0 {
		return fmt.Errorf("%w: booking.search_workers and booking.batch_size must be positive", ErrInvalidConfig)
	}

	if c.Booking.AdvanceBookingDays < 0 {
		return fmt.Errorf("%w: booking.advance_booking_days must not be negative", ErrInvalidConfig)
	}

	if c.Scoring.PreScoreCap < 0 {
		return fmt.Errorf("%w: scoring.pre_score_cap must not be negative", ErrInvalidConfig)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: rate_limit requires positive requests_per_second and burst", ErrInvalidConfig)
	}

	return nil
}
