package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
)

// EnvPrefix префикс переменных окружения (WORKLOAD_DATABASE_PASSWORD и т.д.)
const EnvPrefix = "WORKLOAD"

// ErrInvalidConfig возвращается при невалидной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server" envconfig:"SERVER"`
	Database   DatabaseConfig   `toml:"database" envconfig:"DATABASE"`
	Logs       LogsConfig       `toml:"logs" envconfig:"LOGS"`
	Metrics    MetricsConfig    `toml:"metrics" envconfig:"METRICS"`
	CurrentRMS CurrentRMSConfig `toml:"currentrms" envconfig:"CURRENTRMS"`
	Workload   WorkloadConfig   `toml:"workload" envconfig:"WORKLOAD"`
	Sync       SyncConfig       `toml:"sync" envconfig:"SYNC"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"` // секунды
	AutoMigrate     bool   `toml:"auto_migrate" split_words:"true"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name" split_words:"true"`
}

// CurrentRMSConfig настройки интеграции с Current RMS
type CurrentRMSConfig struct {
	URL                string  `toml:"url"`
	Subdomain          string  `toml:"subdomain"`
	AuthToken          string  `toml:"auth_token" split_words:"true"`
	Timeout            int     `toml:"timeout"` // секунды
	PerPage            int     `toml:"per_page" split_words:"true"`
	MaxRetries         uint64  `toml:"max_retries" split_words:"true"`
	RetryBaseDelayMs   int     `toml:"retry_base_delay_ms" split_words:"true"`
	ProductGroup       string  `toml:"product_group" split_words:"true"`
	ExcludedProductIDs []int64 `toml:"excluded_product_ids" split_words:"true"`
	OpportunityURL     string  `toml:"opportunity_url" split_words:"true"` // ссылка на заявку в веб-интерфейсе, id добавляется в конец
}

// WorkloadConfig настройки расчетов
type WorkloadConfig struct {
	Timezone        string `toml:"timezone"`
	WorkloadDays    int    `toml:"workload_days" split_words:"true"`
	CalendarDays    int    `toml:"calendar_days" split_words:"true"`
	WorkshopDays    int    `toml:"workshop_days" split_words:"true"`
	ScenicTag       string `toml:"scenic_tag" split_words:"true"`
	SyncConcurrency int    `toml:"sync_concurrency" split_words:"true"`
}

// SyncConfig настройки фоновой синхронизации
type SyncConfig struct {
	Enabled   bool `toml:"enabled"`
	Interval  int  `toml:"interval"` // секунды
	JitterSec int  `toml:"jitter_sec" split_words:"true"`
	TaskTTL   int  `toml:"task_ttl" split_words:"true"` // секунды
	Days      int  `toml:"days"`
}

// Load загружает конфигурацию из TOML файла и переменных окружения.
// Переменные окружения имеют приоритет над файлом.
// Отсутствующий файл не является ошибкой: используются значения по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    60,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "smc_workload",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			AutoMigrate:     true,
		},
		Logs: LogsConfig{
			File:  "stdout",
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "smc_workload_service",
		},
		CurrentRMS: CurrentRMSConfig{
			URL:                "https://api.current-rms.com/api/v1",
			Timeout:            30,
			PerPage:            25,
			MaxRetries:         3,
			RetryBaseDelayMs:   500,
			ProductGroup:       domain.DefaultProductGroup,
			ExcludedProductIDs: append([]int64(nil), domain.DefaultExcludedProductIDs...),
		},
		Workload: WorkloadConfig{
			Timezone:        "Europe/London",
			WorkloadDays:    domain.DefaultWorkloadDays,
			CalendarDays:    domain.DefaultCalendarDays,
			WorkshopDays:    domain.DefaultWorkshopDays,
			ScenicTag:       domain.DefaultScenicTag,
			SyncConcurrency: 4,
		},
		Sync: SyncConfig{
			Enabled:   true,
			Interval:  3600,
			JitterSec: 60,
			TaskTTL:   900,
			Days:      domain.DefaultWorkshopDays,
		},
	}
}

// Validate проверяет обязательные поля и диапазоны
func (c *Config) Validate() error {
	switch {
	case c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535:
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	case c.Server.ShutdownTimeout <= 0:
		return fmt.Errorf("%w: server.shutdown_timeout must be positive", ErrInvalidConfig)
	case c.Database.Port <= 0:
		return fmt.Errorf("%w: database.port must be positive", ErrInvalidConfig)
	case c.CurrentRMS.URL == "":
		return fmt.Errorf("%w: currentrms.url is required", ErrInvalidConfig)
	case c.CurrentRMS.Subdomain == "":
		return fmt.Errorf("%w: currentrms.subdomain is required", ErrInvalidConfig)
	case c.CurrentRMS.Timeout <= 0:
		return fmt.Errorf("%w: currentrms.timeout must be positive", ErrInvalidConfig)
	case c.CurrentRMS.PerPage <= 0:
		return fmt.Errorf("%w: currentrms.per_page must be positive", ErrInvalidConfig)
	case !validHorizon(c.Workload.WorkloadDays), !validHorizon(c.Workload.CalendarDays),
		!validHorizon(c.Workload.WorkshopDays), !validHorizon(c.Sync.Days):
		return fmt.Errorf("%w: horizon days must be in 1..%d", ErrInvalidConfig, domain.MaxHorizonDays)
	case c.Workload.SyncConcurrency <= 0:
		return fmt.Errorf("%w: workload.sync_concurrency must be positive", ErrInvalidConfig)
	case c.Sync.Enabled && c.Sync.Interval <= 0:
		return fmt.Errorf("%w: sync.interval must be positive", ErrInvalidConfig)
	case c.Sync.TaskTTL <= 0:
		return fmt.Errorf("%w: sync.task_ttl must be positive", ErrInvalidConfig)
	}

	if _, err := time.LoadLocation(c.Workload.Timezone); err != nil {
		return fmt.Errorf("%w: workload.timezone: %v", ErrInvalidConfig, err)
	}

	return nil
}

// Location возвращает часовой пояс расчетов
func (c *WorkloadConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DSN строка подключения для lib/pq
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

func validHorizon(days int) bool {
	return days > 0 && days <= domain.MaxHorizonDays
}
