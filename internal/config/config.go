package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации сервиса уровней
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Generator GeneratorConfig `yaml:"generator"`
	Storage   StorageConfig   `yaml:"storage"`
	EventBus  EventBusConfig  `yaml:"eventbus"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	RESTPort int `yaml:"rest_port"`
}

// GeneratorConfig параметры генерации уровней.
// Seed == 0 означает случайный сид для каждого уровня.
type GeneratorConfig struct {
	Seed       int64 `yaml:"seed"`
	FirstLevel int   `yaml:"first_level"`
	MaxSide    int   `yaml:"max_side"`
	Prune      bool  `yaml:"prune"`
}

type StorageConfig struct {
	Backend  string `yaml:"backend"` // memory | badger | redis | mysql | sqlite
	DataPath string `yaml:"data_path"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`
	RedisTTLHours int    `yaml:"redis_ttl_hours"`

	DSN string `yaml:"dsn"`
}

// RedisTTL время жизни уровня в Redis; 0 без ограничения
func (s *StorageConfig) RedisTTL() time.Duration {
	return time.Duration(s.RedisTTLHours) * time.Hour
}

type EventBusConfig struct {
	Backend   string `yaml:"backend"` // memory | nats
	URL       string `yaml:"url"`
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
	Capacity  int    `yaml:"capacity"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

type LoggingConfig struct {
	ConsoleLevel string `yaml:"console_level"`
	FileLevel    string `yaml:"file_level"`
	Dir          string `yaml:"dir"`
}

// Default конфигурация, с которой сервис запускается без внешних зависимостей
func Default() *Config {
	return &Config{
		Generator: GeneratorConfig{
			FirstLevel: 1,
			MaxSide:    12,
			Prune:      true,
		},
		Storage: StorageConfig{
			Backend:     "memory",
			DataPath:    "data/levels",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "blockslide:",
		},
		EventBus: EventBusConfig{
			Backend:   "memory",
			URL:       "nats://localhost:4222",
			Stream:    "BLOCKSLIDE",
			Retention: 24,
			Capacity:  1024,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "blockslide",
		},
		Logging: LoggingConfig{
			ConsoleLevel: "INFO",
			FileLevel:    "DEBUG",
			Dir:          "logs",
		},
	}
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "BLOCKSLIDE_REST_PORT", 8088)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	// Если порт задан в конфиге и больше 0, используем его
	if configPort > 0 {
		return configPort
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл конфигурации поверх Default().
// Если path == "", берётся ENV BLOCKSLIDE_CONFIG; без него возвращаются дефолты.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("BLOCKSLIDE_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения, которые нельзя исправить дефолтами
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "memory", "badger", "redis", "mysql", "sqlite":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if (c.Storage.Backend == "mysql" || c.Storage.Backend == "sqlite") && c.Storage.DSN == "" {
		return fmt.Errorf("storage backend %s requires dsn", c.Storage.Backend)
	}

	switch c.EventBus.Backend {
	case "memory", "nats":
	default:
		return fmt.Errorf("unknown eventbus backend %q", c.EventBus.Backend)
	}

	if c.Generator.FirstLevel < 1 {
		return fmt.Errorf("generator.first_level must be >= 1, got %d", c.Generator.FirstLevel)
	}
	if c.Generator.MaxSide < 1 {
		return fmt.Errorf("generator.max_side must be >= 1, got %d", c.Generator.MaxSide)
	}
	return nil
}
