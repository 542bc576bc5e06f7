package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/questlog/internal/database"
	"github.com/lawnchairsociety/questlog/internal/storage"
)

// Storage drivers accepted in storage.driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// AppConfig holds application-wide configuration settings.
type AppConfig struct {
	Content ContentConfig `yaml:"content"`
	Storage StorageConfig `yaml:"storage"`

	// LoggingConfig is the path of the logging YAML file.
	LoggingConfig string `yaml:"logging_config"`
}

// ContentConfig points at the authored content files.
type ContentConfig struct {
	// Quests is a single YAML file or a directory of them.
	Quests string `yaml:"quests"`
	Names  string `yaml:"names"`
	Text   string `yaml:"text"`

	// Help overrides the built-in command help; empty uses the built-in text.
	Help string `yaml:"help"`
}

// StorageConfig selects and configures the save store.
type StorageConfig struct {
	// Driver is one of sqlite, postgres, redis or memory.
	Driver     string         `yaml:"driver"`
	SQLitePath string         `yaml:"sqlite_path"`
	Postgres   PostgresConfig `yaml:"postgres"`
	Redis      RedisConfig    `yaml:"redis"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`

	MaxOpenConns           int `yaml:"max_open_conns"`
	MaxIdleConns           int `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int `yaml:"conn_max_lifetime_minutes"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	URL       string `yaml:"url"`
	KeyPrefix string `yaml:"key_prefix"`

	// TTLHours expires saves; 0 keeps them forever.
	TTLHours int `yaml:"ttl_hours"`
}

// DefaultConfig returns an AppConfig that stores saves in a local SQLite file.
func DefaultConfig() *AppConfig {
	pg := database.DefaultPostgresConfig()
	return &AppConfig{
		Content: ContentConfig{
			Quests: "data/quests",
			Names:  "data/names.yaml",
			Text:   "data/text.yaml",
		},
		Storage: StorageConfig{
			Driver:     DriverSQLite,
			SQLitePath: "data/saves.db",
			Postgres: PostgresConfig{
				Host:                   pg.Host,
				Port:                   pg.Port,
				User:                   "questlog",
				Database:               "questlog",
				SSLMode:                pg.SSLMode,
				MaxOpenConns:           pg.MaxOpenConns,
				MaxIdleConns:           pg.MaxIdleConns,
				ConnMaxLifetimeMinutes: int(pg.ConnMaxLifetime / time.Minute),
			},
			Redis: RedisConfig{
				URL:       "redis://localhost:6379/0",
				KeyPrefix: "questlog",
			},
		},
		LoggingConfig: "data/logging.yaml",
	}
}

// LoadConfig loads application configuration from a YAML file and applies
// environment overrides.
// If the file doesn't exist, returns default config.
func LoadConfig(path string) (*AppConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return config, err
		}
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	config.applyEnv()
	return config, nil
}

func (c *AppConfig) applyEnv() {
	if driver := os.Getenv("QUESTLOG_STORAGE_DRIVER"); driver != "" {
		c.Storage.Driver = driver
	}
	if path := os.Getenv("QUESTLOG_SQLITE_PATH"); path != "" {
		c.Storage.SQLitePath = path
	}
	if url := os.Getenv("QUESTLOG_REDIS_URL"); url != "" {
		c.Storage.Redis.URL = url
	}
}

// Validate checks the settings needed by the selected driver.
func (c *AppConfig) Validate() error {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Storage.Postgres.Host == "" || c.Storage.Postgres.Database == "" {
			return fmt.Errorf("storage.postgres host and database are required for the postgres driver")
		}
	case DriverRedis:
		if c.Storage.Redis.URL == "" {
			return fmt.Errorf("storage.redis.url is required for the redis driver")
		}
		if c.Storage.Redis.TTLHours < 0 {
			return fmt.Errorf("storage.redis.ttl_hours must not be negative")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q (want sqlite, postgres, redis or memory)", c.Storage.Driver)
	}

	if c.Content.Quests == "" {
		return fmt.Errorf("content.quests is required")
	}
	return nil
}

// DatabaseConfig converts the SQL settings for database.OpenWithConfig.
func (c *AppConfig) DatabaseConfig() database.Config {
	if c.Storage.Driver != DriverPostgres {
		return database.DefaultConfig(c.Storage.SQLitePath)
	}

	pg := c.Storage.Postgres
	return database.Config{
		Driver: DriverPostgres,
		Postgres: database.PostgresConfig{
			Host:            pg.Host,
			Port:            pg.Port,
			User:            pg.User,
			Password:        pg.Password,
			Database:        pg.Database,
			SSLMode:         pg.SSLMode,
			MaxOpenConns:    pg.MaxOpenConns,
			MaxIdleConns:    pg.MaxIdleConns,
			ConnMaxLifetime: time.Duration(pg.ConnMaxLifetimeMinutes) * time.Minute,
		},
	}
}

// RedisOptions converts the Redis settings for storage.NewRedisStore.
func (c *AppConfig) RedisOptions() storage.RedisOptions {
	return storage.RedisOptions{
		URL:       c.Storage.Redis.URL,
		KeyPrefix: c.Storage.Redis.KeyPrefix,
		TTL:       time.Duration(c.Storage.Redis.TTLHours) * time.Hour,
	}
}
