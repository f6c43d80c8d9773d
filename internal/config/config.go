package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported storage drivers
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
	DriverStatic   = "static"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Static   StaticConfig   `yaml:"static"`
	AWS      AWSConfig      `yaml:"aws"`
	JWT      JWTConfig      `yaml:"jwt"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// DatabaseConfig selects the store and holds its connection settings
type DatabaseConfig struct {
	Driver   string         `yaml:"driver"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// MongoConfig holds MongoDB configuration
type MongoConfig struct {
	URL      string `yaml:"url"`
	Database string `yaml:"database"`
}

// PostgresConfig holds PostgreSQL configuration
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	// URL takes precedence over the discrete fields when set.
	URL string `yaml:"url"`
}

// RedisConfig holds Redis configuration. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// StaticConfig holds the read-only dataset location for the static driver.
// Source is a local path or an s3://bucket/key URL.
type StaticConfig struct {
	Source string `yaml:"source"`
}

// AWSConfig holds AWS configuration
type AWSConfig struct {
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Endpoint  string `yaml:"endpoint"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret     string `yaml:"secret"`
	BcryptCost int    `yaml:"bcrypt_cost"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 5050},
		Database: DatabaseConfig{
			Driver: DriverMongo,
			Mongo: MongoConfig{
				URL:      "mongodb://localhost/happyThoughts",
				Database: "happyThoughts",
			},
			Postgres: PostgresConfig{
				Host:    "localhost",
				Port:    5432,
				SSLMode: "disable",
			},
		},
		AWS: AWSConfig{Region: "us-east-1"},
		JWT: JWTConfig{BcryptCost: 10},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads configuration from an optional .env file, an optional YAML
// file and the process environment, in that order of increasing priority.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	setString(&c.Server.Host, "HOST")
	setString(&c.Database.Driver, "DATABASE_DRIVER")
	setString(&c.Database.Mongo.URL, "MONGO_URL")
	setString(&c.Database.Mongo.Database, "MONGO_DATABASE")
	setString(&c.Database.Postgres.URL, "POSTGRES_DSN")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.JWT.Secret, "JWT_SECRET")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Static.Source, "STATIC_SOURCE")
	setString(&c.AWS.Region, "AWS_REGION")
	setString(&c.AWS.Endpoint, "AWS_S3_ENDPOINT")
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Validate checks the settings the selected driver depends on
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMongo, DriverPostgres, DriverMemory:
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt secret is required for driver %q", c.Database.Driver)
		}
	case DriverStatic:
		if c.Static.Source == "" {
			return fmt.Errorf("static source is required for driver %q", DriverStatic)
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// DSN returns the PostgreSQL connection string
func (c *PostgresConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
