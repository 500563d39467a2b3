package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port          string `yaml:"port" validate:"required,numeric"`
	BaseURL       string `yaml:"baseURL" validate:"omitempty,url"`
	DBDriver      string `yaml:"dbDriver" validate:"required,oneof=postgres mysql sqlite"`
	DBHost        string `yaml:"dbHost"`
	DBPort        string `yaml:"dbPort"`
	DBUser        string `yaml:"dbUser"`
	DBPassword    string `yaml:"dbPassword"`
	DBName        string `yaml:"dbName"`
	DBPath        string `yaml:"dbPath" validate:"required_if=DBDriver sqlite"`
	RedisHost     string `yaml:"redisHost"`
	RedisPort     string `yaml:"redisPort"`
	SessionSecret string `yaml:"sessionSecret" validate:"required"`
	AuthSecret    string `yaml:"authSecret" validate:"required,min=16"`
	GinMode       string `yaml:"ginMode" validate:"oneof=debug release test"`
	LogLevel      string `yaml:"logLevel" validate:"oneof=debug info warn error"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	cfg.overlayEnv()

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Secure reports whether cookies should carry the Secure attribute.
func (c *Config) Secure() bool {
	return c.GinMode == "release"
}

// RedisAddr is empty when no Redis host is configured.
func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}

func defaults() *Config {
	return &Config{
		Port:          "8080",
		BaseURL:       "http://localhost:8080",
		DBDriver:      "postgres",
		DBHost:        "localhost",
		DBPort:        "5432",
		DBUser:        "rentals",
		DBPassword:    "rentals",
		DBName:        "rental_ops",
		DBPath:        "rental_ops.db",
		RedisPort:     "6379",
		SessionSecret: "default-secret-key-change-me",
		AuthSecret:    "default-auth-secret-change-me",
		GinMode:       "debug",
		LogLevel:      "info",
	}
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) overlayEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.BaseURL = getEnv("BASE_URL", c.BaseURL)
	c.DBDriver = getEnv("DB_DRIVER", c.DBDriver)
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)
	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.RedisHost = getEnv("REDIS_HOST", c.RedisHost)
	c.RedisPort = getEnv("REDIS_PORT", c.RedisPort)
	c.SessionSecret = getEnv("SESSION_SECRET", c.SessionSecret)
	c.AuthSecret = getEnv("AUTH_SECRET", c.AuthSecret)
	c.GinMode = getEnv("GIN_MODE", c.GinMode)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
