package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Persistence drivers accepted in DB_DRIVER
const (
	DriverMongo    = "mongo"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type HTTPConfig struct {
	Address     string   `yaml:"address" env:"HTTP_ADDR" env-default:":5000"`
	GinMode     string   `yaml:"gin_mode" env:"GIN_MODE" env-default:"debug"`
	CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:"," env-default:"*"`
}

type DBConfig struct {
	Driver         string        `yaml:"driver" env:"DB_DRIVER" env-default:"mongo"`
	MongoURI       string        `yaml:"mongo_uri" env:"MONGODB_URI" env-default:"mongodb://localhost:27017"`
	MongoDatabase  string        `yaml:"mongo_db" env:"MONGO_DB" env-default:"task_assignment"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT" env-default:"10s"`
	Host           string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port           string        `yaml:"port" env:"DB_PORT" env-default:"3306"`
	User           string        `yaml:"user" env:"DB_USER" env-default:"taskuser"`
	Password       string        `yaml:"password" env:"DB_PASSWORD" env-default:"taskpassword"`
	Name           string        `yaml:"name" env:"DB_NAME" env-default:"task_assignment"`
	SQLitePath     string        `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"task_assignment.db"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET" env-default:""`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"JWT_TTL" env-default:"24h"`
}

type MailConfig struct {
	Host     string        `yaml:"smtp_host" env:"SMTP_HOST" env-default:"smtp.gmail.com"`
	Port     int           `yaml:"smtp_port" env:"SMTP_PORT" env-default:"587"`
	User     string        `yaml:"smtp_user" env:"EMAIL_USER" env-default:""`
	Password string        `yaml:"smtp_password" env:"EMAIL_PASS" env-default:""`
	From     string        `yaml:"from" env:"MAIL_FROM" env-default:""`
	Timeout  time.Duration `yaml:"timeout" env:"MAIL_TIMEOUT" env-default:"30s"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	File  string `yaml:"file" env:"LOG_FILE" env-default:""`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"5"`
	Burst             int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"30"`
}

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	DB        DBConfig        `yaml:"db"`
	Auth      AuthConfig      `yaml:"auth"`
	Mail      MailConfig      `yaml:"mail"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Load reads an optional .env file, then the YAML file at configPath (if any), then the environment
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if configPath != "" {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			var pe *os.PathError
			if !errors.As(err, &pe) {
				return nil, fmt.Errorf("cannot read config %q: %w", configPath, err)
			}
			configPath = ""
		}
	}
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that have no safe default
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverMongo, DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	if c.Auth.JWTSecret == "" {
		if c.IsProduction() {
			return errors.New("JWT_SECRET must be set in release mode")
		}
		c.Auth.JWTSecret = "default-secret-key-change-me"
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	if c.Mail.From == "" {
		c.Mail.From = c.Mail.User
	}
	return nil
}

// IsProduction reports whether gin runs in release mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.HTTP.GinMode, "release")
}

// MailEnabled reports whether SMTP credentials are present
func (c *Config) MailEnabled() bool {
	return c.Mail.User != "" && c.Mail.Password != ""
}
