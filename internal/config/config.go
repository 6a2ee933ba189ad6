package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	Host         string `env:"DB_HOST" envDefault:"localhost"`
	Port         string `env:"DB_PORT" envDefault:"5432"`
	User         string `env:"DB_USER" envDefault:"wa_user"`
	Password     string `env:"DB_PASSWORD" envDefault:"wa_pass"`
	Name         string `env:"DB_NAME" envDefault:"cft_task_db"`
	SSLMode      string `env:"DB_SSL_MODE" envDefault:"disable"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
}

// DSN returns the key/value connection string understood by the pgx driver.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// URL returns the connection string in URL form, as golang-migrate expects it.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" envDefault:"8087"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

type AuthConfig struct {
	JWTSecret   string        `env:"JWT_SECRET" envDefault:"supersecretkey"`
	TokenExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"4h"`
	ServiceName string        `env:"S2S_SERVICE_NAME" envDefault:"wa_task_management_api"`
}

type RoleAssignmentConfig struct {
	BaseURL string        `env:"ROLE_ASSIGNMENT_URL" envDefault:"http://localhost:4096"`
	Timeout time.Duration `env:"ROLE_ASSIGNMENT_TIMEOUT" envDefault:"10s"`
}

type CamundaConfig struct {
	BaseURL string        `env:"CAMUNDA_URL" envDefault:"http://localhost:8080/engine-rest"`
	Timeout time.Duration `env:"CAMUNDA_TIMEOUT" envDefault:"10s"`
}

type ReconfigurationConfig struct {
	MaxAttempts int           `env:"RECONFIGURATION_MAX_ATTEMPTS" envDefault:"4"`
	BackoffBase time.Duration `env:"RECONFIGURATION_BACKOFF_BASE" envDefault:"100ms"`
	BackoffMax  time.Duration `env:"RECONFIGURATION_BACKOFF_MAX" envDefault:"2s"`
}

type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type MigrationsConfig struct {
	Dir       string `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	RunOnBoot bool   `env:"MIGRATIONS_RUN_ON_BOOT" envDefault:"true"`
}

type Config struct {
	Database        DatabaseConfig
	Server          ServerConfig
	Auth            AuthConfig
	RoleAssignment  RoleAssignmentConfig
	Camunda         CamundaConfig
	Reconfiguration ReconfigurationConfig
	Logging         LoggingConfig
	Migrations      MigrationsConfig
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Reconfiguration.MaxAttempts < 1 {
		return fmt.Errorf("RECONFIGURATION_MAX_ATTEMPTS must be at least 1, got %d", c.Reconfiguration.MaxAttempts)
	}
	if c.RoleAssignment.BaseURL == "" {
		return fmt.Errorf("ROLE_ASSIGNMENT_URL is required")
	}
	if c.Camunda.BaseURL == "" {
		return fmt.Errorf("CAMUNDA_URL is required")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'text', got '%s'", c.Logging.Format)
	}
	return nil
}
