package confs

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting. It is built once in main and passed
// down explicitly.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	GinMode         string        `env:"GIN_MODE" envDefault:"release"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	DB DBConfig
}

// DBConfig describes how to reach Postgres.
type DBConfig struct {
	URL              string `env:"DB_URL"`
	Host             string `env:"DB_HOST"`
	Port             string `env:"DB_PORT" envDefault:"5432"`
	User             string `env:"DB_USERNAME"`
	Password         string `env:"DB_PASSWORD"`
	Name             string `env:"DB_NAME"`
	SSLMode          string `env:"DB_SSLMODE"`
	WithoutReturning bool   `env:"DB_WITHOUT_RETURNING"`
	MaxOpenConns     int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns     int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
}

// LoadConfig loads environment variables from a .env file if present
// and parses them into a Config.
func LoadConfig() (*Config, error) {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: could not load .env: %v", err)
		}
	}
	return Parse()
}

// Parse reads the current process environment into a Config.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// DSN returns the connection string for the database. DB_URL wins over the
// individual parts.
func (c DBConfig) DSN() (string, error) {
	if c.URL != "" {
		dsn := c.URL
		if !strings.Contains(dsn, "sslmode=") {
			if strings.Contains(dsn, "?") {
				dsn += "&sslmode=require"
			} else {
				dsn += "?sslmode=require"
			}
		}
		return dsn, nil
	}

	if c.Host == "" || c.User == "" || c.Name == "" {
		return "", fmt.Errorf("missing required database configuration: DB_URL or (DB_HOST, DB_USERNAME, DB_NAME)")
	}

	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		quoteValue(c.Host), quoteValue(c.User), quoteValue(c.Password),
		quoteValue(c.Name), quoteValue(c.Port), quoteValue(c.sslMode())), nil
}

// quoteValue single-quotes a keyword/value connection string value so spaces,
// quotes and backslashes survive parsing.
func quoteValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func (c DBConfig) sslMode() string {
	if c.SSLMode != "" {
		return c.SSLMode
	}
	if c.Host == "localhost" || c.Host == "127.0.0.1" {
		return "disable"
	}
	return "require"
}
