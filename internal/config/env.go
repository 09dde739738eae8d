package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type DatabaseOptions struct {
	Driver       string `env:"DB_DRIVER" envDefault:"mysql"`
	Host         string `env:"DB_HOST" envDefault:"127.0.0.1"`
	Port         string `env:"DB_PORT" envDefault:"3306"`
	User         string `env:"DB_USER" envDefault:"root"`
	Password     string `env:"DB_PASSWORD"`
	Name         string `env:"DB_NAME" envDefault:"facilities"`
	Path         string `env:"DB_PATH" envDefault:"facilities.db"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
}

// DSN returns the driver specific connection string.
func (d DatabaseOptions) DSN() string {
	if d.Driver == DriverSQLite {
		return d.Path
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type LogOptions struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"10"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	Compress   bool   `env:"LOG_COMPRESS" envDefault:"false"`
}

type AuthOptions struct {
	Enabled   bool   `env:"AUTH_ENABLED" envDefault:"false"`
	JWTSecret string `env:"JWT_SECRET"`
}

type Env struct {
	AppAddr        string        `env:"APP_ADDR" envDefault:":8080"`
	GinMode        string        `env:"GIN_MODE"`
	CORSOrigins    []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173"`
	LookupCacheTTL time.Duration `env:"LOOKUP_CACHE_TTL" envDefault:"5m"`
	DefaultPerPage int           `env:"DEFAULT_PER_PAGE" envDefault:"10"`
	MaxPerPage     int           `env:"MAX_PER_PAGE" envDefault:"100"`
	MetricsEnabled bool          `env:"METRICS_ENABLED" envDefault:"true"`
	MetricsPath    string        `env:"METRICS_PATH" envDefault:"/metrics"`

	Database DatabaseOptions
	Log      LogOptions
	Auth     AuthOptions
}

// LoadEnv reads .env files when present and parses the process environment.
func LoadEnv(envFiles ...string) (Env, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env", ".env.local"}
	}
	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return Env{}, err
		}
	}

	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, err
	}
	e.Database.Driver = strings.ToLower(strings.TrimSpace(e.Database.Driver))
	return e, e.Validate()
}

func (e Env) Validate() error {
	switch e.Database.Driver {
	case DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverMySQL, DriverSQLite, e.Database.Driver)
	}
	if e.DefaultPerPage < 1 {
		return fmt.Errorf("DEFAULT_PER_PAGE must be positive, got %d", e.DefaultPerPage)
	}
	if e.MaxPerPage < e.DefaultPerPage {
		return fmt.Errorf("MAX_PER_PAGE (%d) must be >= DEFAULT_PER_PAGE (%d)", e.MaxPerPage, e.DefaultPerPage)
	}
	if e.Auth.Enabled && strings.TrimSpace(e.Auth.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED is true")
	}
	return nil
}
