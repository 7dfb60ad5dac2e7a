package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const minSecretLength = 32

// Config holds everything the process needs from its environment.
// Nothing here has a hard-coded fallback for credentials or secrets.
type Config struct {
	Port string

	DBDriver    string // "mysql" or "postgres"
	DatabaseDSN string
	DBName      string
	DBTimeout   time.Duration
	DBLogLevel  string

	JWTSecret    []byte
	SessionTTL   time.Duration
	CookieSecure bool

	CORSOrigins []string
	AutoMigrate bool

	SMTP SMTPConfig
}

// SMTPConfig is optional; an empty Host switches the mailer to log-only mode.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

// Load reads an optional .env file and then builds the Config from the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config using getenv. All problems are reported together.
func FromEnv(getenv func(string) string) (Config, error) {
	env := func(key string) string { return strings.TrimSpace(getenv(key)) }
	orDefault := func(key, def string) string {
		if v := env(key); v != "" {
			return v
		}
		return def
	}

	var errs []error
	cfg := Config{
		Port:       orDefault("PORT", "8080"),
		DBDriver:   strings.ToLower(orDefault("DB_DRIVER", "mysql")),
		DBLogLevel: strings.ToLower(orDefault("DB_LOG_LEVEL", "warn")),
	}

	dsn, dbName, err := resolveDSN(cfg.DBDriver, env)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.DatabaseDSN = dsn
	cfg.DBName = dbName

	secret := env("JWT_SECRET")
	switch {
	case secret == "":
		errs = append(errs, errors.New("JWT_SECRET is required"))
	case len(secret) < minSecretLength:
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength))
	}
	cfg.JWTSecret = []byte(secret)

	cfg.CORSOrigins = parseList(env("CORS_ORIGINS"))
	if len(cfg.CORSOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ORIGINS is required"))
	}

	if cfg.SessionTTL, err = parseDuration(env("SESSION_TTL"), 2*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("SESSION_TTL: %w", err))
	}
	if cfg.DBTimeout, err = parseDuration(env("DB_TIMEOUT"), 5*time.Second); err != nil {
		errs = append(errs, fmt.Errorf("DB_TIMEOUT: %w", err))
	}
	if cfg.CookieSecure, err = parseBool(env("COOKIE_SECURE")); err != nil {
		errs = append(errs, fmt.Errorf("COOKIE_SECURE: %w", err))
	}
	if cfg.AutoMigrate, err = parseBool(env("AUTO_MIGRATE")); err != nil {
		errs = append(errs, fmt.Errorf("AUTO_MIGRATE: %w", err))
	}

	cfg.SMTP = SMTPConfig{
		Host:     env("SMTP_HOST"),
		Username: env("SMTP_USERNAME"),
		Password: getenv("SMTP_PASSWORD"),
		From:     env("SMTP_FROM"),
	}
	if cfg.SMTP.Enabled() {
		port, perr := strconv.Atoi(orDefault("SMTP_PORT", "587"))
		if perr != nil {
			errs = append(errs, fmt.Errorf("SMTP_PORT: %w", perr))
		}
		cfg.SMTP.Port = port
		if cfg.SMTP.From == "" {
			cfg.SMTP.From = cfg.SMTP.Username
		}
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

func resolveDSN(driver string, env func(string) string) (string, string, error) {
	switch driver {
	case "mysql":
		return resolveMySQLDSN(env)
	case "postgres":
		raw := env("DATABASE_URL")
		if raw == "" {
			return "", "", errors.New("DATABASE_URL is required for postgres")
		}
		return raw, "", nil
	default:
		return "", "", fmt.Errorf("DB_DRIVER %q is not supported", driver)
	}
}

func parseList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseDuration(raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.New("must be positive")
	}
	return d, nil
}

func parseBool(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
