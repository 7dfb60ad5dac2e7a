package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	maxOpenDbConn = 10
	maxIdleDbConn = 5
	maxDbLifetime = 5 * time.Minute
)

func mysqlDSNFromURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}

	pass, _ := u.User.Password()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", "", fmt.Errorf("mysql url missing database name")
	}

	cfg := newMySQLConfig(u.User.Username(), pass, net.JoinHostPort(u.Hostname(), port), dbName)
	for key, values := range u.Query() {
		if len(values) > 0 && key != "parseTime" && key != "loc" {
			cfg.Params[key] = values[0]
		}
	}
	return cfg.FormatDSN(), dbName, nil
}

// newMySQLConfig always parses DATE/DATETIME into time.Time in UTC so
// booking dates round-trip without a local-zone shift.
func newMySQLConfig(user, pass, addr, dbName string) *gomysql.Config {
	cfg := gomysql.NewConfig()
	cfg.User = user
	cfg.Passwd = pass
	cfg.Net = "tcp"
	cfg.Addr = addr
	cfg.DBName = dbName
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg
}

func resolveMySQLDSN(env func(string) string) (string, string, error) {
	raw := env("MYSQL_URL")
	if raw == "" {
		raw = env("DATABASE_URL")
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		parsed, err := gomysql.ParseDSN(raw)
		if err != nil {
			return "", "", fmt.Errorf("DATABASE_URL: %w", err)
		}
		return raw, parsed.DBName, nil
	}

	user := env("DB_USER")
	dbName := env("DB_NAME")
	if user == "" || dbName == "" {
		return "", "", errors.New("DATABASE_URL (or DB_USER and DB_NAME) is required")
	}
	host := env("DB_HOST")
	if host == "" {
		host = "127.0.0.1"
	}
	port := env("DB_PORT")
	if port == "" {
		port = "3306"
	}

	cfg := newMySQLConfig(user, env("DB_PASS"), net.JoinHostPort(host, port), dbName)
	return cfg.FormatDSN(), dbName, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// ConnectDatabase opens the pool described by cfg. Schema changes are not
// applied here; see package migrations.
func ConnectDatabase(cfg Config) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogLevel(cfg.DBLogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(cfg.DatabaseDSN)
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("cannot get raw sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenDbConn)
	sqlDB.SetMaxIdleConns(maxIdleDbConn)
	sqlDB.SetConnMaxLifetime(maxDbLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
