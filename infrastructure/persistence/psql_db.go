package persistence

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"yt-channel-fetcher/infrastructure/configuration"
	"yt-channel-fetcher/infrastructure/logger"

	_ "github.com/lib/pq"
)

// PostgresDSN builds a lib/pq connection URL from the database config.
func PostgresDSN(db configuration.Db) string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(db.User, db.Password),
		Host:   fmt.Sprintf("%s:%s", db.Host, db.Port),
		Path:   db.Name,
	}
	q := u.Query()
	q.Set("sslmode", db.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func NewPostgreSQLDB(db configuration.Db) (*sql.DB, error) {
	if db.Host == "" || db.Name == "" {
		return nil, fmt.Errorf("postgres host and database name are required")
	}
	conn, err := sql.Open("postgres", PostgresDSN(db))
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(30 * time.Minute)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping postgres at %s: %w", db.Host, err)
	}
	logger.GetLogger().WithFields(map[string]interface{}{"host": db.Host, "database": db.Name}).Info("PostgreSQL connected")
	return conn, nil
}
