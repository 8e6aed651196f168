// internal/common/database/postgres.go
// PostgreSQL connection and pool configuration

package database

import (
    "database/sql"
    "fmt"
    "time"

    _ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresConfig holds connection pool settings.
type PostgresConfig struct {
    URL          string
    MaxOpenConns int
    MaxIdleConns int
    MaxLifetime  time.Duration
}

// DefaultPostgresConfig returns pool settings suitable for a single API instance.
func DefaultPostgresConfig(url string) *PostgresConfig {
    return &PostgresConfig{
        URL:          url,
        MaxOpenConns: 25,
        MaxIdleConns: 5,
        MaxLifetime:  5 * time.Minute,
    }
}

// NewPostgresDB opens a connection pool and verifies it with a ping.
func NewPostgresDB(config *PostgresConfig) (*sql.DB, error) {
    db, err := sql.Open("postgres", config.URL)
    if err != nil {
        return nil, fmt.Errorf("failed to open database: %w", err)
    }

    db.SetMaxOpenConns(config.MaxOpenConns)
    db.SetMaxIdleConns(config.MaxIdleConns)
    db.SetConnMaxLifetime(config.MaxLifetime)

    if err := db.Ping(); err != nil {
        return nil, fmt.Errorf("failed to ping database: %w", err)
    }

    return db, nil
}
