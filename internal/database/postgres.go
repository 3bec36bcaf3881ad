package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/themizzi/sitesearch/internal/config"
	_ "github.com/lib/pq"
)

// Connect opens and verifies a connection pool to the film catalog database
func Connect(ctx context.Context, cfg *config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Read-only lookups; a small pool is plenty
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
