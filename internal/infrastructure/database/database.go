// Package database opens and prepares the campaign persistence store.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/logging"
	"github.com/campaignforge/campaignforge-go/pkg/config"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Database wraps the campaign store connection. Turso is used when fully
// configured; local SQLite otherwise.
type Database struct {
	Conn     *sql.DB
	UseTurso bool
	logger   *logging.ChanneledLogger
}

// New opens the campaign database from the central configuration, applies
// pool limits, and ensures the schema exists.
func New(logger *logging.ChanneledLogger) (*Database, error) {
	var conn *sql.DB
	var err error
	var useTurso bool

	if config.TursoEnabled && config.TursoDatabase != "" && config.TursoToken != "" {
		connStr := config.TursoDatabase + "?authToken=" + config.TursoToken
		conn, err = sql.Open("libsql", connStr)
		if err != nil {
			return nil, fmt.Errorf("turso connection failed: %w", err)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("turso ping failed: %w", err)
		}
		useTurso = true
	} else {
		dbDir := filepath.Dir(config.CampaignDBPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}

		conn, err = sql.Open("sqlite3", config.CampaignDBPath)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection failed: %w", err)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite ping failed: %w", err)
		}
	}

	conn.SetMaxOpenConns(config.DBMaxOpenConns)
	conn.SetMaxIdleConns(config.DBMaxIdleConns)
	conn.SetConnMaxLifetime(time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute)
	conn.SetConnMaxIdleTime(time.Duration(config.DBConnMaxIdleMinutes) * time.Minute)

	db := &Database{Conn: conn, UseTurso: useTurso, logger: logger}

	if err := db.ensureSchema(); err != nil {
		conn.Close()
		return nil, err
	}

	if logger != nil {
		logger.Database().Info("Campaign database ready", "backend", db.ConnectionInfo())
	}
	return db, nil
}

func (db *Database) ensureSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS campaigns (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		changed_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_campaigns_user_id ON campaigns(user_id);`

	if _, err := db.Conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create campaigns schema: %w", err)
	}
	return nil
}

// ConnectionInfo describes the active backend for logs and health output.
func (db *Database) ConnectionInfo() string {
	if db.UseTurso {
		return "Turso"
	}
	return "SQLite"
}

// Health reports connection liveness and pool statistics.
func (db *Database) Health() map[string]any {
	stats := db.Conn.Stats()
	return map[string]any{
		"healthy":      db.Conn.Ping() == nil,
		"backend":      db.ConnectionInfo(),
		"open":         stats.OpenConnections,
		"inUse":        stats.InUse,
		"idle":         stats.Idle,
		"waitCount":    stats.WaitCount,
		"waitDuration": stats.WaitDuration.String(),
	}
}

// Close closes the underlying connection.
func (db *Database) Close() error {
	if db.Conn != nil {
		return db.Conn.Close()
	}
	return nil
}
