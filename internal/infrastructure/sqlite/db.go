// Package sqlite implementa los repositorios del ledger sobre SQLite
// (driver modernc.org/sqlite, sin cgo). Pensado para despliegues de una sola
// instancia y para pruebas locales.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Querier es lo común entre *sql.DB y *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Las fechas se guardan como TEXT con ancho fijo para que ORDER BY sea cronológico.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Open abre (o crea) la base en path. SQLite admite un solo escritor, así que
// el pool se limita a una conexión: las transacciones quedan serializadas.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		path = "precast.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Parse(time.RFC3339Nano, s)
	}
	return t, nil
}

func isUniqueViolation(err error) bool {
	return hasConstraint(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE, "UNIQUE") ||
		hasConstraint(err, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, "UNIQUE")
}

func isForeignKeyViolation(err error) bool {
	return hasConstraint(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, "FOREIGN KEY")
}

func hasConstraint(err error, code int, marker string) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == code || strings.Contains(se.Error(), marker+" constraint failed")
	}
	return err != nil && strings.Contains(err.Error(), marker+" constraint failed")
}
