// Package sqlstore implements the studio repositories on database/sql. The same
// code serves the hosted libSQL database and a local or in-memory SQLite file.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"neonfit/studio-tracker/internal/repository"
	"strings"

	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Driver names registered by the imported database/sql drivers.
const (
	DriverSQLite = "sqlite"
	DriverLibSQL = "libsql"
)

// Open connects to the database, verifies it with a ping and runs migrations.
// For DriverLibSQL dsn is the database URL; a non-empty authToken is appended
// as the authToken query parameter. For DriverSQLite dsn is a file path or
// ":memory:".
func Open(ctx context.Context, driver, dsn, authToken string) (*sql.DB, error) {
	var source string
	switch driver {
	case DriverLibSQL:
		source = withAuthToken(dsn, authToken)
	case DriverSQLite:
		source = sqliteSource(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if driver == DriverSQLite {
		// every pooled connection to :memory: would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

// NewStore wires the studio repositories onto db. Closing the store closes db.
func NewStore(db *sql.DB) *repository.Store {
	return &repository.Store{
		Members:  NewMemberRepository(db),
		Workouts: NewWorkoutRepository(db),
		Users:    NewUserRepository(db),
		Close:    func(context.Context) error { return db.Close() },
	}
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}

func sqliteSource(path string) string {
	const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path == ":memory:" {
		return path + "?" + pragmas
	}
	return path + "?" + pragmas + "&_pragma=journal_mode(WAL)"
}

func withAuthToken(url, token string) string {
	if token == "" {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "authToken=" + token
}

// isUniqueViolation matches the constraint message shared by SQLite and libSQL.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
