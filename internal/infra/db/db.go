package db

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

//go:embed migrations
var migrations embed.FS

// Connect открывает хранилище: локальный файл SQLite (по умолчанию) или PostgreSQL.
// Для SQLite внешние ключи включаются на каждом соединении.
func Connect(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	var (
		name string
		src  string
	)
	switch driver {
	case "", DriverSQLite:
		if dsn == "" {
			return nil, fmt.Errorf("empty sqlite path")
		}
		path := dsn
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create store dir: %w", err)
			}
		}
		name, src = "sqlite3", sqliteDSN(dsn)
	case DriverPostgres:
		name, src = "pgx", dsn
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}

	conn, err := sqlx.Open(name, src)
	if err != nil {
		return nil, err
	}
	if name == "sqlite3" {
		// один пишущий процесс, иначе SQLITE_BUSY
		conn.SetMaxOpenConns(1)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}
	return conn, nil
}

func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	if !strings.Contains(dsn, "_foreign_keys") && !strings.Contains(dsn, "_fk") {
		dsn += sep + "_foreign_keys=on"
		sep = "&"
	}
	if !strings.Contains(dsn, "_busy_timeout") {
		dsn += sep + "_busy_timeout=5000"
	}
	return dsn
}

// Migrate применяет схему и стартовые данные (goose, миграции встроены в бинарник).
func Migrate(conn *sqlx.DB) error {
	dialect, dir := "sqlite3", "migrations/sqlite"
	if conn.DriverName() == "pgx" {
		dialect, dir = "postgres", "migrations/postgres"
	}
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := goose.Up(conn.DB, dir); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}
