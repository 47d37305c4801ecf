// Package dbtest открывает временную базу со схемой и стартовыми данными для тестов.
package dbtest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Spok95/gestion-vente/internal/infra/db"
)

// PostgresDSNEnv задаёт сервер PostgreSQL для тестов; без него такие тесты пропускаются.
const PostgresDSNEnv = "APP_TEST_POSTGRES_DSN"

func Open(tb testing.TB) *sqlx.DB {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "vente.db")
	conn, err := db.Connect(context.Background(), db.DriverSQLite, path)
	if err != nil {
		tb.Fatalf("connect: %v", err)
	}
	tb.Cleanup(func() { _ = conn.Close() })
	if err := db.Migrate(conn); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return conn
}

// OpenPostgres создаёт отдельную схему на сервере из APP_TEST_POSTGRES_DSN,
// мигрирует её и удаляет после теста.
func OpenPostgres(tb testing.TB) *sqlx.DB {
	tb.Helper()
	dsn := os.Getenv(PostgresDSNEnv)
	if dsn == "" {
		tb.Skipf("%s not set", PostgresDSNEnv)
	}
	ctx := context.Background()

	admin, err := db.Connect(ctx, db.DriverPostgres, dsn)
	if err != nil {
		tb.Fatalf("connect: %v", err)
	}
	tb.Cleanup(func() { _ = admin.Close() })

	schema := fmt.Sprintf("vente_test_%d", time.Now().UnixNano())
	if _, err := admin.Exec("CREATE SCHEMA " + schema); err != nil {
		tb.Fatalf("create schema: %v", err)
	}

	conn, err := db.Connect(ctx, db.DriverPostgres, withSearchPath(dsn, schema))
	if err != nil {
		tb.Fatalf("connect %s: %v", schema, err)
	}
	// порядок важен: сначала закрыть рабочее соединение, потом удалить схему
	tb.Cleanup(func() {
		_ = conn.Close()
		_, _ = admin.Exec("DROP SCHEMA " + schema + " CASCADE")
	})
	if err := db.Migrate(conn); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return conn
}

// withSearchPath дописывает search_path и в URL, и в формат key=value.
func withSearchPath(dsn, schema string) string {
	if strings.Contains(dsn, "://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "search_path=" + schema
	}
	return dsn + " search_path=" + schema
}

// Each запускает f на каждом хранилище: SQLite всегда, PostgreSQL при заданном DSN.
func Each(t *testing.T, f func(t *testing.T, conn *sqlx.DB)) {
	t.Helper()
	t.Run("sqlite", func(t *testing.T) { f(t, Open(t)) })
	t.Run("postgres", func(t *testing.T) { f(t, OpenPostgres(t)) })
}

// ID возвращает id строки по уникальному значению колонки, например ID(t, conn, "unite", "code", "KG").
func ID(tb testing.TB, conn *sqlx.DB, table, column, value string) int64 {
	tb.Helper()
	var id int64
	q := conn.Rebind("SELECT id FROM " + table + " WHERE " + column + " = ?")
	if err := conn.Get(&id, q, value); err != nil {
		tb.Fatalf("lookup %s.%s=%q: %v", table, column, value, err)
	}
	return id
}
