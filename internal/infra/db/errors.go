package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
	// ErrInUse: строка нужна другим таблицам (внешний ключ) или нарушено иное ограничение.
	ErrInUse = errors.New("constraint violation")
)

// Classify переводит ошибку драйвера в ErrConflict / ErrInUse, сохраняя исходную причину.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %w", ErrConflict, err)
		default:
			return fmt.Errorf("%w: %w", ErrInUse, err)
		}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %w", ErrConflict, err)
		case "23503", "23502", "23514":
			return fmt.Errorf("%w: %w", ErrInUse, err)
		}
	}
	return err
}

// ExpectRows возвращает ErrNotFound, если запрос не затронул ни одной строки.
func ExpectRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
