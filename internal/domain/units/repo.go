package units

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/Spok95/gestion-vente/internal/infra/db"
)

type Repo struct{ db *sqlx.DB }

func NewRepo(db *sqlx.DB) *Repo { return &Repo{db: db} }

func (r *Repo) List(ctx context.Context) ([]Unit, error) {
	var out []Unit
	if err := r.db.SelectContext(ctx, &out, `
		SELECT id, code, libelle
		FROM unite
		ORDER BY libelle
	`); err != nil {
		return nil, err
	}
	return out, nil
}

// Create: дубликат кода даёт db.ErrConflict, существующая строка не меняется.
func (r *Repo) Create(ctx context.Context, code, label string) (*Unit, error) {
	u := Unit{Code: code, Label: label}
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`
		INSERT INTO unite (code, libelle) VALUES (?, ?)
		RETURNING id
	`), code, label).Scan(&u.ID)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &u, nil
}

func (r *Repo) Update(ctx context.Context, id int64, code, label string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE unite SET code = ?, libelle = ? WHERE id = ?
	`), code, label, id)
	if err != nil {
		return db.Classify(err)
	}
	return db.ExpectRows(res)
}

// Delete полагается на внешний ключ prix_article.unite_id: занятая единица даёт db.ErrInUse.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM unite WHERE id = ?`), id)
	if err != nil {
		return db.Classify(err)
	}
	return db.ExpectRows(res)
}

func (r *Repo) GetByCode(ctx context.Context, code string) (*Unit, error) {
	var u Unit
	err := r.db.GetContext(ctx, &u, r.db.Rebind(`
		SELECT id, code, libelle FROM unite WHERE code = ?
	`), code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Unit, error) {
	var u Unit
	err := r.db.GetContext(ctx, &u, r.db.Rebind(`
		SELECT id, code, libelle FROM unite WHERE id = ?
	`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
