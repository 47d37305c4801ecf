package prices

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/Spok95/gestion-vente/internal/infra/db"
)

type Repo struct{ db *sqlx.DB }

func NewRepo(db *sqlx.DB) *Repo { return &Repo{db: db} }

func (r *Repo) ListByArticle(ctx context.Context, articleID int64) ([]Price, error) {
	var out []Price
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(`
		SELECT p.id, p.article_id, p.unite_id, p.prix_unitaire, u.code, u.libelle
		FROM prix_article p
		JOIN unite u ON u.id = p.unite_id
		WHERE p.article_id = ?
		ORDER BY u.libelle
	`), articleID); err != nil {
		return nil, err
	}
	return out, nil
}

// UnitsForArticle: единицы, для которых у артикула есть цена.
func (r *Repo) UnitsForArticle(ctx context.Context, articleID int64) ([]UnitPrice, error) {
	var out []UnitPrice
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(`
		SELECT u.id AS unite_id, u.code, u.libelle, p.prix_unitaire
		FROM prix_article p
		JOIN unite u ON u.id = p.unite_id
		WHERE p.article_id = ?
		ORDER BY u.libelle
	`), articleID); err != nil {
		return nil, err
	}
	return out, nil
}

// UnitPrice возвращает ok=false, если цена для пары не задана. Ноль считается ценой.
func (r *Repo) UnitPrice(ctx context.Context, articleID, unitID int64) (decimal.Decimal, bool, error) {
	var p decimal.Decimal
	err := r.db.GetContext(ctx, &p, r.db.Rebind(`
		SELECT prix_unitaire FROM prix_article WHERE article_id = ? AND unite_id = ?
	`), articleID, unitID)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	return p, true, nil
}

// Create: повтор пары (артикул, единица) даёт db.ErrConflict.
func (r *Repo) Create(ctx context.Context, articleID, unitID int64, price decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO prix_article (article_id, unite_id, prix_unitaire) VALUES (?, ?, ?)
	`), articleID, unitID, price)
	return db.Classify(err)
}

func (r *Repo) Update(ctx context.Context, articleID, unitID int64, price decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE prix_article SET prix_unitaire = ? WHERE article_id = ? AND unite_id = ?
	`), price, articleID, unitID)
	if err != nil {
		return db.Classify(err)
	}
	return db.ExpectRows(res)
}

func (r *Repo) Delete(ctx context.Context, articleID, unitID int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		DELETE FROM prix_article WHERE article_id = ? AND unite_id = ?
	`), articleID, unitID)
	if err != nil {
		return db.Classify(err)
	}
	return db.ExpectRows(res)
}

// DeleteByArticle снимает все цены артикула; отсутствие цен не ошибка.
func (r *Repo) DeleteByArticle(ctx context.Context, articleID int64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM prix_article WHERE article_id = ?`), articleID)
	return db.Classify(err)
}

// Sheet: прайс-лист активных артикулов: по названию, внутри по единице.
func (r *Repo) Sheet(ctx context.Context) ([]SheetRow, error) {
	var out []SheetRow
	if err := r.db.SelectContext(ctx, &out, `
		SELECT a.id AS article_id, a.reference, a.nom, u.code, u.libelle, p.prix_unitaire
		FROM prix_article p
		JOIN article a ON a.id = p.article_id
		JOIN unite u ON u.id = p.unite_id
		WHERE a.actif = TRUE
		ORDER BY a.nom, u.libelle
	`); err != nil {
		return nil, err
	}
	return out, nil
}
