package articles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/Spok95/gestion-vente/internal/infra/db"
)

type Repo struct {
	db  *sqlx.DB
	log *slog.Logger
}

func NewRepo(db *sqlx.DB, log *slog.Logger) *Repo { return &Repo{db: db, log: log} }

const selectArticle = `SELECT id, nom, reference, actif, entrepot_id FROM article`

func (r *Repo) ListActive(ctx context.Context) ([]Article, error) {
	return r.list(ctx, true)
}

func (r *Repo) ListInactive(ctx context.Context) ([]Article, error) {
	return r.list(ctx, false)
}

func (r *Repo) list(ctx context.Context, active bool) ([]Article, error) {
	q := selectArticle + " WHERE actif = TRUE ORDER BY nom"
	if !active {
		q = selectArticle + " WHERE actif = FALSE ORDER BY nom"
	}
	var out []Article
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// ListWithWarehouse: активные артикулы с названием склада и ценами, для инвентаризации.
func (r *Repo) ListWithWarehouse(ctx context.Context) ([]InventoryRow, error) {
	return r.inventory(ctx, nil)
}

// ListByWarehouse: активные артикулы одного склада с их ценами.
func (r *Repo) ListByWarehouse(ctx context.Context, warehouseID int64) ([]InventoryRow, error) {
	return r.inventory(ctx, &warehouseID)
}

func (r *Repo) inventory(ctx context.Context, warehouseID *int64) ([]InventoryRow, error) {
	where, args := "a.actif = TRUE", []any{}
	if warehouseID != nil {
		where += " AND a.entrepot_id = ?"
		args = append(args, *warehouseID)
	}

	out := []InventoryRow{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(`
		SELECT a.id, a.nom, a.reference, e.nom AS entrepot_nom
		FROM article a
		LEFT JOIN entrepot e ON e.id = a.entrepot_id
		WHERE `+where+`
		ORDER BY a.nom
	`), args...); err != nil {
		return nil, err
	}

	var units []PricedUnit
	if err := r.db.SelectContext(ctx, &units, r.db.Rebind(`
		SELECT pa.article_id, u.libelle, pa.prix_unitaire
		FROM prix_article pa
		JOIN unite u ON u.id = pa.unite_id
		JOIN article a ON a.id = pa.article_id
		WHERE `+where+`
		ORDER BY u.libelle
	`), args...); err != nil {
		return nil, err
	}

	byArticle := make(map[int64][]PricedUnit, len(out))
	for _, u := range units {
		byArticle[u.ArticleID] = append(byArticle[u.ArticleID], u)
	}
	for i := range out {
		out[i].Units = byArticle[out[i].ID]
		if out[i].Units == nil {
			out[i].Units = []PricedUnit{}
		}
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Article, error) {
	return r.get(ctx, selectArticle+" WHERE id = ?", id)
}

func (r *Repo) GetByReference(ctx context.Context, ref string) (*Article, error) {
	return r.get(ctx, selectArticle+" WHERE reference = ?", ref)
}

func (r *Repo) get(ctx context.Context, q string, arg any) (*Article, error) {
	var a Article
	if err := r.db.GetContext(ctx, &a, r.db.Rebind(q), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Create: дубликат референса даёт db.ErrConflict.
func (r *Repo) Create(ctx context.Context, name, reference string, warehouseID *int64) (int64, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`
		INSERT INTO article (nom, reference, entrepot_id) VALUES (?, ?, ?)
		RETURNING id
	`), name, reference, warehouseID).Scan(&id)
	if err != nil {
		return 0, db.Classify(err)
	}
	return id, nil
}

func (r *Repo) Update(ctx context.Context, id int64, name, reference string, warehouseID *int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE article SET nom = ?, reference = ?, entrepot_id = ? WHERE id = ?
	`), name, reference, warehouseID, id)
	if err != nil {
		return db.Classify(err)
	}
	return db.ExpectRows(res)
}

// SoftDelete помечает артикул неактивным. Сначала проверяет, что он существует,
// и пишет в лог статус до и после.
func (r *Repo) SoftDelete(ctx context.Context, id int64) error {
	before, err := r.activeFlag(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		r.log.Warn("article not found", "article_id", id)
		return db.ErrNotFound
	}
	if err != nil {
		r.log.Error("article deactivation failed", "article_id", id, "err", err)
		return err
	}
	r.log.Debug("article status before deactivation", "article_id", id, "active", before)

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE article SET actif = FALSE WHERE id = ?`), id); err != nil {
		r.log.Error("article deactivation failed", "article_id", id, "err", err)
		return db.Classify(err)
	}

	after, err := r.activeFlag(ctx, id)
	if err != nil {
		return err
	}
	r.log.Info("article deactivated", "article_id", id, "active_before", before, "active_after", after)
	return nil
}

func (r *Repo) activeFlag(ctx context.Context, id int64) (bool, error) {
	var active bool
	err := r.db.GetContext(ctx, &active, r.db.Rebind(`SELECT actif FROM article WHERE id = ?`), id)
	return active, err
}

func (r *Repo) Reactivate(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE article SET actif = TRUE WHERE id = ?`), id)
	if err != nil {
		r.log.Error("article reactivation failed", "article_id", id, "err", err)
		return db.Classify(err)
	}
	return db.ExpectRows(res)
}

// HardDelete удаляет цены, строки счетов и сам артикул одной транзакцией.
// Любая ошибка откатывает всё: частичного каскада не бывает.
func (r *Repo) HardDelete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM prix_article WHERE article_id = ?`), id); err != nil {
		return r.purgeFailed(id, "prices", err)
	}
	if _, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM facture_detail WHERE article_id = ?`), id); err != nil {
		return r.purgeFailed(id, "invoice lines", err)
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM article WHERE id = ?`), id)
	if err != nil {
		return r.purgeFailed(id, "article", err)
	}
	if err := db.ExpectRows(res); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return r.purgeFailed(id, "commit", err)
	}
	r.log.Info("article deleted permanently", "article_id", id)
	return nil
}

func (r *Repo) purgeFailed(id int64, step string, err error) error {
	r.log.Error("permanent article deletion rolled back", "article_id", id, "step", step, "err", err)
	return fmt.Errorf("delete %s: %w", step, db.Classify(err))
}
