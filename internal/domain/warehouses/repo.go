package warehouses

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/Spok95/gestion-vente/internal/infra/db"
)

type Repo struct{ db *sqlx.DB }

func NewRepo(db *sqlx.DB) *Repo { return &Repo{db: db} }

func (r *Repo) List(ctx context.Context) ([]Warehouse, error) {
	var out []Warehouse
	if err := r.db.SelectContext(ctx, &out, `
		SELECT id, nom, localisation FROM entrepot ORDER BY nom
	`); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Create(ctx context.Context, name string, location *string) (int64, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`
		INSERT INTO entrepot (nom, localisation) VALUES (?, ?)
		RETURNING id
	`), name, location).Scan(&id)
	if err != nil {
		return 0, db.Classify(err)
	}
	return id, nil
}

func (r *Repo) Update(ctx context.Context, id int64, name string, location *string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE entrepot SET nom = ?, localisation = ? WHERE id = ?
	`), name, location, id)
	if err != nil {
		return db.Classify(err)
	}
	return db.ExpectRows(res)
}

// Delete: склад, на который ещё ссылаются артикулы, даёт db.ErrInUse.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM entrepot WHERE id = ?`), id)
	if err != nil {
		return db.Classify(err)
	}
	return db.ExpectRows(res)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Warehouse, error) {
	var w Warehouse
	err := r.db.GetContext(ctx, &w, r.db.Rebind(`
		SELECT id, nom, localisation FROM entrepot WHERE id = ?
	`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Stats считает показатели склада на момент вызова. Продажи учитывают
// и строки счетов по уже деактивированным артикулам.
func (r *Repo) Stats(ctx context.Context, id int64) (*Stats, error) {
	var st Stats

	if err := r.db.GetContext(ctx, &st.ActiveArticles, r.db.Rebind(`
		SELECT COUNT(*) FROM article WHERE entrepot_id = ? AND actif = TRUE
	`), id); err != nil {
		return nil, err
	}
	var totalActive int
	if err := r.db.GetContext(ctx, &totalActive, `SELECT COUNT(*) FROM article WHERE actif = TRUE`); err != nil {
		return nil, err
	}
	st.ArticlePercent = percent(st.ActiveArticles, totalActive)

	// артикул с ценами в N единицах попадает в N групп
	if err := r.db.SelectContext(ctx, &st.ByUnit, r.db.Rebind(`
		SELECT COALESCE(u.libelle, '') AS libelle, COUNT(DISTINCT a.id) AS nb_articles
		FROM article a
		LEFT JOIN prix_article p ON p.article_id = a.id
		LEFT JOIN unite u ON u.id = p.unite_id
		WHERE a.entrepot_id = ? AND a.actif = TRUE
		GROUP BY u.libelle
		ORDER BY nb_articles DESC, libelle
	`), id); err != nil {
		return nil, err
	}
	for i := range st.ByUnit {
		st.ByUnit[i].Percent = percent(st.ByUnit[i].Articles, st.ActiveArticles)
	}

	var sold struct {
		Quantity decimal.Decimal `db:"quantite"`
		Revenue  decimal.Decimal `db:"ventes"`
	}
	if err := r.db.GetContext(ctx, &sold, r.db.Rebind(`
		SELECT COALESCE(SUM(fd.quantite), 0) AS quantite, COALESCE(SUM(fd.prix_total), 0) AS ventes
		FROM facture_detail fd
		JOIN article a ON a.id = fd.article_id
		WHERE a.entrepot_id = ?
	`), id); err != nil {
		return nil, err
	}
	st.SoldQuantity = sold.Quantity.Round(2)
	st.Revenue = sold.Revenue.Round(2)
	return &st, nil
}

// percent округляет до сотых; пустое целое даёт 0.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)*10000/float64(whole)) / 100
}
