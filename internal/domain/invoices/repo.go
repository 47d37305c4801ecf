package invoices

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/Spok95/gestion-vente/internal/infra/db"
)

const dateLayout = "2006-01-02"

// Repo только сохраняет: проверки и арифметика на стороне вызывающего.
type Repo struct {
	db  *sqlx.DB
	log *slog.Logger
}

func NewRepo(db *sqlx.DB, log *slog.Logger) *Repo { return &Repo{db: db, log: log} }

func (r *Repo) Create(ctx context.Context, client string, date time.Time, total decimal.Decimal) (int64, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`
		INSERT INTO facture (nom_client, date_facture, montant_total) VALUES (?, ?, ?)
		RETURNING id
	`), client, date.Format(dateLayout), total).Scan(&id)
	if err != nil {
		r.log.Error("invoice create failed", "client", client, "err", err)
		return 0, db.Classify(err)
	}
	return id, nil
}

// AddLine пишет строку как есть; LineTotal считает вызывающий.
func (r *Repo) AddLine(ctx context.Context, l Line) (int64, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`
		INSERT INTO facture_detail (facture_id, article_id, unite_id, quantite, prix_unitaire, prix_total)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`), l.InvoiceID, l.ArticleID, l.UnitID, l.Quantity, l.UnitPrice, l.LineTotal).Scan(&id)
	if err != nil {
		r.log.Error("invoice line insert failed", "invoice_id", l.InvoiceID, "article_id", l.ArticleID, "err", err)
		return 0, db.Classify(err)
	}
	return id, nil
}

// Lines: строки счёта в порядке добавления, с названием артикула, единицы и склада.
func (r *Repo) Lines(ctx context.Context, invoiceID int64) ([]LineDetail, error) {
	var out []LineDetail
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(`
		SELECT fd.id, fd.facture_id, fd.article_id, fd.unite_id, fd.quantite, fd.prix_unitaire, fd.prix_total,
		       a.nom AS article_nom, u.libelle AS unite_libelle, e.nom AS entrepot_nom
		FROM facture_detail fd
		JOIN article a ON a.id = fd.article_id
		JOIN unite u ON u.id = fd.unite_id
		LEFT JOIN entrepot e ON e.id = a.entrepot_id
		WHERE fd.facture_id = ?
		ORDER BY fd.id
	`), invoiceID); err != nil {
		return nil, err
	}
	return out, nil
}

// List: все счета, новые сверху.
func (r *Repo) List(ctx context.Context) ([]Invoice, error) {
	var out []Invoice
	if err := r.db.SelectContext(ctx, &out, `
		SELECT id, nom_client, date_facture, montant_total
		FROM facture
		ORDER BY date_facture DESC, id DESC
	`); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Invoice, error) {
	var inv Invoice
	err := r.db.GetContext(ctx, &inv, r.db.Rebind(`
		SELECT id, nom_client, date_facture, montant_total FROM facture WHERE id = ?
	`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
