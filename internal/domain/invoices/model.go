package invoices

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice: шапка счёта. Total хранится как передан при создании и не пересчитывается.
type Invoice struct {
	ID     int64           `db:"id" json:"id"`
	Client string          `db:"nom_client" json:"client"`
	Date   time.Time       `db:"date_facture" json:"date"`
	Total  decimal.Decimal `db:"montant_total" json:"total"`
}

// Line: строка счёта. Цена и сумма фиксируются в момент продажи и
// не меняются при последующих правках прайса.
type Line struct {
	ID        int64           `db:"id" json:"id"`
	InvoiceID int64           `db:"facture_id" json:"invoice_id"`
	ArticleID int64           `db:"article_id" json:"article_id"`
	UnitID    int64           `db:"unite_id" json:"unit_id"`
	Quantity  decimal.Decimal `db:"quantite" json:"quantity"`
	UnitPrice decimal.Decimal `db:"prix_unitaire" json:"unit_price"`
	LineTotal decimal.Decimal `db:"prix_total" json:"line_total"`
}

type LineDetail struct {
	Line
	ArticleName   string  `db:"article_nom" json:"article"`
	UnitLabel     string  `db:"unite_libelle" json:"unit"`
	WarehouseName *string `db:"entrepot_nom" json:"warehouse,omitempty"`
}
