package articles

import "github.com/shopspring/decimal"

// Article: товарная позиция. Удаление по умолчанию мягкое (Active=false),
// чтобы исторические строки счетов продолжали ссылаться на артикул.
type Article struct {
	ID          int64  `db:"id"`
	Name        string `db:"nom"`
	Reference   string `db:"reference"`
	Active      bool   `db:"actif"`
	WarehouseID *int64 `db:"entrepot_id"`
}

// InventoryRow: активный артикул с названием склада (nil, если склад не назначен)
// и единицами, в которых у него есть цена. Пустой Units значит «нет ни одной цены».
type InventoryRow struct {
	ID            int64        `db:"id" json:"id"`
	Name          string       `db:"nom" json:"name"`
	Reference     string       `db:"reference" json:"reference"`
	WarehouseName *string      `db:"entrepot_nom" json:"warehouse,omitempty"`
	Units         []PricedUnit `db:"-" json:"units"`
}

type PricedUnit struct {
	ArticleID int64           `db:"article_id" json:"-"`
	Label     string          `db:"libelle" json:"label"`
	Price     decimal.Decimal `db:"prix_unitaire" json:"price"`
}
