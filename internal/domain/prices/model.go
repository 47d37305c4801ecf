package prices

import "github.com/shopspring/decimal"

// Price: цена артикула за одну единицу измерения; пара (артикул, единица) уникальна.
type Price struct {
	ID        int64           `db:"id"`
	ArticleID int64           `db:"article_id"`
	UnitID    int64           `db:"unite_id"`
	UnitPrice decimal.Decimal `db:"prix_unitaire"`
	UnitCode  string          `db:"code"`
	UnitLabel string          `db:"libelle"`
}

// UnitPrice: единица, в которой продаётся артикул, вместе с текущей ценой.
type UnitPrice struct {
	UnitID int64           `db:"unite_id"`
	Code   string          `db:"code"`
	Label  string          `db:"libelle"`
	Price  decimal.Decimal `db:"prix_unitaire"`
}

// SheetRow: строка прайс-листа для выгрузки в xlsx.
type SheetRow struct {
	ArticleID int64           `db:"article_id"`
	Reference string          `db:"reference"`
	Name      string          `db:"nom"`
	UnitCode  string          `db:"code"`
	UnitLabel string          `db:"libelle"`
	Price     decimal.Decimal `db:"prix_unitaire"`
}
