package warehouses

import "github.com/shopspring/decimal"

type Warehouse struct {
	ID       int64   `db:"id"`
	Name     string  `db:"nom"`
	Location *string `db:"localisation"`
}

// UnitShare: сколько активных артикулов склада имеют цену в данной единице.
// Label пустой для артикулов без единой цены.
type UnitShare struct {
	Label    string  `db:"libelle" json:"unit"`
	Articles int     `db:"nb_articles" json:"articles"`
	Percent  float64 `db:"-" json:"percent"`
}

type Stats struct {
	ActiveArticles int             `json:"active_articles"`
	ArticlePercent float64         `json:"article_percent"`
	ByUnit         []UnitShare     `json:"by_unit"`
	SoldQuantity   decimal.Decimal `json:"sold_quantity"`
	Revenue        decimal.Decimal `json:"revenue"`
}
