package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalid = errors.New("invalid article")

type PriceInput struct {
	UnitID int64
	Price  decimal.Decimal
}

// ArticleRequest: всё, что нужно для создания или правки артикула вместе с ценами.
type ArticleRequest struct {
	Name        string
	Reference   string
	WarehouseID *int64
	Prices      []PriceInput
}

// Validate обрезает пробелы в названии и референсе и проверяет цены.
func (r *ArticleRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Reference = strings.TrimSpace(r.Reference)

	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if r.Reference == "" {
		return fmt.Errorf("%w: reference is required", ErrInvalid)
	}
	if len(r.Prices) == 0 {
		return fmt.Errorf("%w: at least one price is required", ErrInvalid)
	}
	seen := make(map[int64]bool, len(r.Prices))
	for _, p := range r.Prices {
		if !p.Price.IsPositive() {
			return fmt.Errorf("%w: price for unit %d must be positive, got %s", ErrInvalid, p.UnitID, p.Price)
		}
		if seen[p.UnitID] {
			return fmt.Errorf("%w: unit %d is listed twice", ErrInvalid, p.UnitID)
		}
		seen[p.UnitID] = true
	}
	return nil
}
