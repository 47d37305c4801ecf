package sales

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CartItem: позиция продажи с ценой, зафиксированной в момент добавления.
type CartItem struct {
	ArticleID   int64
	ArticleName string
	UnitID      int64
	UnitLabel   string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// Cart: корзина текущей продажи. Одинаковые позиции не сливаются.
type Cart struct {
	Items []CartItem
}

func (c *Cart) Add(it CartItem) { c.Items = append(c.Items, it) }

func (c *Cart) Remove(i int) error {
	if i < 0 || i >= len(c.Items) {
		return fmt.Errorf("cart has no item %d", i)
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return nil
}

func (c *Cart) Clear() { c.Items = nil }

func (c *Cart) Len() int { return len(c.Items) }

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.LineTotal)
	}
	return total
}
