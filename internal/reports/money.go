// Package reports: печатные и табличные формы: счета, инвентаризация, прайс-лист.
package reports

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Spok95/gestion-vente/internal/domain/articles"
)

var printer = message.NewPrinter(language.English)

// Money форматирует сумму с разделителями разрядов: 154000 -> "154,000 Ar".
func Money(d decimal.Decimal) string {
	if d.IsInteger() {
		return printer.Sprintf("%d Ar", d.IntPart())
	}
	return printer.Sprintf("%.2f Ar", d.Round(2).InexactFloat64())
}

// Qty печатает количество без лишних нулей: 3, 2.5.
func Qty(d decimal.Decimal) string { return d.String() }

// UnitPrices сводит цены артикула в строку: "Kilogramme : 4,000 Ar | Sac : 150,000 Ar".
func UnitPrices(units []articles.PricedUnit) string {
	if len(units) == 0 {
		return "Aucune unité"
	}
	parts := make([]string, 0, len(units))
	for _, u := range units {
		parts = append(parts, u.Label+" : "+Money(u.Price))
	}
	return strings.Join(parts, " | ")
}
