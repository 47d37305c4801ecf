package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/Spok95/gestion-vente/internal/domain/articles"
	"github.com/Spok95/gestion-vente/internal/domain/invoices"
)

const stampLayout = "20060102_150405"

var (
	titleText  = props.Text{Size: 18, Style: fontstyle.Bold, Align: align.Center}
	headText   = props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Center, Top: 1}
	cellText   = props.Text{Size: 9, Align: align.Center, Top: 1}
	leftText   = props.Text{Size: 10, Align: align.Left}
	footerText = props.Text{Size: 8, Style: fontstyle.Italic, Align: align.Center}
)

func newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()
	return maroto.New(cfg)
}

// InvoicePDF сохраняет счёт в dir/Facture_<id>_<stamp>.pdf и возвращает путь.
func InvoicePDF(inv invoices.Invoice, lines []invoices.LineDetail, dir string, now time.Time) (string, error) {
	m := newDocument()

	m.AddRows(text.NewRow(14, fmt.Sprintf("FACTURE N° %d", inv.ID), titleText))
	m.AddRows(
		text.NewRow(6, "Client : "+inv.Client, leftText),
		text.NewRow(6, "Date : "+inv.Date.Format("2006-01-02"), leftText),
		text.NewRow(6, "Date d'impression : "+now.Format("2006-01-02 15:04:05"), leftText),
	)
	m.AddRows(line.NewRow(4))

	m.AddRow(8,
		text.NewCol(3, "Article", headText),
		text.NewCol(2, "Unité", headText),
		text.NewCol(1, "Qté", headText),
		text.NewCol(2, "Prix unitaire", headText),
		text.NewCol(2, "Total", headText),
		text.NewCol(2, "Entrepôt", headText),
	)
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal)
		wh := "-"
		if l.WarehouseName != nil {
			wh = *l.WarehouseName
		}
		m.AddRow(7,
			text.NewCol(3, l.ArticleName, cellText),
			text.NewCol(2, l.UnitLabel, cellText),
			text.NewCol(1, Qty(l.Quantity), cellText),
			text.NewCol(2, Money(l.UnitPrice), cellText),
			text.NewCol(2, Money(l.LineTotal), cellText),
			text.NewCol(2, wh, cellText),
		)
	}
	m.AddRows(line.NewRow(4))
	m.AddRows(row.New(8).Add(
		col.New(6),
		text.NewCol(2, "TOTAL", headText),
		text.NewCol(4, Money(inv.Total), headText),
	))
	if err := m.RegisterFooter(text.NewRow(8, "Merci pour votre confiance", footerText)); err != nil {
		return "", err
	}

	return save(m, dir, fmt.Sprintf("Facture_%d_%s.pdf", inv.ID, now.Format(stampLayout)))
}

// InventoryPDF: список активных артикулов с ценами и складами.
func InventoryPDF(rows []articles.InventoryRow, dir string, now time.Time) (string, error) {
	m := newDocument()

	m.AddRows(text.NewRow(14, "INVENTAIRE", titleText))
	m.AddRows(text.NewRow(6, "Édité le "+now.Format("2006-01-02 15:04"), leftText))
	m.AddRows(line.NewRow(4))

	m.AddRow(8,
		text.NewCol(1, "ID", headText),
		text.NewCol(3, "Article", headText),
		text.NewCol(2, "Référence", headText),
		text.NewCol(4, "Unités et prix", headText),
		text.NewCol(2, "Entrepôt", headText),
	)
	for _, r := range rows {
		wh := "Non assigné"
		if r.WarehouseName != nil {
			wh = *r.WarehouseName
		}
		m.AddRow(7,
			text.NewCol(1, fmt.Sprint(r.ID), cellText),
			text.NewCol(3, r.Name, cellText),
			text.NewCol(2, r.Reference, cellText),
			text.NewCol(4, UnitPrices(r.Units), cellText),
			text.NewCol(2, wh, cellText),
		)
	}
	m.AddRows(line.NewRow(4))
	m.AddRows(text.NewRow(8, fmt.Sprintf("Articles actifs : %d", len(rows)), leftText))

	return save(m, dir, "Inventaire_"+now.Format(stampLayout)+".pdf")
}

func save(m core.Maroto, dir, name string) (string, error) {
	doc, err := m.Generate()
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, doc.GetBytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
