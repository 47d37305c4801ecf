package reports_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Spok95/gestion-vente/internal/domain/articles"
	"github.com/Spok95/gestion-vente/internal/domain/invoices"
	"github.com/Spok95/gestion-vente/internal/domain/prices"
	"github.com/Spok95/gestion-vente/internal/reports"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func jean() (invoices.Invoice, []invoices.LineDetail) {
	wh := "Entrepôt Principal"
	inv := invoices.Invoice{ID: 7, Client: "Jean", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Total: dec("154000")}
	lines := []invoices.LineDetail{
		{
			Line:          invoices.Line{Quantity: dec("1"), UnitPrice: dec("150000"), LineTotal: dec("150000")},
			ArticleName:   "Riz",
			UnitLabel:     "Sac",
			WarehouseName: &wh,
		},
		{
			Line:        invoices.Line{Quantity: dec("1"), UnitPrice: dec("4000"), LineTotal: dec("4000")},
			ArticleName: "Sucre",
			UnitLabel:   "Kilogramme",
		},
	}
	return inv, lines
}

func TestMoney(t *testing.T) {
	c := qt.New(t)
	c.Assert(reports.Money(dec("154000")), qt.Equals, "154,000 Ar")
	c.Assert(reports.Money(dec("7500")), qt.Equals, "7,500 Ar")
	c.Assert(reports.Money(dec("12.5")), qt.Equals, "12.50 Ar")
	c.Assert(reports.Qty(dec("2.50")), qt.Equals, "2.5")
}

func TestInvoiceText(t *testing.T) {
	c := qt.New(t)
	inv, lines := jean()

	var buf bytes.Buffer
	c.Assert(reports.InvoiceText(&buf, inv, lines), qt.IsNil)

	got := strings.Split(buf.String(), "\n")
	c.Assert(got[0], qt.Equals, "===== FACTURE =====")
	c.Assert(got[1], qt.Equals, "Numéro : 7")
	c.Assert(got[2], qt.Equals, "Client : Jean")
	c.Assert(got[3], qt.Equals, "Date : 2024-01-01")
	c.Assert(got[7], qt.Equals, "Article              Unité      Qté   P.U.       Total     ")
	c.Assert(got[9], qt.Equals, "Riz                  Sac        1     150000     Ar 150000     Ar")
	c.Assert(got[12], qt.Equals, "TOTAL                                    154000 Ar")
}

func TestWriteInvoiceText(t *testing.T) {
	c := qt.New(t)
	inv, lines := jean()
	inv.Client = "Jean/Paul"
	dir := filepath.Join(t.TempDir(), "factures")

	path, err := reports.WriteInvoiceText(dir, inv, lines)
	c.Assert(err, qt.IsNil)
	c.Assert(filepath.Base(path), qt.Equals, "facture_7_Jean_Paul_2024-01-01.txt")

	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Contains, "Client : Jean/Paul")
}

func TestPDFs(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()
	now := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	inv, lines := jean()

	path, err := reports.InvoicePDF(inv, lines, dir, now)
	c.Assert(err, qt.IsNil)
	c.Assert(filepath.Base(path), qt.Equals, "Facture_7_20240305_143000.pdf")
	assertPDF(c, path)

	wh := "Entrepôt Principal"
	path, err = reports.InventoryPDF([]articles.InventoryRow{
		{ID: 1, Name: "Riz", Reference: "RIZ001", WarehouseName: &wh, Units: []articles.PricedUnit{{Label: "Sac", Price: dec("150000")}}},
		{ID: 3, Name: "Farine", Reference: "FAR001"},
	}, dir, now)
	c.Assert(err, qt.IsNil)
	c.Assert(filepath.Base(path), qt.Equals, "Inventaire_20240305_143000.pdf")
	assertPDF(c, path)
}

func assertPDF(c *qt.C, path string) {
	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	c.Assert(bytes.HasPrefix(data, []byte("%PDF")), qt.IsTrue)
}

func TestPricesXLSX_RoundTrip(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	c.Assert(reports.PricesXLSX(&buf, []prices.SheetRow{
		{Reference: "RIZ001", Name: "Riz", UnitCode: "KG", UnitLabel: "Kilogramme", Price: dec("4000")},
		{Reference: "RIZ001", Name: "Riz", UnitCode: "SAC", UnitLabel: "Sac", Price: dec("150000")},
	}), qt.IsNil)

	// правим файл как пользователь: меняем одну цену, другую стираем
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	c.Assert(err, qt.IsNil)
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	c.Assert(f.SetCellValue(sheet, "E2", "4250,5"), qt.IsNil)
	c.Assert(f.SetCellValue(sheet, "E3", ""), qt.IsNil)
	c.Assert(f.SetSheetRow(sheet, "A4", &[]interface{}{"SUC001", "Sucre", "KG", "Kilogramme", 3600}), qt.IsNil)
	var edited bytes.Buffer
	_, err = f.WriteTo(&edited)
	c.Assert(err, qt.IsNil)
	c.Assert(f.Close(), qt.IsNil)

	rows, err := reports.ReadPricesXLSX(&edited)
	c.Assert(err, qt.IsNil)
	c.Assert(rows, qt.HasLen, 3)
	c.Assert(rows[0].Row, qt.Equals, 2)
	c.Assert(rows[0].Reference, qt.Equals, "RIZ001")
	c.Assert(rows[0].Price.String(), qt.Equals, "4250.5")
	c.Assert(rows[1].UnitCode, qt.Equals, "SAC")
	c.Assert(rows[1].Price, qt.IsNil)
	c.Assert(rows[2].Price.String(), qt.Equals, "3600")
}

func TestReadPricesXLSX_Rejects(t *testing.T) {
	c := qt.New(t)

	_, err := reports.ReadPricesXLSX(strings.NewReader("not a spreadsheet"))
	c.Assert(err, qt.ErrorMatches, `read xlsx: .*`)

	var buf bytes.Buffer
	c.Assert(reports.PricesXLSX(&buf, nil), qt.IsNil)
	_, err = reports.ReadPricesXLSX(&buf)
	c.Assert(err, qt.ErrorMatches, `no price rows`)
}

func TestInventoryXLSX(t *testing.T) {
	c := qt.New(t)
	wh := "Entrepôt Principal"

	var buf bytes.Buffer
	c.Assert(reports.InventoryXLSX(&buf, []articles.InventoryRow{
		{ID: 1, Name: "Riz", Reference: "RIZ001", WarehouseName: &wh, Units: []articles.PricedUnit{
			{Label: "Kilogramme", Price: dec("4000")},
			{Label: "Sac", Price: dec("150000")},
		}},
		{ID: 3, Name: "Farine", Reference: "FAR001"},
	}), qt.IsNil)

	f, err := excelize.OpenReader(&buf)
	c.Assert(err, qt.IsNil)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	c.Assert(err, qt.IsNil)
	c.Assert(rows, qt.HasLen, 3)
	c.Assert(rows[0], qt.DeepEquals, []string{"id", "article", "reference", "warehouse", "units"})
	c.Assert(rows[1], qt.DeepEquals, []string{"1", "Riz", "RIZ001", "Entrepôt Principal", "Kilogramme : 4,000 Ar | Sac : 150,000 Ar"})
	c.Assert(rows[2], qt.DeepEquals, []string{"3", "Farine", "FAR001", "", "Aucune unité"})
}

func TestUnitPrices(t *testing.T) {
	c := qt.New(t)

	c.Assert(reports.UnitPrices(nil), qt.Equals, "Aucune unité")
	c.Assert(reports.UnitPrices([]articles.PricedUnit{
		{Label: "Kilogramme", Price: dec("4000")},
		{Label: "Litre", Price: dec("12.5")},
	}), qt.Equals, "Kilogramme : 4,000 Ar | Litre : 12.50 Ar")
}

func TestFilter(t *testing.T) {
	c := qt.New(t)
	day := func(s string) time.Time {
		d, _ := time.Parse("2006-01-02", s)
		return d
	}
	list := []invoices.Invoice{
		{ID: 1, Client: "Jean Rakoto", Date: day("2024-03-14"), Total: dec("154000")},
		{ID: 2, Client: "Paul", Date: day("2024-03-11"), Total: dec("7500")},
		{ID: 3, Client: "jeanne", Date: day("2024-03-02"), Total: dec("7500")},
		{ID: 4, Client: "Marie", Date: day("2024-02-28"), Total: dec("1000")},
	}
	// четверг
	now := time.Date(2024, 3, 14, 18, 0, 0, 0, time.UTC)
	ids := func(in []invoices.Invoice) []int64 {
		out := []int64{}
		for _, inv := range in {
			out = append(out, inv.ID)
		}
		return out
	}
	amount := dec("7500")

	tests := []struct {
		name   string
		filter reports.Filter
		want   []int64
	}{
		{"all", reports.Filter{}, []int64{1, 2, 3, 4}},
		{"today", reports.Filter{Period: reports.PeriodToday}, []int64{1}},
		{"week from monday", reports.Filter{Period: reports.PeriodWeek}, []int64{1, 2}},
		{"month", reports.Filter{Period: reports.PeriodMonth}, []int64{1, 2, 3}},
		{"client substring", reports.Filter{Client: " JEAN"}, []int64{1, 3}},
		{"amount", reports.Filter{Amount: &amount}, []int64{2, 3}},
		{"combined", reports.Filter{Period: reports.PeriodWeek, Amount: &amount}, []int64{2}},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			c.Assert(ids(tt.filter.Apply(list, now)), qt.DeepEquals, tt.want)
		})
	}

	p, err := reports.ParsePeriod("Week")
	c.Assert(err, qt.IsNil)
	c.Assert(p, qt.Equals, reports.PeriodWeek)
	_, err = reports.ParsePeriod("year")
	c.Assert(err, qt.ErrorMatches, `unknown period "year" .*`)
}
