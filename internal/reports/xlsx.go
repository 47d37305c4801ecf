package reports

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Spok95/gestion-vente/internal/catalog"
	"github.com/Spok95/gestion-vente/internal/domain/articles"
	"github.com/Spok95/gestion-vente/internal/domain/prices"
)

var pricesHeader = []interface{}{"reference", "article", "unit_code", "unit_label", "unit_price"}

// InventoryXLSX выгружает активные артикулы со складами и ценами одним листом.
func InventoryXLSX(w io.Writer, rows []articles.InventoryRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	header := []interface{}{"id", "article", "reference", "warehouse", "units"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	for i, r := range rows {
		wh := ""
		if r.WarehouseName != nil {
			wh = *r.WarehouseName
		}
		excelRow := []interface{}{r.ID, r.Name, r.Reference, wh, UnitPrices(r.Units)}
		if err := setRow(f, sheet, i+2, excelRow); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}

// PricesXLSX выгружает прайс-лист. Колонку unit_price можно править и загрузить обратно.
func PricesXLSX(w io.Writer, rows []prices.SheetRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	header := pricesHeader
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	for i, r := range rows {
		excelRow := []interface{}{r.Reference, r.Name, r.UnitCode, r.UnitLabel, r.Price.InexactFloat64()}
		if err := setRow(f, sheet, i+2, excelRow); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}

func setRow(f *excelize.File, sheet string, n int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("row %d: %w", n, err)
	}
	return nil
}

// ReadPricesXLSX читает прайс в формате PricesXLSX.
// Пустая ячейка unit_price означает «оставить старую цену».
func ReadPricesXLSX(r io.Reader) ([]catalog.PriceUpdate, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no price rows")
	}
	if len(rows[0]) < len(pricesHeader) {
		return nil, fmt.Errorf("expected %d columns (reference ... unit_price), got %d", len(pricesHeader), len(rows[0]))
	}

	var out []catalog.PriceUpdate
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 3 {
			continue
		}
		ref := strings.TrimSpace(row[0])
		code := strings.TrimSpace(row[2])
		if ref == "" || code == "" {
			continue
		}
		upd := catalog.PriceUpdate{Row: i + 1, Reference: ref, UnitCode: code}
		if len(row) >= 5 {
			if s := strings.TrimSpace(row[4]); s != "" {
				p, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
				if err != nil {
					return nil, fmt.Errorf("row %d: bad unit_price %q", i+1, s)
				}
				upd.Price = &p
			}
		}
		out = append(out, upd)
	}
	return out, nil
}
