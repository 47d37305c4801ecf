package reports

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Spok95/gestion-vente/internal/domain/invoices"
)

const rule = "--------------------------------------------------"

// InvoiceText пишет счёт фиксированной ширины. Итог считается по строкам.
func InvoiceText(w io.Writer, inv invoices.Invoice, lines []invoices.LineDetail) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "===== FACTURE =====")
	fmt.Fprintf(bw, "Numéro : %d\n", inv.ID)
	fmt.Fprintf(bw, "Client : %s\n", inv.Client)
	fmt.Fprintf(bw, "Date : %s\n\n", inv.Date.Format("2006-01-02"))
	fmt.Fprintln(bw, "Détails des Articles :")
	fmt.Fprintln(bw, rule)
	fmt.Fprintf(bw, "%-20s %-10s %-5s %-10s %-10s\n", "Article", "Unité", "Qté", "P.U.", "Total")
	fmt.Fprintln(bw, rule)

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal)
		fmt.Fprintf(bw, "%-20s %-10s %-5s %-10s Ar %-10s Ar\n",
			l.ArticleName, l.UnitLabel, Qty(l.Quantity), l.UnitPrice.String(), l.LineTotal.String())
	}
	fmt.Fprintln(bw, rule)
	fmt.Fprintf(bw, "%-40s %s Ar\n", "TOTAL", total.String())
	return bw.Flush()
}

// WriteInvoiceText сохраняет счёт в dir/facture_<id>_<client>_<date>.txt и возвращает путь.
func WriteInvoiceText(dir string, inv invoices.Invoice, lines []invoices.LineDetail) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create invoices dir: %w", err)
	}
	name := fmt.Sprintf("facture_%d_%s_%s.txt", inv.ID, fileSafe(inv.Client), inv.Date.Format("2006-01-02"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := InvoiceText(f, inv, lines); err != nil {
		_ = f.Close()
		return "", err
	}
	return path, f.Close()
}

// fileSafe убирает из имени клиента символы, недопустимые в имени файла.
func fileSafe(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
}
