package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Spok95/gestion-vente/internal/reports"
	"github.com/Spok95/gestion-vente/internal/sales"
)

func newSellCommand(a *app) *cobra.Command {
	var (
		client string
		date   string
		items  []string
		pdf    bool
		txt    bool
	)
	cmd := &cobra.Command{
		Use:   "sell",
		Short: "Enregistrer une vente",
		Example: `  vente sell --client Jean --item RIZ001:SAC:1 --item SUC001:KG:1
  vente sell --client Paul --date 2024-01-15 --item FAR001:KG:2.5 --pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			loc := a.cfg.Location()

			day := a.now()
			if date != "" {
				d, err := time.ParseInLocation("2006-01-02", date, loc)
				if err != nil {
					return fmt.Errorf("date invalide %q (AAAA-MM-JJ)", date)
				}
				day = d
			}

			var cart sales.Cart
			for _, raw := range items {
				parts := strings.Split(raw, ":")
				if len(parts) != 3 {
					return fmt.Errorf("article %q: format attendu RÉF:UNITÉ:QTÉ", raw)
				}
				qty, err := decimal.NewFromString(parts[2])
				if err != nil {
					return fmt.Errorf("article %q: quantité invalide", raw)
				}
				it, u, err := a.resolve(ctx, parts[0], parts[1])
				if err != nil {
					return err
				}
				if _, err := a.sales.AddToCart(ctx, &cart, it.ID, u.ID, qty); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			id, err := a.sales.Checkout(ctx, sales.Checkout{Client: client, Date: day, Cart: &cart})
			var partial *sales.PartialInvoiceError
			if errors.As(err, &partial) {
				fmt.Fprintf(out, "ATTENTION : facture N°%d enregistrée avec %d ligne(s) sur %d\n", partial.InvoiceID, partial.Saved, partial.Want)
				return err
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Vente enregistrée : facture N°%d, total %s\n", id, reports.Money(cart.Total()))

			if pdf || txt {
				inv, lines, err := a.invoiceWithLines(ctx, id)
				if err != nil {
					return err
				}
				if pdf {
					path, err := reports.InvoicePDF(*inv, lines, a.cfg.Reports.OutputDir, a.now())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "PDF : %s\n", path)
				}
				if txt {
					path, err := reports.WriteInvoiceText(a.cfg.Reports.InvoicesDir, *inv, lines)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Texte : %s\n", path)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&client, "client", "", "nom du client")
	cmd.Flags().StringVar(&date, "date", "", "date de la facture AAAA-MM-JJ (aujourd'hui par défaut)")
	cmd.Flags().StringArrayVar(&items, "item", nil, "ligne RÉF:UNITÉ:QTÉ (répétable)")
	cmd.Flags().BoolVar(&pdf, "pdf", false, "générer la facture PDF")
	cmd.Flags().BoolVar(&txt, "txt", false, "exporter la facture texte")
	return cmd
}
