package cli

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Spok95/gestion-vente/internal/domain/invoices"
	"github.com/Spok95/gestion-vente/internal/infra/db"
	"github.com/Spok95/gestion-vente/internal/reports"
)

func (a *app) invoiceWithLines(ctx context.Context, id int64) (*invoices.Invoice, []invoices.LineDetail, error) {
	inv, err := a.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, fmt.Errorf("facture %d: %w", id, db.ErrNotFound)
	}
	lines, err := a.invoices.Lines(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return inv, lines, nil
}

func newInvoiceCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "invoice", Aliases: []string{"facture"}, Short: "Factures et rapports de vente"}

	var period, client, amount string
	list := &cobra.Command{
		Use:   "list",
		Short: "Lister les ventes, les plus récentes d'abord",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := reports.ParsePeriod(period)
			if err != nil {
				return err
			}
			f := reports.Filter{Period: p, Client: client}
			if amount != "" {
				d, err := decimal.NewFromString(amount)
				if err != nil {
					return fmt.Errorf("montant invalide %q", amount)
				}
				f.Amount = &d
			}
			all, err := a.invoices.List(cmd.Context())
			if err != nil {
				return err
			}

			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "N°\tCLIENT\tDATE\tMONTANT")
			for _, inv := range f.Apply(all, a.now()) {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", inv.ID, inv.Client, inv.Date.Format("2006-01-02"), reports.Money(inv.Total))
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&period, "period", "all", "période : all, today, week, month")
	list.Flags().StringVar(&client, "client", "", "nom du client (partiel, sans casse)")
	list.Flags().StringVar(&amount, "amount", "", "montant total exact")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "show ID",
		Short: "Détail d'une vente",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			inv, lines, err := a.invoiceWithLines(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Facture N°%d, %s, %s\n", inv.ID, inv.Client, inv.Date.Format("2006-01-02"))
			tw := table(out)
			fmt.Fprintln(tw, "ARTICLE\tUNITÉ\tQTÉ\tPRIX UNITAIRE\tTOTAL\tENTREPÔT")
			for _, l := range lines {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					l.ArticleName, l.UnitLabel, reports.Qty(l.Quantity), reports.Money(l.UnitPrice), reports.Money(l.LineTotal), deref(l.WarehouseName))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Total : %s\n", reports.Money(inv.Total))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "txt ID",
		Short: "Exporter une facture en texte",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			inv, lines, err := a.invoiceWithLines(cmd.Context(), id)
			if err != nil {
				return err
			}
			path, err := reports.WriteInvoiceText(a.cfg.Reports.InvoicesDir, *inv, lines)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Facture sauvegardée : %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "pdf ID",
		Short: "Générer la facture PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			inv, lines, err := a.invoiceWithLines(cmd.Context(), id)
			if err != nil {
				return err
			}
			path, err := reports.InvoicePDF(*inv, lines, a.cfg.Reports.OutputDir, a.now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "PDF : %s\n", path)
			return nil
		},
	})
	return cmd
}
