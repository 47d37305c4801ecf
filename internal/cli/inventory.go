package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Spok95/gestion-vente/internal/reports"
)

func newInventoryCommand(a *app) *cobra.Command {
	var (
		pdf  bool
		xlsx string
	)
	cmd := &cobra.Command{
		Use:     "inventory",
		Aliases: []string{"inventaire"},
		Short:   "Inventaire des articles actifs avec leurs prix et entrepôts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := a.articles.ListWithWarehouse(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			tw := table(out)
			fmt.Fprintln(tw, "ID\tARTICLE\tRÉFÉRENCE\tUNITÉS ET PRIX\tENTREPÔT")
			for _, r := range rows {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Reference, reports.UnitPrices(r.Units), deref(r.WarehouseName))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if pdf {
				path, err := reports.InventoryPDF(rows, a.cfg.Reports.OutputDir, a.now())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "PDF : %s\n", path)
			}
			if xlsx != "" {
				f, err := os.Create(xlsx)
				if err != nil {
					return err
				}
				if err := reports.InventoryXLSX(f, rows); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(out, "Excel : %s\n", xlsx)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&pdf, "pdf", false, "générer l'inventaire PDF")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "exporter l'inventaire vers ce fichier Excel")
	return cmd
}
