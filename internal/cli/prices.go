package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Spok95/gestion-vente/internal/domain/articles"
	"github.com/Spok95/gestion-vente/internal/domain/units"
	"github.com/Spok95/gestion-vente/internal/infra/db"
	"github.com/Spok95/gestion-vente/internal/reports"
)

// resolve находит артикул по референсу и единицу по коду.
func (a *app) resolve(ctx context.Context, ref, code string) (*articles.Article, *units.Unit, error) {
	it, err := a.articles.GetByReference(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	if it == nil {
		return nil, nil, fmt.Errorf("article %q: %w", ref, db.ErrNotFound)
	}
	u, err := a.units.GetByCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	if u == nil {
		return nil, nil, fmt.Errorf("unité %q: %w", code, db.ErrNotFound)
	}
	return it, u, nil
}

func newPriceCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "price", Aliases: []string{"prix"}, Short: "Prix par article et unité"}

	cmd.AddCommand(&cobra.Command{
		Use:   "set RÉFÉRENCE UNITÉ PRIX",
		Short: "Fixer le prix d'un article pour une unité",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := decimal.NewFromString(args[2])
			if err != nil || !price.IsPositive() {
				return fmt.Errorf("prix invalide %q", args[2])
			}
			it, u, err := a.resolve(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			err = a.prices.Update(cmd.Context(), it.ID, u.ID, price)
			if errors.Is(err, db.ErrNotFound) {
				err = a.prices.Create(cmd.Context(), it.ID, u.ID, price)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s / %s : %s\n", it.Name, u.Label, reports.Money(price))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm RÉFÉRENCE UNITÉ",
		Short: "Retirer le prix d'un article pour une unité",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, u, err := a.resolve(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if err := a.prices.Delete(cmd.Context(), it.ID, u.ID); err != nil {
				return fmt.Errorf("prix %s / %s: %w", it.Name, u.Label, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Prix %s / %s retiré\n", it.Name, u.Label)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export FICHIER.xlsx",
		Short: "Exporter la liste de prix en Excel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := a.prices.Sheet(cmd.Context())
			if err != nil {
				return err
			}
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := reports.PricesXLSX(f, rows); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d prix exportés vers %s\n", len(rows), args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import FICHIER.xlsx",
		Short: "Importer les prix depuis un fichier exporté (cellule vide = prix inchangé)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			rows, err := reports.ReadPricesXLSX(f)
			if err != nil {
				return err
			}
			res, err := a.catalog.ImportPrices(cmd.Context(), rows)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Lignes lues : %d, prix modifiés : %d, prix créés : %d\n", res.Rows, res.Updated, res.Created)
			for _, s := range res.Skipped {
				fmt.Fprintf(out, "ignorée : %s\n", s)
			}
			return nil
		},
	})
	return cmd
}
