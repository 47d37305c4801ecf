package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Spok95/gestion-vente/internal/infra/db"
	"github.com/Spok95/gestion-vente/internal/reports"
)

func newWarehouseCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "warehouse", Aliases: []string{"entrepot"}, Short: "Entrepôts"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Lister les entrepôts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.warehouses.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNOM\tLOCALISATION")
			for _, w := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", w.ID, w.Name, deref(w.Location))
			}
			return tw.Flush()
		},
	})

	var location string
	add := &cobra.Command{
		Use:   "add NOM",
		Short: "Ajouter un entrepôt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.warehouses.Create(cmd.Context(), args[0], optional(location))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Entrepôt %q ajouté (id %d)\n", args[0], id)
			return nil
		},
	}
	add.Flags().StringVar(&location, "location", "", "localisation")
	cmd.AddCommand(add)

	var newLocation string
	edit := &cobra.Command{
		Use:   "edit ID NOM",
		Short: "Modifier un entrepôt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.warehouses.Update(cmd.Context(), id, args[1], optional(newLocation)); err != nil {
				return fmt.Errorf("entrepôt %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Entrepôt %d modifié\n", id)
			return nil
		},
	}
	edit.Flags().StringVar(&newLocation, "location", "", "localisation (vide pour effacer)")
	cmd.AddCommand(edit)

	cmd.AddCommand(&cobra.Command{
		Use:   "rm ID",
		Short: "Supprimer un entrepôt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			err = a.warehouses.Delete(cmd.Context(), id)
			if errors.Is(err, db.ErrInUse) {
				return fmt.Errorf("entrepôt %d contient encore des articles: %w", id, err)
			}
			if err != nil {
				return fmt.Errorf("entrepôt %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Entrepôt %d supprimé\n", id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show ID",
		Short: "Afficher un entrepôt et ses articles actifs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			w, err := a.warehouses.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if w == nil {
				return fmt.Errorf("entrepôt %d: %w", id, db.ErrNotFound)
			}
			rows, err := a.articles.ListByWarehouse(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entrepôt : %s (%s)\n", w.Name, deref(w.Location))
			tw := table(out)
			fmt.Fprintln(tw, "ARTICLE\tRÉFÉRENCE\tUNITÉS ET PRIX")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Reference, reports.UnitPrices(r.Units))
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stats ID",
		Short: "Statistiques d'un entrepôt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			w, err := a.warehouses.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if w == nil {
				return fmt.Errorf("entrepôt %d: %w", id, db.ErrNotFound)
			}
			st, err := a.warehouses.Stats(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entrepôt : %s\n", w.Name)
			fmt.Fprintf(out, "Articles actifs : %d (%.2f %%)\n", st.ActiveArticles, st.ArticlePercent)
			tw := table(out)
			fmt.Fprintln(tw, "UNITÉ\tARTICLES\t%")
			for _, u := range st.ByUnit {
				label := u.Label
				if label == "" {
					label = "(sans prix)"
				}
				fmt.Fprintf(tw, "%s\t%d\t%.2f\n", label, u.Articles, u.Percent)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Quantité vendue : %s\n", reports.Qty(st.SoldQuantity))
			fmt.Fprintf(out, "Chiffre d'affaires : %s\n", reports.Money(st.Revenue))
			return nil
		},
	})
	return cmd
}
