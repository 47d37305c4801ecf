package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Spok95/gestion-vente/internal/infra/db"
)

func newUnitCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "unit", Short: "Unités de mesure"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Lister les unités",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.units.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tCODE\tLIBELLÉ")
			for _, u := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Code, u.Label)
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add CODE LIBELLÉ",
		Short: "Ajouter une unité",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.units.Create(cmd.Context(), args[0], args[1])
			if errors.Is(err, db.ErrConflict) {
				return fmt.Errorf("le code %q existe déjà: %w", args[0], err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unité %s ajoutée (id %d)\n", u.Code, u.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "edit ID CODE LIBELLÉ",
		Short: "Modifier une unité",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.units.Update(cmd.Context(), id, args[1], args[2]); err != nil {
				return fmt.Errorf("unité %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unité %d modifiée\n", id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm ID",
		Short: "Supprimer une unité",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			err = a.units.Delete(cmd.Context(), id)
			if errors.Is(err, db.ErrInUse) {
				return fmt.Errorf("unité %d utilisée par des prix ou des factures: %w", id, err)
			}
			if err != nil {
				return fmt.Errorf("unité %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unité %d supprimée\n", id)
			return nil
		},
	})
	return cmd
}
