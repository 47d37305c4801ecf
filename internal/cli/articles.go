package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Spok95/gestion-vente/internal/catalog"
	"github.com/Spok95/gestion-vente/internal/infra/db"
	"github.com/Spok95/gestion-vente/internal/reports"
)

type articleFlags struct {
	name      string
	reference string
	warehouse int64
	prices    []string
}

func (f *articleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "nom de l'article")
	cmd.Flags().StringVar(&f.reference, "ref", "", "référence unique")
	cmd.Flags().Int64Var(&f.warehouse, "warehouse", 0, "id de l'entrepôt (0 = retirer l'entrepôt)")
	cmd.Flags().StringArrayVar(&f.prices, "price", nil, "prix par unité, CODE=PRIX (répétable)")
}

// request собирает запрос каталога; коды единиц переводятся в id.
func (f *articleFlags) request(ctx context.Context, a *app) (catalog.ArticleRequest, error) {
	req := catalog.ArticleRequest{Name: f.name, Reference: f.reference}
	if f.warehouse > 0 {
		wh := f.warehouse
		req.WarehouseID = &wh
	}
	for _, p := range f.prices {
		code, value, ok := strings.Cut(p, "=")
		if !ok {
			return req, fmt.Errorf("prix %q: format attendu CODE=PRIX", p)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return req, fmt.Errorf("prix %q: montant invalide", p)
		}
		u, err := a.units.GetByCode(ctx, strings.TrimSpace(code))
		if err != nil {
			return req, err
		}
		if u == nil {
			return req, fmt.Errorf("unité inconnue %q", code)
		}
		req.Prices = append(req.Prices, catalog.PriceInput{UnitID: u.ID, Price: price})
	}
	return req, nil
}

// editRequest берёт текущие значения артикула для флагов, которые не заданы:
// правка меняет только то, что указано. Цены без --price остаются прежними.
func (f *articleFlags) editRequest(cmd *cobra.Command, a *app, id int64) (catalog.ArticleRequest, error) {
	ctx := cmd.Context()
	cur, err := a.articles.GetByID(ctx, id)
	if err != nil {
		return catalog.ArticleRequest{}, err
	}
	if cur == nil {
		return catalog.ArticleRequest{}, fmt.Errorf("article %d: %w", id, db.ErrNotFound)
	}

	req, err := f.request(ctx, a)
	if err != nil {
		return req, err
	}
	flags := cmd.Flags()
	if !flags.Changed("name") {
		req.Name = cur.Name
	}
	if !flags.Changed("ref") {
		req.Reference = cur.Reference
	}
	if !flags.Changed("warehouse") {
		req.WarehouseID = cur.WarehouseID
	}
	if !flags.Changed("price") {
		ps, err := a.prices.ListByArticle(ctx, id)
		if err != nil {
			return req, err
		}
		for _, p := range ps {
			req.Prices = append(req.Prices, catalog.PriceInput{UnitID: p.UnitID, Price: p.UnitPrice})
		}
	}
	return req, nil
}

func newArticleCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "article", Short: "Articles et leurs prix"}

	var inactive bool
	list := &cobra.Command{
		Use:   "list",
		Short: "Lister les articles actifs (ou la corbeille avec --inactive)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			load := a.articles.ListActive
			if inactive {
				load = a.articles.ListInactive
			}
			list, err := load(cmd.Context())
			if err != nil {
				return err
			}
			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNOM\tRÉFÉRENCE")
			for _, it := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", it.ID, it.Name, it.Reference)
			}
			return tw.Flush()
		},
	}
	list.Flags().BoolVar(&inactive, "inactive", false, "articles supprimés (corbeille)")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "show ID",
		Short: "Afficher un article et ses prix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			it, err := a.articles.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if it == nil {
				return fmt.Errorf("article %d: %w", id, db.ErrNotFound)
			}
			ps, err := a.prices.ListByArticle(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			status := "actif"
			if !it.Active {
				status = "inactif"
			}
			fmt.Fprintf(out, "%s (%s), %s\n", it.Name, it.Reference, status)
			tw := table(out)
			fmt.Fprintln(tw, "UNITÉ\tPRIX")
			for _, p := range ps {
				fmt.Fprintf(tw, "%s\t%s\n", p.UnitLabel, reports.Money(p.UnitPrice))
			}
			return tw.Flush()
		},
	})

	var addFlags articleFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Créer un article avec ses prix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := addFlags.request(cmd.Context(), a)
			if err != nil {
				return err
			}
			id, err := a.catalog.CreateArticle(cmd.Context(), req)
			if errors.Is(err, db.ErrConflict) {
				return fmt.Errorf("la référence %q existe déjà: %w", req.Reference, err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Article %s créé (id %d)\n", req.Reference, id)
			return nil
		},
	}
	addFlags.register(add)
	cmd.AddCommand(add)

	var editFlags articleFlags
	edit := &cobra.Command{
		Use:   "edit ID",
		Short: "Modifier un article; les options omises gardent leur valeur, --price remplace tous les prix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			req, err := editFlags.editRequest(cmd, a, id)
			if err != nil {
				return err
			}
			if err := a.catalog.UpdateArticle(cmd.Context(), id, req); err != nil {
				if errors.Is(err, db.ErrConflict) {
					return fmt.Errorf("la référence %q existe déjà: %w", req.Reference, err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Article %d modifié\n", id)
			return nil
		},
	}
	editFlags.register(edit)
	cmd.AddCommand(edit)

	cmd.AddCommand(&cobra.Command{
		Use:   "rm ID",
		Short: "Mettre un article à la corbeille",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.articles.SoftDelete(cmd.Context(), id); err != nil {
				return fmt.Errorf("article %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Article %d désactivé\n", id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restore ID",
		Short: "Restaurer un article de la corbeille",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.articles.Reactivate(cmd.Context(), id); err != nil {
				return fmt.Errorf("article %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Article %d restauré\n", id)
			return nil
		},
	})

	var confirm bool
	purge := &cobra.Command{
		Use:   "purge ID",
		Short: "Supprimer définitivement un article, ses prix et ses lignes de facture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !confirm {
				return fmt.Errorf("suppression définitive: relancer avec --yes")
			}
			if err := a.articles.HardDelete(cmd.Context(), id); err != nil {
				return fmt.Errorf("article %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Article %d supprimé définitivement\n", id)
			return nil
		},
	}
	purge.Flags().BoolVar(&confirm, "yes", false, "confirmer la suppression définitive")
	cmd.AddCommand(purge)

	return cmd
}
