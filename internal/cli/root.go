// Package cli: командная строка поверх репозиториев и сценариев продажи.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/Spok95/gestion-vente/internal/catalog"
	"github.com/Spok95/gestion-vente/internal/config"
	"github.com/Spok95/gestion-vente/internal/domain/articles"
	"github.com/Spok95/gestion-vente/internal/domain/invoices"
	"github.com/Spok95/gestion-vente/internal/domain/prices"
	"github.com/Spok95/gestion-vente/internal/domain/units"
	"github.com/Spok95/gestion-vente/internal/domain/warehouses"
	"github.com/Spok95/gestion-vente/internal/infra/db"
	"github.com/Spok95/gestion-vente/internal/infra/logger"
	"github.com/Spok95/gestion-vente/internal/sales"
)

// app: общее состояние команд: одно соединение и репозитории поверх него.
type app struct {
	cfg  config.Config
	log  *slog.Logger
	conn *sqlx.DB

	units      *units.Repo
	articles   *articles.Repo
	prices     *prices.Repo
	warehouses *warehouses.Repo
	invoices   *invoices.Repo
	catalog    *catalog.Service
	sales      *sales.Service

	// now: текущее время в часовом поясе app.timezone
	now func() time.Time
}

func (a *app) open(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	a.cfg = cfg
	a.log = logger.New(cfg.App.Env)
	loc := cfg.Location()
	a.now = func() time.Time { return time.Now().In(loc) }

	conn, err := db.Connect(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return err
	}
	if err := db.Migrate(conn); err != nil {
		_ = conn.Close()
		return err
	}
	a.conn = conn
	a.log.Debug("store ready", "driver", cfg.Store.Driver, "dsn", cfg.Store.DSN)

	a.units = units.NewRepo(conn)
	a.articles = articles.NewRepo(conn, a.log)
	a.prices = prices.NewRepo(conn)
	a.warehouses = warehouses.NewRepo(conn)
	a.invoices = invoices.NewRepo(conn, a.log)
	a.catalog = catalog.NewService(a.articles, a.prices, a.units, a.log)
	a.sales = sales.NewService(a.articles, a.units, a.prices, a.invoices, a.log)
	a.sales.SetClock(a.now)
	return nil
}

func (a *app) close() error {
	if a.conn == nil {
		return nil
	}
	return a.conn.Close()
}

func NewRootCommand() *cobra.Command {
	a := &app{}
	var configPath string

	root := &cobra.Command{
		Use:           "vente",
		Short:         "Gestion des ventes : articles, prix, entrepôts et factures",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !needsStore(cmd) {
				return nil
			}
			return a.open(cmd.Context(), configPath)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config/vente.yaml", "fichier de configuration YAML (facultatif)")

	root.AddCommand(
		newUnitCommand(a),
		newWarehouseCommand(a),
		newArticleCommand(a),
		newPriceCommand(a),
		newSellCommand(a),
		newInvoiceCommand(a),
		newInventoryCommand(a),
		newServeCommand(a),
	)
	return root
}

// needsStore ложно для встроенных help и completion: им не нужны ни конфигурация, ни база.
func needsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("identifiant invalide %q", s)
	}
	return id, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
