package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	httpx "github.com/Spok95/gestion-vente/internal/infra/http"
)

const listenFlag = "listen"

var serveFlags = map[string]cobraflags.Flag{
	listenFlag: &cobraflags.StringFlag{
		Name:  listenFlag,
		Value: "",
		Usage: "adresse d'écoute, remplace http.addr de la configuration",
	},
}

// httpDeps отдаёт API те же репозитории и часы, что и командам.
func (a *app) httpDeps() httpx.Deps {
	return httpx.Deps{
		Articles:   a.articles,
		Invoices:   a.invoices,
		Warehouses: a.warehouses,
		Log:        a.log,
		Now:        a.now,
	}
}

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Servir /health, /metrics et l'API de consultation en lecture seule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr := a.cfg.HTTP.Addr
			if v := serveFlags[listenFlag].GetString(); v != "" {
				addr = v
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := httpx.New(addr, a.cfg.Metrics.Enabled, a.httpDeps())
			errc := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()
			a.log.Info("HTTP server started", "addr", addr, "metrics", a.cfg.Metrics.Enabled)

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			a.log.Info("graceful shutdown complete")
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, serveFlags)
	return cmd
}
