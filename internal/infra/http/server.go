package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Spok95/gestion-vente/internal/domain/articles"
	"github.com/Spok95/gestion-vente/internal/domain/invoices"
	"github.com/Spok95/gestion-vente/internal/domain/warehouses"
	"github.com/Spok95/gestion-vente/internal/infra/metrics"
)

// Deps: репозитории для read-only API.
type Deps struct {
	Articles   *articles.Repo
	Invoices   *invoices.Repo
	Warehouses *warehouses.Repo
	Log        *slog.Logger
	// Now задаёт «сегодня» для фильтров по периоду.
	Now func() time.Time
}

type Server struct {
	srv *http.Server
}

func New(addr string, exposeMetrics bool, d Deps) *Server {
	if d.Now == nil {
		d.Now = time.Now
	}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if exposeMetrics {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	a := &api{Deps: d}
	mux.Handle("GET /api/articles", instrument("/api/articles", a.articles))
	mux.Handle("GET /api/invoices", instrument("/api/invoices", a.invoices))
	mux.Handle("GET /api/invoices/{id}", instrument("/api/invoices/{id}", a.invoice))
	mux.Handle("GET /api/warehouses/{id}", instrument("/api/warehouses/{id}", a.warehouse))
	mux.Handle("GET /api/warehouses/{id}/stats", instrument("/api/warehouses/{id}/stats", a.warehouseStats))

	return &Server{srv: &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}}
}

func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func instrument(route string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
		metrics.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
