// Package metrics: счётчики продаж, каталога и HTTP для /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InvoicesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vente",
		Name:      "invoices_created_total",
		Help:      "Invoices written to the store.",
	})

	// InvoiceLines считает строки по результату: ok или failed.
	InvoiceLines = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vente",
		Name:      "invoice_lines_total",
		Help:      "Invoice lines by insert outcome.",
	}, []string{"outcome"})

	PartialInvoices = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vente",
		Name:      "partial_invoices_total",
		Help:      "Invoices left with fewer lines than the cart after a failed line insert.",
	})

	CatalogOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vente",
		Name:      "catalog_operations_total",
		Help:      "Article create/update workflows by outcome.",
	}, []string{"op", "outcome"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vente",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"route", "code"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vente",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

func Outcome(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}
