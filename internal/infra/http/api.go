package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Spok95/gestion-vente/internal/domain/articles"
	"github.com/Spok95/gestion-vente/internal/domain/invoices"
	"github.com/Spok95/gestion-vente/internal/reports"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string, details any) {
	writeJSON(w, status, errorResponse{Error: msg, Details: details})
}

type api struct {
	Deps
}

func (a *api) internal(w http.ResponseWriter, r *http.Request, err error) {
	a.Log.Error("api request failed", "path", r.URL.Path, "err", err)
	writeError(w, http.StatusInternalServerError, "internal_error", nil)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", r.PathValue("id"))
		return 0, false
	}
	return id, true
}

func (a *api) articles(w http.ResponseWriter, r *http.Request) {
	rows, err := a.Articles.ListWithWarehouse(r.Context())
	if err != nil {
		a.internal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// GET /api/invoices?period=week&client=jean&amount=7500
func (a *api) invoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period, err := reports.ParsePeriod(q.Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_period", q.Get("period"))
		return
	}
	f := reports.Filter{Period: period, Client: q.Get("client")}
	if s := q.Get("amount"); s != "" {
		amount, err := decimal.NewFromString(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_amount", s)
			return
		}
		f.Amount = &amount
	}

	list, err := a.Invoices.List(r.Context())
	if err != nil {
		a.internal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f.Apply(list, a.Now()))
}

type invoiceJSON struct {
	invoices.Invoice
	Lines []invoices.LineDetail `json:"lines"`
}

func (a *api) invoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	inv, err := a.Invoices.GetByID(r.Context(), id)
	if err != nil {
		a.internal(w, r, err)
		return
	}
	if inv == nil {
		writeError(w, http.StatusNotFound, "invoice_not_found", id)
		return
	}
	lines, err := a.Invoices.Lines(r.Context(), id)
	if err != nil {
		a.internal(w, r, err)
		return
	}
	if lines == nil {
		lines = []invoices.LineDetail{}
	}
	writeJSON(w, http.StatusOK, invoiceJSON{Invoice: *inv, Lines: lines})
}

type warehouseJSON struct {
	ID       int64                   `json:"id"`
	Name     string                  `json:"name"`
	Location *string                 `json:"location,omitempty"`
	Articles []articles.InventoryRow `json:"articles"`
}

// GET /api/warehouses/{id}: склад и его активные артикулы с ценами.
func (a *api) warehouse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	wh, err := a.Warehouses.GetByID(r.Context(), id)
	if err != nil {
		a.internal(w, r, err)
		return
	}
	if wh == nil {
		writeError(w, http.StatusNotFound, "warehouse_not_found", id)
		return
	}
	rows, err := a.Articles.ListByWarehouse(r.Context(), id)
	if err != nil {
		a.internal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, warehouseJSON{ID: wh.ID, Name: wh.Name, Location: wh.Location, Articles: rows})
}

func (a *api) warehouseStats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	wh, err := a.Warehouses.GetByID(r.Context(), id)
	if err != nil {
		a.internal(w, r, err)
		return
	}
	if wh == nil {
		writeError(w, http.StatusNotFound, "warehouse_not_found", id)
		return
	}
	st, err := a.Warehouses.Stats(r.Context(), id)
	if err != nil {
		a.internal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
