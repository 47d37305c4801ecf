// Package sales: оформление продажи: корзина, снимок цен, счёт со строками.
package sales

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Spok95/gestion-vente/internal/domain/articles"
	"github.com/Spok95/gestion-vente/internal/domain/invoices"
	"github.com/Spok95/gestion-vente/internal/domain/prices"
	"github.com/Spok95/gestion-vente/internal/domain/units"
	"github.com/Spok95/gestion-vente/internal/infra/metrics"
)

var (
	ErrNoPrice        = errors.New("no price for this article and unit")
	ErrUnknownArticle = errors.New("unknown or inactive article")
	ErrUnknownUnit    = errors.New("unknown unit")
	ErrQuantity       = errors.New("quantity must be positive")
	ErrNoClient       = errors.New("client name is required")
	ErrEmptyCart      = errors.New("cart is empty")
)

// PartialInvoiceError: счёт записан, но не все строки корзины сохранились.
// Уже записанное не откатывается.
type PartialInvoiceError struct {
	InvoiceID int64
	Saved     int
	Want      int
	Err       error
}

func (e *PartialInvoiceError) Error() string {
	return fmt.Sprintf("invoice %d saved with %d of %d lines: %v", e.InvoiceID, e.Saved, e.Want, e.Err)
}

func (e *PartialInvoiceError) Unwrap() error { return e.Err }

type Service struct {
	articles *articles.Repo
	units    *units.Repo
	prices   *prices.Repo
	invoices *invoices.Repo
	log      *slog.Logger
	now      func() time.Time
}

func NewService(a *articles.Repo, u *units.Repo, p *prices.Repo, inv *invoices.Repo, log *slog.Logger) *Service {
	return &Service{articles: a, units: u, prices: p, invoices: inv, log: log, now: time.Now}
}

// SetClock задаёт «сегодня» для счетов без даты, обычно в часовом поясе магазина.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// AddToCart берёт текущую цену пары (артикул, единица) и добавляет позицию в корзину.
func (s *Service) AddToCart(ctx context.Context, cart *Cart, articleID, unitID int64, qty decimal.Decimal) (CartItem, error) {
	if !qty.IsPositive() {
		return CartItem{}, ErrQuantity
	}
	a, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return CartItem{}, err
	}
	if a == nil || !a.Active {
		return CartItem{}, fmt.Errorf("%w: %d", ErrUnknownArticle, articleID)
	}
	u, err := s.units.GetByID(ctx, unitID)
	if err != nil {
		return CartItem{}, err
	}
	if u == nil {
		return CartItem{}, fmt.Errorf("%w: %d", ErrUnknownUnit, unitID)
	}
	price, ok, err := s.prices.UnitPrice(ctx, articleID, unitID)
	if err != nil {
		return CartItem{}, err
	}
	if !ok {
		return CartItem{}, fmt.Errorf("%w: %s / %s", ErrNoPrice, a.Name, u.Label)
	}

	it := CartItem{
		ArticleID:   a.ID,
		ArticleName: a.Name,
		UnitID:      u.ID,
		UnitLabel:   u.Label,
		Quantity:    qty,
		UnitPrice:   price,
		LineTotal:   qty.Mul(price),
	}
	cart.Add(it)
	return it, nil
}

// Checkout: данные для оформления счёта. Нулевая дата означает «сегодня».
type Checkout struct {
	Client string
	Date   time.Time
	Cart   *Cart
}

// Checkout записывает счёт с итогом корзины, затем строки по одной.
// Счёт и строки не в одной транзакции: при сбое строки возвращается
// *PartialInvoiceError, остальные строки всё равно пробуются.
func (s *Service) Checkout(ctx context.Context, co Checkout) (int64, error) {
	client := strings.TrimSpace(co.Client)
	if client == "" {
		return 0, ErrNoClient
	}
	if co.Cart == nil || co.Cart.Len() == 0 {
		return 0, ErrEmptyCart
	}
	date := co.Date
	if date.IsZero() {
		date = s.now()
	}

	total := co.Cart.Total()
	id, err := s.invoices.Create(ctx, client, date, total)
	if err != nil {
		return 0, fmt.Errorf("create invoice: %w", err)
	}
	metrics.InvoicesCreated.Inc()

	var (
		saved   int
		lineErr error
	)
	for _, it := range co.Cart.Items {
		_, err := s.invoices.AddLine(ctx, invoices.Line{
			InvoiceID: id,
			ArticleID: it.ArticleID,
			UnitID:    it.UnitID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
		})
		metrics.InvoiceLines.WithLabelValues(metrics.Outcome(err)).Inc()
		if err != nil {
			if lineErr == nil {
				lineErr = fmt.Errorf("line %s / %s: %w", it.ArticleName, it.UnitLabel, err)
			}
			continue
		}
		saved++
	}
	if lineErr != nil {
		metrics.PartialInvoices.Inc()
		s.log.Warn("invoice saved partially", "invoice_id", id, "saved", saved, "want", co.Cart.Len(), "err", lineErr)
		return id, &PartialInvoiceError{InvoiceID: id, Saved: saved, Want: co.Cart.Len(), Err: lineErr}
	}

	s.log.Info("sale recorded", "invoice_id", id, "client", client, "lines", saved, "total", total.String())
	return id, nil
}
