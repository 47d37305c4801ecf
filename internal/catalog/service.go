// Package catalog: сценарии правки каталога: артикул вместе с ценами, импорт прайса.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Spok95/gestion-vente/internal/domain/articles"
	"github.com/Spok95/gestion-vente/internal/domain/prices"
	"github.com/Spok95/gestion-vente/internal/domain/units"
	"github.com/Spok95/gestion-vente/internal/infra/db"
	"github.com/Spok95/gestion-vente/internal/infra/metrics"
)

type Service struct {
	articles *articles.Repo
	prices   *prices.Repo
	units    *units.Repo
	log      *slog.Logger
}

func NewService(a *articles.Repo, p *prices.Repo, u *units.Repo, log *slog.Logger) *Service {
	return &Service{articles: a, prices: p, units: u, log: log}
}

// CreateArticle создаёт артикул, затем по одной цене на единицу.
// Если цена не записалась, артикул остаётся: ошибка называет шаг.
func (s *Service) CreateArticle(ctx context.Context, req ArticleRequest) (id int64, err error) {
	defer func() { metrics.CatalogOps.WithLabelValues("create", metrics.Outcome(err)).Inc() }()

	if err := req.Validate(); err != nil {
		return 0, err
	}
	id, err = s.articles.Create(ctx, req.Name, req.Reference, req.WarehouseID)
	if err != nil {
		return 0, fmt.Errorf("create article %q: %w", req.Reference, err)
	}
	if err := s.createPrices(ctx, id, req.Prices); err != nil {
		return id, err
	}
	s.log.Info("article created", "article_id", id, "reference", req.Reference, "prices", len(req.Prices))
	return id, nil
}

// UpdateArticle меняет поля артикула и заменяет его цены целиком.
// Шаги не в транзакции, как и при создании.
func (s *Service) UpdateArticle(ctx context.Context, id int64, req ArticleRequest) (err error) {
	defer func() { metrics.CatalogOps.WithLabelValues("update", metrics.Outcome(err)).Inc() }()

	if err := req.Validate(); err != nil {
		return err
	}
	if err := s.articles.Update(ctx, id, req.Name, req.Reference, req.WarehouseID); err != nil {
		return fmt.Errorf("update article %d: %w", id, err)
	}
	if err := s.prices.DeleteByArticle(ctx, id); err != nil {
		return fmt.Errorf("clear prices of article %d: %w", id, err)
	}
	if err := s.createPrices(ctx, id, req.Prices); err != nil {
		return err
	}
	s.log.Info("article updated", "article_id", id, "prices", len(req.Prices))
	return nil
}

func (s *Service) createPrices(ctx context.Context, articleID int64, in []PriceInput) error {
	for _, p := range in {
		if err := s.prices.Create(ctx, articleID, p.UnitID, p.Price); err != nil {
			s.log.Error("price create failed", "article_id", articleID, "unit_id", p.UnitID, "err", err)
			return fmt.Errorf("create price for unit %d: %w", p.UnitID, err)
		}
	}
	return nil
}

// PriceUpdate: строка импортируемого прайса. Пустой Price означает «оставить как есть».
type PriceUpdate struct {
	Row       int
	Reference string
	UnitCode  string
	Price     *decimal.Decimal
}

type ImportResult struct {
	Rows    int
	Updated int
	Created int
	Skipped []string
}

// ImportPrices применяет прайс: существующая цена обновляется, отсутствующая создаётся.
// Неизвестный артикул или единица не прерывает импорт, строка попадает в Skipped.
func (s *Service) ImportPrices(ctx context.Context, rows []PriceUpdate) (ImportResult, error) {
	var res ImportResult
	for _, r := range rows {
		res.Rows++
		if r.Price == nil {
			continue
		}
		if !r.Price.IsPositive() {
			res.Skipped = append(res.Skipped, fmt.Sprintf("row %d: price must be positive", r.Row))
			continue
		}
		a, err := s.articles.GetByReference(ctx, r.Reference)
		if err != nil {
			return res, err
		}
		if a == nil {
			res.Skipped = append(res.Skipped, fmt.Sprintf("row %d: unknown article %q", r.Row, r.Reference))
			continue
		}
		u, err := s.units.GetByCode(ctx, r.UnitCode)
		if err != nil {
			return res, err
		}
		if u == nil {
			res.Skipped = append(res.Skipped, fmt.Sprintf("row %d: unknown unit %q", r.Row, r.UnitCode))
			continue
		}

		err = s.prices.Update(ctx, a.ID, u.ID, *r.Price)
		switch {
		case err == nil:
			res.Updated++
		case errors.Is(err, db.ErrNotFound):
			if err := s.prices.Create(ctx, a.ID, u.ID, *r.Price); err != nil {
				return res, fmt.Errorf("row %d: %w", r.Row, err)
			}
			res.Created++
		default:
			return res, fmt.Errorf("row %d: %w", r.Row, err)
		}
	}
	s.log.Info("prices imported", "rows", res.Rows, "updated", res.Updated, "created", res.Created, "skipped", len(res.Skipped))
	return res, nil
}
