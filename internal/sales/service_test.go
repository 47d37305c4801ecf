package sales_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/Spok95/gestion-vente/internal/catalog"
	"github.com/Spok95/gestion-vente/internal/domain/articles"
	"github.com/Spok95/gestion-vente/internal/domain/invoices"
	"github.com/Spok95/gestion-vente/internal/domain/prices"
	"github.com/Spok95/gestion-vente/internal/domain/units"
	"github.com/Spok95/gestion-vente/internal/infra/db"
	"github.com/Spok95/gestion-vente/internal/infra/db/dbtest"
	"github.com/Spok95/gestion-vente/internal/sales"
)

type fixture struct {
	conn     *sqlx.DB
	sales    *sales.Service
	catalog  *catalog.Service
	invoices *invoices.Repo
	articles *articles.Repo
}

func newFixture(t *testing.T) fixture {
	conn := dbtest.Open(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, u, p := articles.NewRepo(conn, log), units.NewRepo(conn), prices.NewRepo(conn)
	inv := invoices.NewRepo(conn, log)
	return fixture{
		conn:     conn,
		sales:    sales.NewService(a, u, p, inv, log),
		catalog:  catalog.NewService(a, p, u, log),
		invoices: inv,
		articles: a,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var saleDay = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestEndToEnd_NewArticleSold(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(t)
	kg := dbtest.ID(t, f.conn, "unite", "code", "KG")
	riz := dbtest.ID(t, f.conn, "article", "reference", "RIZ001")

	farine, err := f.catalog.CreateArticle(ctx, catalog.ArticleRequest{
		Name: "Farine", Reference: "FAR001",
		Prices: []catalog.PriceInput{{UnitID: kg, Price: dec("2500")}},
	})
	c.Assert(err, qt.IsNil)

	var cart sales.Cart
	it, err := f.sales.AddToCart(ctx, &cart, farine, kg, dec("3"))
	c.Assert(err, qt.IsNil)
	c.Assert(it.LineTotal.String(), qt.Equals, "7500")
	c.Assert(it.UnitLabel, qt.Equals, "Kilogramme")

	_, err = f.sales.AddToCart(ctx, &cart, riz, kg, dec("0.5"))
	c.Assert(err, qt.IsNil)
	c.Assert(cart.Total().String(), qt.Equals, "9500")

	id, err := f.sales.Checkout(ctx, sales.Checkout{Client: "  Jean ", Date: saleDay, Cart: &cart})
	c.Assert(err, qt.IsNil)

	inv, err := f.invoices.GetByID(ctx, id)
	c.Assert(err, qt.IsNil)
	c.Assert(inv.Client, qt.Equals, "Jean")
	c.Assert(inv.Total.String(), qt.Equals, "9500")

	lines, err := f.invoices.Lines(ctx, id)
	c.Assert(err, qt.IsNil)
	c.Assert(lines, qt.HasLen, 2)
	c.Assert(lines[0].ArticleName, qt.Equals, "Farine")
	c.Assert(lines[0].LineTotal.String(), qt.Equals, "7500")
	c.Assert(lines[0].WarehouseName, qt.IsNil)
}

func TestCheckout_ZeroDateUsesShopClock(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(t)
	kg := dbtest.ID(t, f.conn, "unite", "code", "KG")
	riz := dbtest.ID(t, f.conn, "article", "reference", "RIZ001")

	// 22:30 UTC 14 марта: в Антананариву (UTC+3) уже 15 марта
	eat := time.FixedZone("EAT", 3*60*60)
	f.sales.SetClock(func() time.Time {
		return time.Date(2024, 3, 14, 22, 30, 0, 0, time.UTC).In(eat)
	})

	var cart sales.Cart
	_, err := f.sales.AddToCart(ctx, &cart, riz, kg, dec("1"))
	c.Assert(err, qt.IsNil)
	id, err := f.sales.Checkout(ctx, sales.Checkout{Client: "Jean", Cart: &cart})
	c.Assert(err, qt.IsNil)

	inv, err := f.invoices.GetByID(ctx, id)
	c.Assert(err, qt.IsNil)
	c.Assert(inv.Date.Format("2006-01-02"), qt.Equals, "2024-03-15")
}

func TestInvoiceLinesKeepSalePrice(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(t)
	kg := dbtest.ID(t, f.conn, "unite", "code", "KG")
	riz := dbtest.ID(t, f.conn, "article", "reference", "RIZ001")

	var cart sales.Cart
	_, err := f.sales.AddToCart(ctx, &cart, riz, kg, dec("2"))
	c.Assert(err, qt.IsNil)
	id, err := f.sales.Checkout(ctx, sales.Checkout{Client: "Paul", Date: saleDay, Cart: &cart})
	c.Assert(err, qt.IsNil)

	c.Assert(prices.NewRepo(f.conn).Update(ctx, riz, kg, dec("5000")), qt.IsNil)
	c.Assert(f.articles.SoftDelete(ctx, riz), qt.IsNil)

	lines, err := f.invoices.Lines(ctx, id)
	c.Assert(err, qt.IsNil)
	c.Assert(lines, qt.HasLen, 1)
	c.Assert(lines[0].UnitPrice.String(), qt.Equals, "4000")
	c.Assert(lines[0].LineTotal.String(), qt.Equals, "8000")
	c.Assert(lines[0].ArticleName, qt.Equals, "Riz")
}

func TestAddToCart_Refusals(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(t)
	suc := dbtest.ID(t, f.conn, "article", "reference", "SUC001")
	sac := dbtest.ID(t, f.conn, "unite", "code", "SAC")
	kg := dbtest.ID(t, f.conn, "unite", "code", "KG")

	var cart sales.Cart
	_, err := f.sales.AddToCart(ctx, &cart, suc, sac, dec("1"))
	c.Assert(err, qt.ErrorIs, sales.ErrNoPrice)
	c.Assert(err, qt.ErrorMatches, `no price for this article and unit: Sucre / Sac`)

	_, err = f.sales.AddToCart(ctx, &cart, suc, kg, decimal.Zero)
	c.Assert(err, qt.ErrorIs, sales.ErrQuantity)

	_, err = f.sales.AddToCart(ctx, &cart, 4242, kg, dec("1"))
	c.Assert(err, qt.ErrorIs, sales.ErrUnknownArticle)

	_, err = f.sales.AddToCart(ctx, &cart, suc, 4242, dec("1"))
	c.Assert(err, qt.ErrorIs, sales.ErrUnknownUnit)

	c.Assert(f.articles.SoftDelete(ctx, suc), qt.IsNil)
	_, err = f.sales.AddToCart(ctx, &cart, suc, kg, dec("1"))
	c.Assert(err, qt.ErrorIs, sales.ErrUnknownArticle)

	c.Assert(cart.Len(), qt.Equals, 0)
}

func TestCheckout_Validation(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(t)

	cart := &sales.Cart{Items: []sales.CartItem{{ArticleID: 1, UnitID: 1, Quantity: dec("1")}}}
	_, err := f.sales.Checkout(ctx, sales.Checkout{Client: "   ", Cart: cart})
	c.Assert(err, qt.ErrorIs, sales.ErrNoClient)

	_, err = f.sales.Checkout(ctx, sales.Checkout{Client: "Jean", Cart: &sales.Cart{}})
	c.Assert(err, qt.ErrorIs, sales.ErrEmptyCart)

	list, err := f.invoices.List(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(list, qt.HasLen, 0)
}

func TestCheckout_PartialInvoice(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(t)
	kg := dbtest.ID(t, f.conn, "unite", "code", "KG")
	riz := dbtest.ID(t, f.conn, "article", "reference", "RIZ001")
	suc := dbtest.ID(t, f.conn, "article", "reference", "SUC001")

	var cart sales.Cart
	_, err := f.sales.AddToCart(ctx, &cart, riz, kg, dec("1"))
	c.Assert(err, qt.IsNil)
	// позиция со ссылкой на несуществующую единицу: строка не запишется
	cart.Add(sales.CartItem{
		ArticleID: suc, ArticleName: "Sucre", UnitID: 4242, UnitLabel: "?",
		Quantity: dec("1"), UnitPrice: dec("100"), LineTotal: dec("100"),
	})
	_, err = f.sales.AddToCart(ctx, &cart, suc, kg, dec("2"))
	c.Assert(err, qt.IsNil)

	id, err := f.sales.Checkout(ctx, sales.Checkout{Client: "Jean", Date: saleDay, Cart: &cart})
	var partial *sales.PartialInvoiceError
	c.Assert(errors.As(err, &partial), qt.IsTrue, qt.Commentf("err: %v", err))
	c.Assert(partial.InvoiceID, qt.Equals, id)
	c.Assert(partial.Saved, qt.Equals, 2)
	c.Assert(partial.Want, qt.Equals, 3)
	c.Assert(err, qt.ErrorIs, db.ErrInUse)

	// счёт остаётся с итогом корзины, строк меньше
	inv, err := f.invoices.GetByID(ctx, id)
	c.Assert(err, qt.IsNil)
	c.Assert(inv.Total.String(), qt.Equals, "11100")
	lines, err := f.invoices.Lines(ctx, id)
	c.Assert(err, qt.IsNil)
	c.Assert(lines, qt.HasLen, 2)
}

func TestCart(t *testing.T) {
	c := qt.New(t)
	var cart sales.Cart
	cart.Add(sales.CartItem{ArticleName: "A", LineTotal: dec("10")})
	cart.Add(sales.CartItem{ArticleName: "B", LineTotal: dec("2.5")})
	cart.Add(sales.CartItem{ArticleName: "A", LineTotal: dec("10")})
	c.Assert(cart.Total().String(), qt.Equals, "22.5")

	c.Assert(cart.Remove(1), qt.IsNil)
	c.Assert(cart.Len(), qt.Equals, 2)
	c.Assert(cart.Total().String(), qt.Equals, "20")
	c.Assert(cart.Remove(5), qt.ErrorMatches, `cart has no item 5`)

	cart.Clear()
	c.Assert(cart.Len(), qt.Equals, 0)
	c.Assert(cart.Total().IsZero(), qt.IsTrue)
}
