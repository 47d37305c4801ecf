package warehouses_test

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/Spok95/gestion-vente/internal/domain/warehouses"
	"github.com/Spok95/gestion-vente/internal/infra/db"
	"github.com/Spok95/gestion-vente/internal/infra/db/dbtest"
)

func TestCRUD(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	repo := warehouses.NewRepo(dbtest.Open(t))

	loc := "Toamasina"
	id, err := repo.Create(ctx, "Dépôt Est", &loc)
	c.Assert(err, qt.IsNil)

	list, err := repo.List(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(list, qt.HasLen, 2)
	c.Assert(list[0].Name, qt.Equals, "Dépôt Est")
	c.Assert(*list[0].Location, qt.Equals, "Toamasina")

	c.Assert(repo.Update(ctx, id, "Dépôt Est", nil), qt.IsNil)
	w, err := repo.GetByID(ctx, id)
	c.Assert(err, qt.IsNil)
	c.Assert(w.Location, qt.IsNil)

	c.Assert(repo.Update(ctx, 9999, "x", nil), qt.ErrorIs, db.ErrNotFound)

	c.Assert(repo.Delete(ctx, id), qt.IsNil)
	w, err = repo.GetByID(ctx, id)
	c.Assert(err, qt.IsNil)
	c.Assert(w, qt.IsNil)
	c.Assert(repo.Delete(ctx, id), qt.ErrorIs, db.ErrNotFound)
}

func TestDelete_InUse(t *testing.T) {
	c := qt.New(t)
	conn := dbtest.Open(t)
	repo := warehouses.NewRepo(conn)
	main := dbtest.ID(t, conn, "entrepot", "nom", "Entrepôt Principal")

	c.Assert(repo.Delete(context.Background(), main), qt.ErrorIs, db.ErrInUse)
}

func TestStats(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	conn := dbtest.Open(t)
	repo := warehouses.NewRepo(conn)
	main := dbtest.ID(t, conn, "entrepot", "nom", "Entrepôt Principal")
	riz := dbtest.ID(t, conn, "article", "reference", "RIZ001")
	kg := dbtest.ID(t, conn, "unite", "code", "KG")

	// два активных артикула без склада: в системе 4 активных, на складе 2
	_, err := conn.Exec(`INSERT INTO article (nom, reference) VALUES ('Huile', 'HUI001'), ('Sel', 'SEL001')`)
	c.Assert(err, qt.IsNil)

	_, err = conn.Exec(`INSERT INTO facture (nom_client, date_facture, montant_total) VALUES ('Jean', '2024-01-15', 12000.5)`)
	c.Assert(err, qt.IsNil)
	inv := dbtest.ID(t, conn, "facture", "nom_client", "Jean")
	_, err = conn.Exec(conn.Rebind(`
		INSERT INTO facture_detail (facture_id, article_id, unite_id, quantite, prix_unitaire, prix_total)
		VALUES (?, ?, ?, 2.5, 4000, 10000), (?, ?, ?, 0.5, 4001, 2000.5)`),
		inv, riz, kg, inv, riz, kg)
	c.Assert(err, qt.IsNil)

	st, err := repo.Stats(ctx, main)
	c.Assert(err, qt.IsNil)
	c.Assert(st.ActiveArticles, qt.Equals, 2)
	c.Assert(st.ArticlePercent, qt.Equals, 50.0)
	c.Assert(st.ByUnit, qt.DeepEquals, []warehouses.UnitShare{
		{Label: "Kilogramme", Articles: 2, Percent: 100},
		{Label: "Sac", Articles: 1, Percent: 50},
	})
	c.Assert(st.SoldQuantity.String(), qt.Equals, "3")
	c.Assert(st.Revenue.String(), qt.Equals, "12000.5")

	// продажи по деактивированному артикулу остаются в статистике
	_, err = conn.Exec(`UPDATE article SET actif = FALSE WHERE reference = 'RIZ001'`)
	c.Assert(err, qt.IsNil)
	st, err = repo.Stats(ctx, main)
	c.Assert(err, qt.IsNil)
	c.Assert(st.ActiveArticles, qt.Equals, 1)
	c.Assert(st.ArticlePercent, qt.Equals, 33.33)
	c.Assert(st.Revenue.String(), qt.Equals, "12000.5")
}

func TestStats_UnpricedAndEmpty(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	conn := dbtest.Open(t)
	repo := warehouses.NewRepo(conn)

	empty, err := repo.Create(ctx, "Vide", nil)
	c.Assert(err, qt.IsNil)
	_, err = conn.Exec(`UPDATE article SET actif = FALSE`)
	c.Assert(err, qt.IsNil)

	// ни одного активного артикула: 0%, не ошибка
	st, err := repo.Stats(ctx, empty)
	c.Assert(err, qt.IsNil)
	c.Assert(st.ActiveArticles, qt.Equals, 0)
	c.Assert(st.ArticlePercent, qt.Equals, 0.0)
	c.Assert(st.ByUnit, qt.HasLen, 0)
	c.Assert(st.SoldQuantity.IsZero(), qt.IsTrue)

	_, err = conn.Exec(conn.Rebind(`INSERT INTO article (nom, reference, entrepot_id) VALUES ('Savon', 'SAV001', ?)`), empty)
	c.Assert(err, qt.IsNil)
	st, err = repo.Stats(ctx, empty)
	c.Assert(err, qt.IsNil)
	c.Assert(st.ArticlePercent, qt.Equals, 100.0)
	c.Assert(st.ByUnit, qt.DeepEquals, []warehouses.UnitShare{{Label: "", Articles: 1, Percent: 100}})
}
