package units_test

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/Spok95/gestion-vente/internal/domain/units"
	"github.com/Spok95/gestion-vente/internal/infra/db"
	"github.com/Spok95/gestion-vente/internal/infra/db/dbtest"
)

func codes(us []units.Unit) []string {
	out := make([]string, 0, len(us))
	for _, u := range us {
		out = append(out, u.Code)
	}
	return out
}

func TestList_OrderedByLabel(t *testing.T) {
	c := qt.New(t)
	repo := units.NewRepo(dbtest.Open(t))

	got, err := repo.List(context.Background())
	c.Assert(err, qt.IsNil)
	c.Assert(codes(got), qt.DeepEquals, []string{"KG", "L", "PCS", "SAC"})
}

func TestCreate_DuplicateCodeKeepsExistingRow(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	repo := units.NewRepo(dbtest.Open(t))

	u, err := repo.Create(ctx, "BT", "Bouteille")
	c.Assert(err, qt.IsNil)
	c.Assert(u.ID, qt.Not(qt.Equals), int64(0))

	_, err = repo.Create(ctx, "KG", "Kilo bis")
	c.Assert(err, qt.ErrorIs, db.ErrConflict)

	got, err := repo.List(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(codes(got), qt.DeepEquals, []string{"BT", "KG", "L", "PCS", "SAC"})

	kg, err := repo.GetByCode(ctx, "KG")
	c.Assert(err, qt.IsNil)
	c.Assert(kg.Label, qt.Equals, "Kilogramme")
}

func TestUpdate(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	conn := dbtest.Open(t)
	repo := units.NewRepo(conn)
	l := dbtest.ID(t, conn, "unite", "code", "L")

	c.Assert(repo.Update(ctx, l, "LT", "Litre"), qt.IsNil)
	c.Assert(repo.Update(ctx, l, "KG", "Litre"), qt.ErrorIs, db.ErrConflict)
	c.Assert(repo.Update(ctx, 9999, "X", "X"), qt.ErrorIs, db.ErrNotFound)

	lt, err := repo.GetByCode(ctx, "LT")
	c.Assert(err, qt.IsNil)
	c.Assert(lt.ID, qt.Equals, l)
}

func TestDelete(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	conn := dbtest.Open(t)
	repo := units.NewRepo(conn)

	// KG используется в ценах Riz и Sucre
	kg := dbtest.ID(t, conn, "unite", "code", "KG")
	c.Assert(repo.Delete(ctx, kg), qt.ErrorIs, db.ErrInUse)

	pcs := dbtest.ID(t, conn, "unite", "code", "PCS")
	c.Assert(repo.Delete(ctx, pcs), qt.IsNil)
	c.Assert(repo.Delete(ctx, pcs), qt.ErrorIs, db.ErrNotFound)

	missing, err := repo.GetByCode(ctx, "PCS")
	c.Assert(err, qt.IsNil)
	c.Assert(missing, qt.IsNil)
}
