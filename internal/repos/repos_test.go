package repos_test

import (
	"database/sql"
	"errors"
	"reflect"
	"testing"

	"github.com/jmoiron/sqlx"

	"mathiphone/internal/domain"
	"mathiphone/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestProductRepo_CRUD(t *testing.T) {
	db := memdb(t)
	r := repos.NewProductRepo(db)

	seeded, err := r.List("")
	if err != nil {
		t.Fatal(err)
	}
	if len(seeded) != 4 {
		t.Fatalf("want 4 seeded products, got %d", len(seeded))
	}
	if seeded[0].ID != "ip15p-001" {
		t.Fatalf("want newest first, got %s", seeded[0].ID)
	}

	p := &domain.Product{
		Name: "AirPods Pro 2", Category: "airpods", Model: "pro-2", Type: "pro",
		Condition: "like-new", PriceARS: 250000, PriceUSD: 250,
		Features: []string{"ANC", "USB-C"}, Available: true, WarrantyMonths: 3,
	}
	if err := r.Create(p); err != nil {
		t.Fatal(err)
	}
	if p.ID == "" || p.CreatedAt == "" {
		t.Fatalf("create did not stamp id/created_at: %+v", p)
	}

	got, err := r.Get(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.BatteryHealth != nil {
		t.Fatalf("battery should be NULL, got %v", *got.BatteryHealth)
	}
	if !reflect.DeepEqual(got.Features, []string{"ANC", "USB-C"}) {
		t.Fatalf("features round trip: %v", got.Features)
	}

	b := 81
	got.BatteryHealth = &b
	got.PriceUSD = 240
	if err := r.Update(&got); err != nil {
		t.Fatal(err)
	}
	again, _ := r.Get(p.ID)
	if again.BatteryHealth == nil || *again.BatteryHealth != 81 || again.PriceUSD != 240 {
		t.Fatalf("update not persisted: %+v", again)
	}
	if again.PriceARS != 250000 {
		t.Fatalf("price_ars must not be derived on update: %v", again.PriceARS)
	}

	airpods, _ := r.List("airpods")
	if len(airpods) != 1 {
		t.Fatalf("category list: %d", len(airpods))
	}

	if err := r.Delete(p.ID); err != nil {
		t.Fatal(err)
	}
	if err := r.Delete(p.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("second delete: %v", err)
	}
	missing := domain.Product{ID: "nope", Category: "iphone", Condition: "good"}
	if err := r.Update(&missing); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("update missing: %v", err)
	}
}

func TestProductRepo_GetManyKeepsOrder(t *testing.T) {
	r := repos.NewProductRepo(memdb(t))
	got, err := r.GetMany([]string{"pencil-001", "gone", "ip13-001"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "pencil-001" || got[1].ID != "ip13-001" {
		t.Fatalf("got %+v", got)
	}
}

func TestCompareRepo_ReplaceAndCascade(t *testing.T) {
	db := memdb(t)
	c := repos.NewCompareRepo(db)
	if err := c.Replace("sid-1", []string{"ip13-001", "pencil-001"}); err != nil {
		t.Fatal(err)
	}
	ids, err := c.Load("sid-1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ids, []string{"ip13-001", "pencil-001"}) {
		t.Fatalf("got %v", ids)
	}

	if err := repos.NewProductRepo(db).Delete("ip13-001"); err != nil {
		t.Fatal(err)
	}
	ids, _ = c.Load("sid-1")
	if !reflect.DeepEqual(ids, []string{"pencil-001"}) {
		t.Fatalf("deleted product should leave the selection, got %v", ids)
	}
}

func TestCompareRepo_Move(t *testing.T) {
	c := repos.NewCompareRepo(memdb(t))
	if err := c.Replace("sid-anon", []string{"mba-m2-001", "ip13-001"}); err != nil {
		t.Fatal(err)
	}
	if err := c.Move("sid-anon", "sid-new"); err != nil {
		t.Fatal(err)
	}
	if ids, _ := c.Load("sid-anon"); len(ids) != 0 {
		t.Fatalf("old session kept %v", ids)
	}
	ids, _ := c.Load("sid-new")
	if !reflect.DeepEqual(ids, []string{"mba-m2-001", "ip13-001"}) {
		t.Fatalf("got %v", ids)
	}
}

func TestRateRepo_SeedAndSave(t *testing.T) {
	r := repos.NewRateRepo(memdb(t))
	got, err := r.Get()
	if err != nil {
		t.Fatal(err)
	}
	if got.ARS != 1000 || got.BTC != 50000 {
		t.Fatalf("seed rates: %+v", got)
	}
	got.ARS = 1200
	if err := r.Save(&got); err != nil {
		t.Fatal(err)
	}
	again, _ := r.Get()
	if again.ARS != 1200 || again.UpdatedAt == "" {
		t.Fatalf("save: %+v", again)
	}
}
