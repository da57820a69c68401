package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func iphoneForm() url.Values {
	return url.Values{
		"name":            {"iPhone 14"},
		"model":           {"14"},
		"type":            {"normal"},
		"storage":         {"128GB"},
		"color":           {"Sierra Blue"},
		"condition":       {"excellent"},
		"battery_health":  {"95"},
		"price_ars":       {""},
		"price_usd":       {"1.000"},
		"available":       {"1"},
		"warranty_months": {"3"},
	}
}

func TestAdminCreateProductIsAudited(t *testing.T) {
	ta := newApp(t)
	admin := ta.session(t, "sid-admin", "u-admin")

	var resp *http.Response
	entries := captureLogs(t, func() {
		resp = ta.post(t, "/admin/products/iphone", iphoneForm(), admin)
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect, got %d: %s", resp.StatusCode, readBody(t, resp))
	}
	if loc := resp.Header.Get("Location"); !strings.HasPrefix(loc, "/admin/products/iphone?saved=") {
		t.Fatalf("unexpected redirect %q", loc)
	}

	e, ok := findLog(entries, "admin.products.create")
	if !ok {
		t.Fatalf("admin.products.create not logged: %+v", entries)
	}
	if e.Level != "audit" || e.UserID != "u-admin" || e.Fields["category"] != "iphone" {
		t.Fatalf("unexpected audit entry: %+v", e)
	}
	if e.Fields["price_ars"] != float64(1000000) || e.Fields["price_usd"] != float64(1000) {
		t.Fatalf("prices not normalized: %+v", e.Fields)
	}

	var n int
	if err := ta.db.Get(&n, `SELECT COUNT(*) FROM products WHERE name='iPhone 14' AND price_ars=1000000`); err != nil || n != 1 {
		t.Fatalf("product not stored: n=%d err=%v", n, err)
	}
}

func TestAdminInvalidProductKeepsInput(t *testing.T) {
	ta := newApp(t)
	admin := ta.session(t, "sid-admin", "u-admin")

	form := iphoneForm()
	form.Set("name", "")
	form.Set("battery_health", "140")

	var resp *http.Response
	entries := captureLogs(t, func() {
		resp = ta.post(t, "/admin/products/iphone", form, admin)
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, `value="Sierra Blue"`) || !strings.Contains(body, `value="1.000"`) {
		t.Fatalf("typed values lost: %s", body)
	}
	if _, ok := findLog(entries, "validation.fail"); !ok {
		t.Fatalf("validation.fail not logged: %+v", entries)
	}
	if _, ok := findLog(entries, "admin.products.create"); ok {
		t.Fatal("invalid product must not be audited as created")
	}
}

func TestAdminEditAndDeleteProduct(t *testing.T) {
	ta := newApp(t)
	admin := ta.session(t, "sid-admin", "u-admin")

	body := readBody(t, ta.get(t, "/admin/products/iphone/ip13-001/edit", admin))
	if !strings.Contains(body, `value="520.000"`) {
		t.Fatalf("edit form should show the stored ARS price: %s", body)
	}

	form := iphoneForm()
	form.Set("name", "iPhone 13 Mini")
	form.Set("price_ars", "480.000")
	form.Set("price_usd", "")
	entries := captureLogs(t, func() {
		resp := ta.post(t, "/admin/products/iphone/ip13-001", form, admin)
		if resp.StatusCode != http.StatusFound {
			t.Fatalf("update: expected redirect, got %d", resp.StatusCode)
		}
	})
	e, ok := findLog(entries, "admin.products.update")
	if !ok || e.Fields["product"] != "ip13-001" || e.Fields["price_usd"] != float64(480) {
		t.Fatalf("unexpected update audit: %+v", entries)
	}

	// wrong category for the id
	if resp := ta.get(t, "/admin/products/macbook/ip13-001/edit", admin); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 across categories, got %d", resp.StatusCode)
	}

	entries = captureLogs(t, func() {
		resp := ta.post(t, "/admin/products/iphone/ip13-001/delete", nil, admin)
		if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/admin/products/iphone" {
			t.Fatalf("delete: got %d %q", resp.StatusCode, resp.Header.Get("Location"))
		}
	})
	if _, ok := findLog(entries, "admin.products.delete"); !ok {
		t.Fatalf("admin.products.delete not logged: %+v", entries)
	}
	if resp := ta.get(t, "/product/ip13-001", ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("deleted product still served: %d", resp.StatusCode)
	}
}

func TestAdminRatesUpdate(t *testing.T) {
	ta := newApp(t)
	admin := ta.session(t, "sid-admin", "u-admin")

	form := url.Values{"ars": {"1185,5"}, "usdt": {"1"}, "btc": {"65000"}, "eth": {"3500"}}
	entries := captureLogs(t, func() {
		resp := ta.post(t, "/admin/rates", form, admin)
		if resp.StatusCode != http.StatusFound {
			t.Fatalf("expected redirect, got %d", resp.StatusCode)
		}
	})
	e, ok := findLog(entries, "admin.rates.update")
	if !ok || e.Fields["ars"] != 1185.5 {
		t.Fatalf("unexpected rates audit: %+v", entries)
	}

	form.Set("btc", "0")
	captureLogs(t, func() {
		if resp := ta.post(t, "/admin/rates", form, admin); resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("zero rate: expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestAdminUnknownCategory(t *testing.T) {
	ta := newApp(t)
	admin := ta.session(t, "sid-admin", "u-admin")
	captureLogs(t, func() {
		if resp := ta.get(t, "/admin/products/android", admin); resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", resp.StatusCode)
		}
	})
}

func TestAdminRatesRejectNonFinite(t *testing.T) {
	ta := newApp(t)
	admin := ta.session(t, "sid-admin", "u-admin")

	for _, btc := range []string{"Infinity", "inf", "NaN", "1e400"} {
		form := url.Values{"ars": {"1200"}, "usdt": {"1"}, "btc": {btc}, "eth": {"3000"}}
		entries := captureLogs(t, func() {
			if resp := ta.post(t, "/admin/rates", form, admin); resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("btc=%s: expected 400, got %d", btc, resp.StatusCode)
			}
		})
		if _, ok := findLog(entries, "admin.rates.update"); ok {
			t.Fatalf("btc=%s: rejected rates were audited as saved", btc)
		}
	}

	var btc float64
	if err := ta.db.Get(&btc, `SELECT btc FROM exchange_rates WHERE id=1`); err != nil || btc != 50000 {
		t.Fatalf("stored btc changed: %v %v", btc, err)
	}
	if resp := ta.get(t, "/?currency=BTC", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("catalog in BTC: expected 200, got %d", resp.StatusCode)
	}
}

func TestAdminRatesAcceptGroupedInput(t *testing.T) {
	ta := newApp(t)
	admin := ta.session(t, "sid-admin", "u-admin")

	form := url.Values{"ars": {"1.185,5"}, "usdt": {"1.001"}, "btc": {"65000"}, "eth": {"3500.25"}}
	captureLogs(t, func() {
		if resp := ta.post(t, "/admin/rates", form, admin); resp.StatusCode != http.StatusFound {
			t.Fatalf("expected redirect, got %d", resp.StatusCode)
		}
	})
	var got struct {
		ARS  float64 `db:"ars"`
		USDT float64 `db:"usdt"`
		BTC  float64 `db:"btc"`
		ETH  float64 `db:"eth"`
	}
	if err := ta.db.Get(&got, `SELECT ars, usdt, btc, eth FROM exchange_rates WHERE id=1`); err != nil {
		t.Fatal(err)
	}
	if got.ARS != 1185.5 || got.USDT != 1.001 || got.ETH != 3500.25 {
		t.Fatalf("unexpected rates: %+v", got)
	}
}
