package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shopspring/decimal"

	"tienda/internal/backend"
	"tienda/internal/config"
	"tienda/internal/http/handlers"
	"tienda/internal/session"
	"tienda/internal/store"
)

// fakeShop is the minimal backend slice the handler flows touch.
type fakeShop struct {
	mu    sync.Mutex
	items []map[string]any
	next  int
}

func (f *fakeShop) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/products/"):
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "p1", "name": "Camiseta", "price": 20000, "stock": 10,
		})
	case r.Method == http.MethodGet && r.URL.Path == "/cart/":
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "c1", "items": f.items})
	case r.Method == http.MethodPost && r.URL.Path == "/cart/add_item/":
		var req struct {
			ProductID string `json:"product_id"`
			Quantity  int    `json:"quantity"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.next++
		f.items = append(f.items, map[string]any{
			"id":       "s" + strconv.Itoa(f.next),
			"product":  map[string]any{"id": req.ProductID, "name": "Camiseta", "price": 20000, "stock": 10},
			"quantity": req.Quantity,
		})
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPost && r.URL.Path == "/auth/login/":
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access": "tok-1",
			"user":   map[string]string{"id": "u1", "email": "ana@example.com", "name": "Ana"},
		})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	fake := &fakeShop{}
	srv := httptest.NewServer(http.HandlerFunc(fake.serve))
	t.Cleanup(srv.Close)

	db, err := store.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{
		TaxRate:         decimal.NewFromFloat(0.19),
		ShippingFlat:    5000,
		FreeShippingMin: 50000,
	}
	api := backend.New(srv.URL, 2*time.Second)
	sessions := session.NewManager(store.NewSessionRepo(db))
	deps := handlers.NewDeps(db, cfg, api)

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(handlers.SessionMiddleware(sessions))
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart/items", deps.CartHandler.Add)
	app.Patch("/cart/items/:id", deps.CartHandler.Update)
	app.Delete("/cart/items/:id", deps.CartHandler.Remove)
	app.Delete("/cart", deps.CartHandler.Clear)
	app.Post("/cart/coupon", deps.CouponHandler.Apply)
	app.Delete("/cart/coupon", deps.CouponHandler.Remove)
	app.Post("/orders", deps.OrderHandler.Place)
	app.Post("/login", deps.AuthHandler.Login)
	app.Post("/logout", deps.AuthHandler.Logout)
	return app
}

func sidCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == "sid" {
			return c.Value
		}
	}
	return ""
}

type cartEnvelope struct {
	Cart struct {
		Items []struct {
			ID       string `json:"id"`
			Quantity int    `json:"quantity"`
		} `json:"items"`
		Totals struct {
			Subtotal   int64 `json:"subtotal"`
			Discount   int64 `json:"discount"`
			Tax        int64 `json:"tax"`
			Shipping   int64 `json:"shipping"`
			GrandTotal int64 `json:"grand_total"`
		} `json:"totals"`
	} `json:"cart"`
	Notifications []struct {
		Level   string `json:"level"`
		Message string `json:"message"`
	} `json:"notifications"`
}

func jsonReq(method, target, body, sid string) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	return req
}

func decodeCart(t *testing.T, resp *http.Response) cartEnvelope {
	t.Helper()
	var env cartEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestCartFlow_GuestAddComputesTotals(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(jsonReq("POST", "/cart/items", `{"product_id":"p1","quantity":2}`, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	env := decodeCart(t, resp)
	if len(env.Cart.Items) != 1 || env.Cart.Items[0].Quantity != 2 {
		t.Fatalf("cart items: %+v", env.Cart.Items)
	}
	tt := env.Cart.Totals
	if tt.Subtotal != 40000 || tt.Tax != 7600 || tt.Shipping != 5000 || tt.GrandTotal != 52600 {
		t.Fatalf("totals: %+v", tt)
	}
	found := false
	for _, n := range env.Notifications {
		if strings.Contains(n.Message, "agregado") {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing add notification: %+v", env.Notifications)
	}
}

func TestCartFlow_InvalidQuantityRejected(t *testing.T) {
	app := newTestApp(t)
	resp, err := app.Test(jsonReq("POST", "/cart/items", `{"product_id":"p1","quantity":-3}`, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}
}

func TestCoupon_InvalidCodeRejected(t *testing.T) {
	app := newTestApp(t)
	resp, err := app.Test(jsonReq("POST", "/cart/coupon", `{"code":"NOEXISTE"}`, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for unknown code, got %d", resp.StatusCode)
	}
}

func TestCoupon_ShippingCouponZeroesShipping(t *testing.T) {
	app := newTestApp(t)

	addResp, err := app.Test(jsonReq("POST", "/cart/items", `{"product_id":"p1","quantity":1}`, ""))
	if err != nil {
		t.Fatal(err)
	}
	sid := sidCookie(addResp)
	if sid == "" {
		t.Fatal("no sid cookie issued")
	}

	// lower-case code: lookup is case-insensitive
	resp, err := app.Test(jsonReq("POST", "/cart/coupon", `{"code":"enviogratis"}`, sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	env := decodeCart(t, resp)
	if env.Cart.Totals.Shipping != 0 {
		t.Fatalf("shipping coupon must zero shipping, got %d", env.Cart.Totals.Shipping)
	}
	if env.Cart.Totals.Discount != 0 {
		t.Fatalf("shipping coupon must not discount the subtotal, got %d", env.Cart.Totals.Discount)
	}
}

func TestCheckout_RequiresLogin(t *testing.T) {
	app := newTestApp(t)
	resp, err := app.Test(jsonReq("POST", "/orders",
		`{"shipping_address":"Calle 1 #2-3","payment_method":"card"}`, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401 for guest checkout, got %d", resp.StatusCode)
	}
}

func TestLoginFlow_ReconcilesGuestCart(t *testing.T) {
	app := newTestApp(t)

	addResp, err := app.Test(jsonReq("POST", "/cart/items", `{"product_id":"p1","quantity":2}`, ""))
	if err != nil {
		t.Fatal(err)
	}
	sid := sidCookie(addResp)

	loginResp, err := app.Test(jsonReq("POST", "/login",
		`{"email":"ana@example.com","password":"Passw0rd!"}`, sid))
	if err != nil {
		t.Fatal(err)
	}
	if loginResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(loginResp.Body)
		t.Fatalf("login: want 200, got %d (%s)", loginResp.StatusCode, body)
	}

	cartResp, err := app.Test(jsonReq("GET", "/cart", "", sid))
	if err != nil {
		t.Fatal(err)
	}
	env := decodeCart(t, cartResp)
	if len(env.Cart.Items) != 1 || env.Cart.Items[0].Quantity != 2 {
		t.Fatalf("reconciled cart: %+v", env.Cart.Items)
	}
	if !strings.HasPrefix(env.Cart.Items[0].ID, "s") {
		t.Fatalf("want a backend-issued line id, got %q", env.Cart.Items[0].ID)
	}
}
