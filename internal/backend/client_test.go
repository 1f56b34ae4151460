package backend_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tienda/internal/backend"
)

func newClient(t *testing.T, h http.HandlerFunc) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return backend.New(srv.URL, 2*time.Second)
}

func TestFetchCart_MissingCartIsEmpty(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	cart, err := c.FetchCart("tok")
	if err != nil {
		t.Fatalf("404 cart must normalize to empty, got %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("want empty cart, got %d items", len(cart.Items))
	}
}

func TestProduct_NormalizesFallbackFields(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		// backend serializes "title" and an image object list
		_, _ = w.Write([]byte(`{
			"id": "p9", "title": "Mochila", "price": 89000, "stock": 4,
			"images": [{"image_url": "https://cdn/x.jpg"}],
			"variants": [{"id": "v1", "size": "XL"}]
		}`))
	})
	p, err := c.Product("p9")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Mochila" {
		t.Fatalf("title fallback: want Mochila, got %q", p.Name)
	}
	if p.ImageURL != "https://cdn/x.jpg" {
		t.Fatalf("image fallback chain: got %q", p.ImageURL)
	}
	if len(p.Variants) != 1 || p.Variants[0].Name != "XL" {
		t.Fatalf("variant size fallback: got %+v", p.Variants)
	}
	if p.Stock == nil || *p.Stock != 4 {
		t.Fatalf("stock: want 4, got %v", p.Stock)
	}
}

func TestProduct_MissingStockStaysNil(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "p9", "name": "Mochila", "price": 89000}`))
	})
	p, err := c.Product("p9")
	if err != nil {
		t.Fatal(err)
	}
	if p.Stock != nil {
		t.Fatalf("absent stock must decode to nil, got %d", *p.Stock)
	}
}

func TestProducts_ForwardsSearchAndCategory(t *testing.T) {
	var gotQuery string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"results": [{"id": "p1", "name": "Camiseta", "price": 20000}]}`))
	})
	ps, err := c.Products("camisa azul", "ropa", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != 1 || ps[0].ID != "p1" {
		t.Fatalf("results: %+v", ps)
	}
	for _, want := range []string{"page=2", "search=camisa+azul", "category=ropa"} {
		if !strings.Contains(gotQuery, want) {
			t.Fatalf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestCategories_NormalizesTitleFallback(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/categories/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`[
			{"id": "c1", "name": "Ropa", "slug": "ropa"},
			{"id": "c2", "title": "Accesorios", "slug": "accesorios"}
		]`))
	})
	cats, err := c.Categories()
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 2 {
		t.Fatalf("want 2 categories, got %d", len(cats))
	}
	if cats[1].Name != "Accesorios" {
		t.Fatalf("title fallback: got %q", cats[1].Name)
	}
}

func TestStatusError_CarriesBackendMessage(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "stock insuficiente"}`))
	})
	err := c.AddItem("tok", "p1", 99, "")
	var se *backend.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("want StatusError, got %v", err)
	}
	if se.Status != http.StatusBadRequest || se.Message != "stock insuficiente" {
		t.Fatalf("got %+v", se)
	}
}

func TestRequests_CarryAuthAndWireShape(t *testing.T) {
	var gotAuth, gotBody string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	})
	if err := c.UpdateItem("tok-123", "it-9", 3); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("auth header: %q", gotAuth)
	}
	for _, want := range []string{`"item_id":"it-9"`, `"quantity":3`} {
		if !strings.Contains(gotBody, want) {
			t.Fatalf("body %q missing %q", gotBody, want)
		}
	}
}
