package services_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"tienda/internal/domain"
	"tienda/internal/services"
)

var (
	iva19    = decimal.NewFromFloat(0.19)
	stdTable = services.ShippingTable{FlatRate: 5000, FreeThreshold: 50000}
)

func stockOf(n int) *int { return &n }

func line(price int64, qty int) domain.LineItem {
	return domain.LineItem{
		ID:       "l1",
		Product:  domain.Product{ID: "p1", Name: "Producto", Price: price, Stock: stockOf(100)},
		Quantity: qty,
	}
}

func TestComputeTotals_ReferenceScenario(t *testing.T) {
	// one line 20000 x 2, 19% tax, flat shipping below threshold
	items := []domain.LineItem{line(20000, 2)}
	got := services.ComputeTotals(items, nil, iva19, stdTable)

	if got.Subtotal != 40000 {
		t.Fatalf("subtotal: want 40000, got %d", got.Subtotal)
	}
	if got.Tax != 7600 {
		t.Fatalf("tax: want 7600, got %d", got.Tax)
	}
	if got.Shipping != 5000 {
		t.Fatalf("shipping: want 5000, got %d", got.Shipping)
	}
	if got.GrandTotal != 52600 {
		t.Fatalf("grand total: want 52600, got %d", got.GrandTotal)
	}
}

func TestComputeTotals_Pure(t *testing.T) {
	items := []domain.LineItem{line(13337, 3), line(999, 1)}
	coupon := &domain.Coupon{Code: "DESCUENTO10", Type: domain.CouponPercentage, Value: 10}

	a := services.ComputeTotals(items, coupon, iva19, stdTable)
	b := services.ComputeTotals(items, coupon, iva19, stdTable)
	if a != b {
		t.Fatalf("identical inputs gave different totals: %+v vs %+v", a, b)
	}

	// changing only the coupon must not move the subtotal
	c := services.ComputeTotals(items, nil, iva19, stdTable)
	if c.Subtotal != a.Subtotal {
		t.Fatalf("coupon changed subtotal: %d vs %d", c.Subtotal, a.Subtotal)
	}
}

func TestComputeTotals_PercentageCoupon(t *testing.T) {
	items := []domain.LineItem{line(50000, 2)} // subtotal 100000
	coupon := &domain.Coupon{Code: "DESCUENTO10", Type: domain.CouponPercentage, Value: 10}
	got := services.ComputeTotals(items, coupon, iva19, stdTable)
	if got.Discount != 10000 {
		t.Fatalf("discount: want 10000, got %d", got.Discount)
	}
}

func TestComputeTotals_ShippingCoupon(t *testing.T) {
	// below the free threshold, the shipping coupon still zeroes shipping
	items := []domain.LineItem{line(10000, 1)}
	coupon := &domain.Coupon{Code: "ENVIOGRATIS", Type: domain.CouponShipping}
	got := services.ComputeTotals(items, coupon, iva19, stdTable)
	if got.Shipping != 0 {
		t.Fatalf("shipping: want 0, got %d", got.Shipping)
	}
	if got.Discount != 0 {
		t.Fatalf("shipping coupon must not touch the subtotal discount, got %d", got.Discount)
	}
}

func TestComputeTotals_FreeShippingThreshold(t *testing.T) {
	at := services.ComputeTotals([]domain.LineItem{line(50000, 1)}, nil, iva19, stdTable)
	if at.Shipping != 0 {
		t.Fatalf("at threshold: want free shipping, got %d", at.Shipping)
	}
	below := services.ComputeTotals([]domain.LineItem{line(49999, 1)}, nil, iva19, stdTable)
	if below.Shipping != 5000 {
		t.Fatalf("below threshold: want 5000, got %d", below.Shipping)
	}
}

func TestComputeTotals_DiscountClamped(t *testing.T) {
	items := []domain.LineItem{line(3000, 1)}
	cases := []domain.Coupon{
		{Code: "BIENVENIDO", Type: domain.CouponFixed, Value: 5000},
		{Code: "TODO", Type: domain.CouponPercentage, Value: 150},
		{Code: "RARO", Type: domain.CouponFixed, Value: -100},
	}
	for _, cp := range cases {
		got := services.ComputeTotals(items, &cp, iva19, stdTable)
		if got.Discount < 0 || got.Discount > got.Subtotal {
			t.Fatalf("%s: discount %d out of [0, %d]", cp.Code, got.Discount, got.Subtotal)
		}
		if got.GrandTotal < 0 {
			t.Fatalf("%s: negative grand total %d", cp.Code, got.GrandTotal)
		}
	}
}

func TestComputeTotals_TaxOnPreDiscountSubtotal(t *testing.T) {
	items := []domain.LineItem{line(100000, 1)}
	coupon := &domain.Coupon{Code: "DESCUENTO10", Type: domain.CouponPercentage, Value: 10}
	got := services.ComputeTotals(items, coupon, iva19, stdTable)
	// 19% of 100000, not of the discounted 90000
	if got.Tax != 19000 {
		t.Fatalf("tax: want 19000, got %d", got.Tax)
	}
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	got := services.ComputeTotals(nil, nil, iva19, stdTable)
	if got != (domain.Totals{}) {
		t.Fatalf("empty cart should be all zeroes, got %+v", got)
	}
}

func TestComputeTotals_RoundsHalfEven(t *testing.T) {
	// 19% of 6450 is 1225.50; banker's rounding lands on the even 1226
	got := services.ComputeTotals([]domain.LineItem{line(6450, 1)}, nil, iva19, stdTable)
	if got.Tax != 1226 {
		t.Fatalf("tax: want 1226, got %d", got.Tax)
	}
}
