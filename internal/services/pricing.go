package services

import (
	"github.com/shopspring/decimal"

	"tienda/internal/domain"
)

// ShippingTable is the flat-rate shipping rule: one rate below the
// free-shipping threshold, zero at or above it.
type ShippingTable struct {
	FlatRate      int64
	FreeThreshold int64
}

func (t ShippingTable) Rate(subtotal int64) int64 {
	if subtotal >= t.FreeThreshold {
		return 0
	}
	return t.FlatRate
}

// ComputeTotals derives cart totals from line items and the active coupon.
// Pure: same inputs, same output, no state touched.
//
// Tax is charged on the pre-discount subtotal; that is the store's policy,
// not an accident. Fractional intermediate values (percentage discounts,
// tax) round half-to-even to whole currency units.
func ComputeTotals(items []domain.LineItem, coupon *domain.Coupon, taxRate decimal.Decimal, shipping ShippingTable) domain.Totals {
	var subtotal int64
	for _, it := range items {
		subtotal += it.Subtotal()
	}

	var discount int64
	if coupon != nil {
		switch coupon.Type {
		case domain.CouponPercentage:
			discount = decimal.NewFromInt(subtotal).
				Mul(decimal.NewFromInt(coupon.Value)).
				Div(decimal.NewFromInt(100)).
				RoundBank(0).
				IntPart()
		case domain.CouponFixed:
			discount = coupon.Value
		}
	}
	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}

	var ship int64
	if len(items) > 0 {
		ship = shipping.Rate(subtotal)
	}
	if coupon != nil && coupon.Type == domain.CouponShipping {
		ship = 0
	}

	tax := decimal.NewFromInt(subtotal).Mul(taxRate).RoundBank(0).IntPart()

	grand := subtotal - discount + tax + ship
	if grand < 0 {
		grand = 0
	}

	return domain.Totals{
		Subtotal:   subtotal,
		Discount:   discount,
		Tax:        tax,
		Shipping:   ship,
		GrandTotal: grand,
	}
}
