package services

import (
	"strings"

	"tienda/internal/domain"
	"tienda/internal/session"
)

// CouponService validates discount codes against the storefront's allow-list
// and keeps the active coupon on the session. The list only gates what the
// shopper sees; the applied code travels with the order so the backend has
// the final say at checkout.
type CouponService struct {
	allow map[string]domain.Coupon
}

func NewCouponService() *CouponService {
	return &CouponService{allow: map[string]domain.Coupon{
		"DESCUENTO10": {Code: "DESCUENTO10", Type: domain.CouponPercentage, Value: 10, Description: "10% de descuento"},
		"ENVIOGRATIS": {Code: "ENVIOGRATIS", Type: domain.CouponShipping, Value: 0, Description: "Envío gratuito"},
		"BIENVENIDO":  {Code: "BIENVENIDO", Type: domain.CouponFixed, Value: 5000, Description: "$5.000 de descuento"},
	}}
}

// Apply matches the code case-insensitively and makes it the session's
// active coupon, replacing any previous one.
func (s *CouponService) Apply(sess *session.Session, code string) (domain.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	c, ok := s.allow[code]
	if !ok {
		return domain.Coupon{}, validation("Cupón inválido")
	}
	sess.SetCoupon(&c)
	sess.Notify("info", "Cupón aplicado exitosamente")
	return c, nil
}

// Remove clears the active coupon unconditionally.
func (s *CouponService) Remove(sess *session.Session) {
	sess.SetCoupon(nil)
	sess.Notify("info", "Cupón removido")
}
