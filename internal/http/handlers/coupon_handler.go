package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "tienda/internal/log"
	"tienda/internal/services"
	"tienda/internal/validate"
)

type CouponHandler struct {
	Coupons *services.CouponService
	Cart    *services.CartService
}

type applyCouponReq struct {
	Code string `json:"code"`
}

func (h *CouponHandler) Apply(c *fiber.Ctx) error {
	s := sess(c)
	var req applyCouponReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	code, ok := validate.CouponCode(req.Code)
	if !ok {
		return badRequest(c, "Cupón inválido")
	}
	coupon, err := h.Coupons.Apply(s, code)
	if err != nil {
		applog.Security(c, "coupon.invalid", map[string]any{"code": code})
		return badRequest(c, err.Error())
	}
	applog.Info(c, "coupon.apply", map[string]any{"code": coupon.Code})

	view, verr := h.Cart.View(s)
	if verr != nil {
		applog.Error(c, "cart.view", verr, nil)
	}
	return respond(c, s, fiber.Map{"coupon": coupon, "cart": view})
}

func (h *CouponHandler) Remove(c *fiber.Ctx) error {
	s := sess(c)
	h.Coupons.Remove(s)
	view, err := h.Cart.View(s)
	if err != nil {
		applog.Error(c, "cart.view", err, nil)
	}
	return respond(c, s, fiber.Map{"cart": view})
}
