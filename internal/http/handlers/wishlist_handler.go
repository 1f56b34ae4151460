package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "tienda/internal/log"
	"tienda/internal/services"
	"tienda/internal/store"
	"tienda/internal/validate"
)

type WishlistHandler struct {
	Wish *services.WishlistService
}

func (h *WishlistHandler) List(c *fiber.Ctx) error {
	s := sess(c)
	rows, err := h.Wish.List(s)
	if err != nil {
		applog.Error(c, "wishlist.list", err, nil)
		rows = []store.WishlistRow{}
	}
	return respond(c, s, fiber.Map{"wishlist": rows})
}

type wishlistReq struct {
	ProductID string `json:"product_id"`
}

func (h *WishlistHandler) Save(c *fiber.Ctx) error {
	s := sess(c)
	var req wishlistReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	productID, ok := validate.ID(req.ProductID)
	if !ok {
		return badRequest(c, "invalid product_id")
	}
	if err := h.Wish.Save(s, productID); err != nil {
		applog.Error(c, "wishlist.save", err, map[string]any{"product_id": productID})
	}
	return h.List(c)
}

func (h *WishlistHandler) Unsave(c *fiber.Ctx) error {
	s := sess(c)
	productID, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product_id")
	}
	if err := h.Wish.Unsave(s, productID); err != nil {
		applog.Error(c, "wishlist.unsave", err, map[string]any{"product_id": productID})
	}
	return h.List(c)
}
