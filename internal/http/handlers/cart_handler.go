package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "tienda/internal/log"
	"tienda/internal/services"
	"tienda/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

// View renders the current cart with freshly computed totals. A backend
// failure degrades to an empty view plus a notification; the response is
// still a 200 so the storefront stays interactive.
func (h *CartHandler) View(c *fiber.Ctx) error {
	s := sess(c)
	view, err := h.Cart.View(s)
	if err != nil {
		applog.Error(c, "cart.view", err, nil)
		s.NotifyError("Error al cargar el carrito")
	}
	return respond(c, s, fiber.Map{"cart": view})
}

type addItemReq struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	VariantID string `json:"variant_id"`
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	s := sess(c)
	var req addItemReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	productID, ok := validate.ID(req.ProductID)
	if !ok {
		return badRequest(c, "invalid product_id")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	qty := validate.Quantity(req.Quantity)

	if err := h.Cart.Add(s, productID, qty, req.VariantID); err != nil {
		if services.IsValidation(err) {
			return badRequest(c, err.Error())
		}
		// transport failure: state is last-known-good, the shopper sees
		// the queued notification
		applog.Error(c, "cart.add", err, map[string]any{"product_id": productID})
	}
	return h.View(c)
}

type updateItemReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	s := sess(c)
	lineID, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid item id")
	}
	var req updateItemReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	qty := validate.Quantity(req.Quantity)

	if err := h.Cart.UpdateQuantity(s, lineID, qty); err != nil {
		if services.IsValidation(err) {
			return badRequest(c, err.Error())
		}
		applog.Error(c, "cart.update", err, map[string]any{"item_id": lineID})
	}
	return h.View(c)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	s := sess(c)
	lineID, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid item id")
	}
	if err := h.Cart.Remove(s, lineID); err != nil {
		if services.IsValidation(err) {
			return badRequest(c, err.Error())
		}
		applog.Error(c, "cart.remove", err, map[string]any{"item_id": lineID})
	}
	return h.View(c)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	s := sess(c)
	if err := h.Cart.Clear(s); err != nil {
		applog.Error(c, "cart.clear", err, nil)
	}
	return h.View(c)
}
