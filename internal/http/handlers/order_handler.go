package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"tienda/internal/backend"
	applog "tienda/internal/log"
	"tienda/internal/services"
	"tienda/internal/validate"
)

type OrderHandler struct {
	Order *services.OrderService
}

type placeOrderReq struct {
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method"`
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	s := sess(c)
	var req placeOrderReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	addr, ok := validate.Address(req.ShippingAddress)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "shipping_address"})
		return badRequest(c, "Dirección de envío requerida")
	}

	order, clientTotals, err := h.Order.Place(s, addr, req.PaymentMethod)
	if err != nil {
		if errors.Is(err, services.ErrLoginRequired) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Debes iniciar sesión para realizar un pedido"})
		}
		if services.IsValidation(err) {
			return badRequest(c, err.Error())
		}
		applog.Error(c, "order.place", err, nil)
		c.Status(fiber.StatusBadGateway)
		return respond(c, s, fiber.Map{"error": "Error al crear el pedido"})
	}

	applog.Audit(c, "order.place", map[string]any{
		"order_id":     order.ID,
		"server_total": order.Total,
		"client_total": clientTotals.GrandTotal,
		"mismatch":     order.Total != clientTotals.GrandTotal,
	})
	return respond(c, s, fiber.Map{"order": order, "totals": clientTotals})
}

func (h *OrderHandler) History(c *fiber.Ctx) error {
	s := sess(c)
	orders, err := h.Order.History(s)
	if err != nil {
		if errors.Is(err, services.ErrLoginRequired) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Debes iniciar sesión"})
		}
		applog.Error(c, "orders.history", err, nil)
		c.Status(fiber.StatusBadGateway)
		return respond(c, s, fiber.Map{"error": "No se pudieron cargar los pedidos"})
	}
	return respond(c, s, fiber.Map{"orders": orders})
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	s := sess(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Pedido no encontrado"})
	}
	order, err := h.Order.Get(s, id)
	if err != nil {
		if errors.Is(err, services.ErrLoginRequired) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Debes iniciar sesión"})
		}
		if errors.Is(err, backend.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Pedido no encontrado"})
		}
		applog.Error(c, "order.view", err, map[string]any{"order_id": id})
		c.Status(fiber.StatusBadGateway)
		return respond(c, s, fiber.Map{"error": "No se pudo cargar el pedido"})
	}
	return respond(c, s, fiber.Map{"order": order})
}
