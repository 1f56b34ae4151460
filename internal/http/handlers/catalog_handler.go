package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"tienda/internal/backend"
	"tienda/internal/domain"
	applog "tienda/internal/log"
	"tienda/internal/services"
	"tienda/internal/validate"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

func (h *CatalogHandler) List(c *fiber.Ctx) error {
	s := sess(c)
	query := ""
	if raw := c.Query("search"); raw != "" {
		q, ok := validate.Q(raw)
		if !ok {
			return badRequest(c, "invalid search query")
		}
		query = q
	}
	category := ""
	if raw := c.Query("category"); raw != "" {
		cat, ok := validate.ID(raw)
		if !ok {
			return badRequest(c, "invalid category")
		}
		category = cat
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))

	products, err := h.Catalog.Search(query, category, page)
	if err != nil {
		applog.Error(c, "catalog.list", err, map[string]any{"search": query, "category": category})
		s.NotifyError("Error al cargar los productos")
	}
	if products == nil {
		products = []domain.Product{}
	}
	return respond(c, s, fiber.Map{"products": products})
}

func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	s := sess(c)
	cats, err := h.Catalog.Categories()
	if err != nil {
		applog.Error(c, "catalog.categories", err, nil)
		s.NotifyError("Error al cargar las categorías")
	}
	if cats == nil {
		cats = []domain.Category{}
	}
	return respond(c, s, fiber.Map{"categories": cats})
}

func (h *CatalogHandler) Detail(c *fiber.Ctx) error {
	s := sess(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Producto no encontrado"})
	}
	p, err := h.Catalog.Product(id)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Producto no encontrado"})
		}
		applog.Error(c, "catalog.detail", err, map[string]any{"product_id": id})
		c.Status(fiber.StatusBadGateway)
		return respond(c, s, fiber.Map{"error": "No se pudo cargar el producto"})
	}
	return respond(c, s, fiber.Map{"product": p})
}
