package main

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"tienda/internal/backend"
	"tienda/internal/config"
	"tienda/internal/http/handlers"
	applog "tienda/internal/log"
	"tienda/internal/session"
	"tienda/internal/store"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := store.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	api := backend.New(cfg.BackendURL, cfg.BackendTimeout)
	sessions := session.NewManager(store.NewSessionRepo(db))

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and answer with a friendly message; internals stay out
			// of the response.
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Algo salió mal. Intenta de nuevo.",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/healthz")
		},
	}))
	app.Use(handlers.SessionMiddleware(sessions))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg, api)

	// Catalog (search throttled harder than the global limit)
	app.Get("/products", limiter.New(limiter.Config{Max: 20, Expiration: time.Minute}), deps.CatalogHandler.List)
	app.Get("/products/:id", deps.CatalogHandler.Detail)
	app.Get("/categories", deps.CatalogHandler.Categories)

	// Cart
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart/items", deps.CartHandler.Add)
	app.Patch("/cart/items/:id", deps.CartHandler.Update)
	app.Delete("/cart/items/:id", deps.CartHandler.Remove)
	app.Delete("/cart", deps.CartHandler.Clear)

	// Coupons
	app.Post("/cart/coupon", deps.CouponHandler.Apply)
	app.Delete("/cart/coupon", deps.CouponHandler.Remove)

	// Checkout & order tracking
	app.Post("/orders", deps.OrderHandler.Place)
	app.Get("/orders", handlers.RequireUser(), deps.OrderHandler.History)
	app.Get("/orders/:id", handlers.RequireUser(), deps.OrderHandler.View)

	// Wishlist
	app.Get("/wishlist", deps.WishlistHandler.List)
	app.Post("/wishlist", deps.WishlistHandler.Save)
	app.Delete("/wishlist/:id", deps.WishlistHandler.Unsave)

	// Auth (credential endpoints share one throttle)
	credLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.auth.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Demasiados intentos. Intenta más tarde."})
		},
	})
	app.Post("/login", credLimiter, deps.AuthHandler.Login)
	app.Post("/register", credLimiter, deps.AuthHandler.Register)
	app.Post("/logout", deps.AuthHandler.Logout)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
