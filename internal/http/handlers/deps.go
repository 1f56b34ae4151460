package handlers

import (
	"github.com/jmoiron/sqlx"

	"tienda/internal/backend"
	"tienda/internal/config"
	"tienda/internal/services"
	"tienda/internal/store"
)

type Deps struct {
	CartHandler     *CartHandler
	CouponHandler   *CouponHandler
	AuthHandler     *AuthHandler
	OrderHandler    *OrderHandler
	CatalogHandler  *CatalogHandler
	WishlistHandler *WishlistHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, api *backend.Client) *Deps {
	guestRepo := store.NewGuestCartRepo(db)
	sessionRepo := store.NewSessionRepo(db)
	wishRepo := store.NewWishlistRepo(db)
	orderLog := store.NewOrderLogRepo(db)

	ship := services.ShippingTable{FlatRate: cfg.ShippingFlat, FreeThreshold: cfg.FreeShippingMin}

	cartSvc := services.NewCartService(api, guestRepo, cfg.TaxRate, ship)
	couponSvc := services.NewCouponService()
	authSvc := services.NewAuthService(api, sessionRepo, cartSvc)
	orderSvc := services.NewOrderService(api, cartSvc, orderLog, cfg.TaxRate, ship)
	catalogSvc := services.NewCatalogService(api)
	wishSvc := services.NewWishlistService(wishRepo, catalogSvc)

	return &Deps{
		CartHandler:     &CartHandler{Cart: cartSvc},
		CouponHandler:   &CouponHandler{Coupons: couponSvc, Cart: cartSvc},
		AuthHandler:     &AuthHandler{Auth: authSvc},
		OrderHandler:    &OrderHandler{Order: orderSvc},
		CatalogHandler:  &CatalogHandler{Catalog: catalogSvc},
		WishlistHandler: &WishlistHandler{Wish: wishSvc},
	}
}
