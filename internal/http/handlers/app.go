package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/jmoiron/sqlx"

	"rapidxcel/internal/authz"
	"rapidxcel/internal/config"
	"rapidxcel/internal/pricing"
	"rapidxcel/internal/qrcode"
	"rapidxcel/internal/repos"
	"rapidxcel/internal/services"
)

type Deps struct {
	Policy   authz.Policy
	Auth     *services.AuthService
	Sessions *session.Store

	AuthHandler      *AuthHandler
	CartHandler      *CartHandler
	OrderHandler     *OrderHandler
	CourierHandler   *CourierHandler
	InventoryHandler *InventoryHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, store *session.Store) *Deps {
	userRepo := repos.NewUserRepo(db)
	stockRepo := repos.NewStockRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	policy := authz.Default
	calc := pricing.NewCalculator(cfg.Shipping.BaseFee, cfg.Shipping.PerUnitRate, cfg.Shipping.Pincodes)
	tracker := qrcode.NewTracker(cfg.PublicURL, 256, "M")

	authSvc := services.NewAuthService(userRepo, cfg.Auth.BcryptCost)
	cartSvc := services.NewCartService(stockRepo, calc)
	invSvc := services.NewInventoryService(stockRepo, policy, cfg.Inventory.LowStockThreshold)
	orderSvc := services.NewOrderService(orderRepo, calc, policy, tracker)
	orderSvc.RejectEmptyCart = cfg.Orders.RejectEmptyCart

	return &Deps{
		Policy:           policy,
		Auth:             authSvc,
		Sessions:         store,
		AuthHandler:      &AuthHandler{Auth: authSvc},
		CartHandler:      &CartHandler{Carts: cartSvc, Inventory: invSvc},
		OrderHandler:     &OrderHandler{Orders: orderSvc},
		CourierHandler:   &CourierHandler{Orders: orderSvc},
		InventoryHandler: &InventoryHandler{Inventory: invSvc},
	}
}

// Mount installs the session middleware and every application route.
func Mount(app *fiber.App, d *Deps) {
	need := func(op authz.Operation) fiber.Handler { return Require(d.Policy, op) }

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	app.Use(Sessions(d.Sessions, d.Auth))

	// Accounts
	app.Get("/", d.AuthHandler.Index)
	app.Get("/register", d.AuthHandler.RegisterForm)
	app.Post("/register", d.AuthHandler.Register)
	app.Get("/login", d.AuthHandler.LoginForm)
	app.Post("/login", d.AuthHandler.Login)
	app.Post("/logout", d.AuthHandler.Logout)

	// Customer
	app.Get("/customer_orders", need(authz.BrowseCatalog), d.CartHandler.Catalog)
	app.Get("/place_order_page", need(authz.BrowseCatalog), d.CartHandler.Catalog)
	app.Post("/add_to_cart", need(authz.AddToCart), d.CartHandler.Add)
	app.Get("/order_review_page", need(authz.AddToCart), d.CartHandler.Review)
	app.Post("/place_order", need(authz.PlaceOrder), d.OrderHandler.Place)
	app.Get("/order_confirmation/:id", need(authz.ViewOwnOrders), d.OrderHandler.Confirmation)
	app.Get("/order_history", need(authz.ViewOwnOrders), d.OrderHandler.History)
	app.Get("/order_details/:id", need(authz.ViewOwnOrders), d.OrderHandler.Details)
	app.Get("/track_delivery/:id", need(authz.TrackOrder), d.OrderHandler.Track)
	app.Get("/track_delivery/:id/qr.png", need(authz.TrackOrder), d.OrderHandler.TrackQR)

	// Inventory Manager
	app.Get("/inventory", need(authz.ViewStock), d.InventoryHandler.List)
	app.Get("/inventory/add", need(authz.ManageStock), d.InventoryHandler.AddForm)
	app.Post("/inventory/add", need(authz.ManageStock), d.InventoryHandler.Add)
	app.Get("/inventory/edit/:id", need(authz.ManageStock), d.InventoryHandler.EditForm)
	app.Post("/inventory/edit/:id", need(authz.ManageStock), d.InventoryHandler.Edit)
	app.Post("/inventory/delete/:id", need(authz.ManageStock), d.InventoryHandler.Delete)

	// Supplier
	app.Get("/supplier_monitor", need(authz.MonitorSupply), d.InventoryHandler.SupplierMonitor)

	// Courier Service
	app.Get("/courier_shipments", need(authz.ViewShipments), d.CourierHandler.Shipments)
	app.Post("/update_status/:id", need(authz.UpdateStatus), d.CourierHandler.UpdateStatus)

	app.Use(func(c *fiber.Ctx) error {
		return renderStatus(c, fiber.StatusNotFound, "error", fiber.Map{"Message": "Page not found"})
	})
}
