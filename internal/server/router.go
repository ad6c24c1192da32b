package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/saaspos/sales-service/internal/auth"
	categoryhandler "github.com/saaspos/sales-service/internal/category/handler"
	checkouthandler "github.com/saaspos/sales-service/internal/checkout/handler"
	inventoryhandler "github.com/saaspos/sales-service/internal/inventory/handler"
	producthandler "github.com/saaspos/sales-service/internal/product/handler"
	saleshandler "github.com/saaspos/sales-service/internal/sales/handler"
	settingshandler "github.com/saaspos/sales-service/internal/settings/handler"
	weborderhandler "github.com/saaspos/sales-service/internal/weborder/handler"
)

type Handlers struct {
	Product   *producthandler.ProductHandler
	Category  *categoryhandler.CategoryHandler
	Sales     *saleshandler.SalesHandler
	Checkout  *checkouthandler.CheckoutHandler
	WebOrder  *weborderhandler.WebOrderHandler
	Settings  *settingshandler.SettingsHandler
	Inventory *inventoryhandler.InventoryHandler
}

// RegisterRoutes wires the public storefront surface and the
// JWT-protected tenant API.
func RegisterRoutes(app *fiber.App, h *Handlers, jwtSecret string) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Public storefront: addressed by shop slug, no credentials.
	store := app.Group("/api/store/:slug")
	store.Post("/orders", h.WebOrder.Place)

	api := app.Group("/api", auth.NewMiddleware(jwtSecret))

	products := api.Group("/products")
	products.Post("", h.Product.Create)
	products.Get("", h.Product.List)
	products.Get("/:id", h.Product.Get)
	products.Put("/:id", h.Product.Update)
	products.Delete("/:id", auth.RequireRole(auth.RoleAdmin), h.Product.Delete)

	categories := api.Group("/categories")
	categories.Post("", h.Category.Create)
	categories.Get("", h.Category.List)
	categories.Put("/:id", h.Category.Update)
	categories.Delete("/:id", h.Category.Delete)

	sales := api.Group("/sales")
	sales.Post("", h.Sales.Create)
	sales.Get("", h.Sales.List)
	sales.Get("/:id", h.Sales.Get)
	sales.Put("/:id", auth.RequireRole(auth.RoleAdmin), h.Sales.Update)

	checkout := api.Group("/checkout")
	checkout.Post("", h.Checkout.Open)
	checkout.Get("/:id", h.Checkout.View)
	checkout.Post("/:id/items", h.Checkout.AddItem)
	checkout.Post("/:id/items/:productId/decrease", h.Checkout.DecreaseItem)
	checkout.Delete("/:id/items/:productId", h.Checkout.RemoveItem)
	checkout.Put("/:id/items/:productId/price", h.Checkout.SetPrice)
	checkout.Post("/:id/authorize", h.Checkout.Authorize)
	checkout.Post("/:id/clear", h.Checkout.ClearCart)
	checkout.Post("/:id/submit", h.Checkout.Submit)

	webOrders := api.Group("/web-orders")
	webOrders.Get("", h.WebOrder.List)
	webOrders.Get("/:id", h.WebOrder.Get)
	webOrders.Put("/:id/status", h.WebOrder.UpdateStatus)

	settings := api.Group("/settings")
	settings.Get("", h.Settings.Get)
	settings.Put("", auth.RequireRole(auth.RoleAdmin), h.Settings.Save)
	settings.Put("/pin", auth.RequireRole(auth.RoleAdmin), h.Settings.SetPin)
	settings.Post("/verify-pin", h.Settings.VerifyPin)

	inventory := api.Group("/inventory")
	inventory.Get("/movements", h.Inventory.ListMovements)
	inventory.Post("/adjust", auth.RequireRole(auth.RoleAdmin), h.Inventory.Adjust)
}
