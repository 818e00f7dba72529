package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-pos-api/internal/application/analytics"
	"github.com/jhoicas/tienda-pos-api/internal/application/credit"
	"github.com/jhoicas/tienda-pos-api/internal/application/identity"
	"github.com/jhoicas/tienda-pos-api/internal/application/sales"
	"github.com/jhoicas/tienda-pos-api/internal/application/tenant"
	"github.com/jhoicas/tienda-pos-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Resolver    *identity.Resolver
	Provisioner *tenant.Provisioner
	ProductUC   *usecase.ProductUseCase
	CustomerUC  *usecase.CustomerUseCase
	SalesUC     *sales.UseCase
	ReceiptUC   *sales.ReceiptUseCase
	CreditUC    *credit.UseCase
	LoyaltyUC   *analytics.LoyaltyUseCase
	Log         zerolog.Logger

	// RequestTimeout plazo por petición de /api (0 = sin plazo).
	RequestTimeout time.Duration
}

// Router registra las rutas de la API. Todo /api pasa por TenantMiddleware.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", TenantMiddleware(deps.Resolver, deps.Provisioner, deps.Log, deps.RequestTimeout))

	tenantHandler := NewTenantHandler(deps.Provisioner)
	api.Get("/me", tenantHandler.Me)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Post("/:id/receive", productHandler.Receive)

	// Customers
	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC, deps.CreditUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)
	customers.Get("/:id/statement", customerHandler.Statement)

	// Sales
	salesGroup := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.SalesUC, deps.ReceiptUC, deps.CreditUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/cancel", saleHandler.Cancel)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
	salesGroup.Get("/:id/payments", saleHandler.Payments)

	// Credit
	creditHandler := NewCreditHandler(deps.CreditUC)
	api.Post("/credit/payments", creditHandler.RegisterPayment)

	// Loyalty
	loyaltyGroup := api.Group("/loyalty")
	loyaltyHandler := NewLoyaltyHandler(deps.LoyaltyUC)
	loyaltyGroup.Get("/segments", loyaltyHandler.Segments)
	loyaltyGroup.Get("/tiers/points", loyaltyHandler.TierPoints)

	// Admin (superadmin)
	admin := api.Group("/admin", RequireSuperadmin())
	admin.Put("/tenants/:id/subscription", tenantHandler.UpdateSubscription)
}
