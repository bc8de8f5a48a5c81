package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nortetech/wms-api/internal/application/auth"
	"github.com/nortetech/wms-api/internal/application/cyclic"
	"github.com/nortetech/wms-api/internal/application/inventory"
	"github.com/nortetech/wms-api/internal/application/notify"
	"github.com/nortetech/wms-api/internal/application/purchasing"
	"github.com/nortetech/wms-api/internal/application/replenishment"
	"github.com/nortetech/wms-api/internal/domain/entity"
	"github.com/nortetech/wms-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.UseCase
	StockUC         *inventory.StockUseCase
	LedgerUC        *inventory.LedgerUseCase
	ReplenishmentUC *replenishment.UseCase
	PurchasingUC    *purchasing.UseCase
	CyclicUC        *cyclic.UseCase
	Vendors         repository.VendorRepository
	Notifications   repository.NotificationRepository
	Feed            *notify.FeedRecorder
	PDF             PDFGenerator
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Items (protegido)
	items := protected.Group("/items")
	inventoryHandler := NewInventoryHandler(deps.StockUC, deps.LedgerUC)
	items.Post("/", inventoryHandler.CreateItem)
	items.Get("/", inventoryHandler.ListItems)
	items.Get("/:sku", inventoryHandler.GetItem)
	items.Put("/:sku", inventoryHandler.UpdateItem)
	items.Delete("/:sku", RequireRole(entity.RoleAdmin, entity.RoleManager), inventoryHandler.DeleteItem)

	// Ledger de movimientos (protegido, solo lectura)
	protected.Get("/movements", inventoryHandler.ListMovements)

	// Expedición (protegido)
	protected.Post("/expedition/picking", inventoryHandler.ProcessPicking)

	// Motor de reposición (protegido, admin/manager)
	repl := protected.Group("/replenishment", RequireRole(entity.RoleAdmin, entity.RoleManager, entity.RoleBuyer))
	replHandler := NewReplenishmentHandler(deps.ReplenishmentUC)
	repl.Post("/recalculate", replHandler.RecalculateROP)
	repl.Post("/classify-abc", replHandler.ClassifyABC)
	repl.Post("/evaluate", replHandler.Evaluate)

	// Pedidos de compra (protegido)
	orders := protected.Group("/purchase-orders")
	purchasingHandler := NewPurchasingHandler(deps.PurchasingUC)
	orders.Post("/", purchasingHandler.Create)
	orders.Get("/", purchasingHandler.List)
	orders.Get("/:id", purchasingHandler.GetByID)
	orders.Post("/:id/quotes", purchasingHandler.AddQuotes)
	orders.Post("/:id/send-to-approval", purchasingHandler.SendToApproval)
	orders.Post("/:id/approve", RequireRole(entity.RoleAdmin, entity.RoleManager), purchasingHandler.Approve)
	orders.Post("/:id/reject", RequireRole(entity.RoleAdmin, entity.RoleManager), purchasingHandler.Reject)
	orders.Post("/:id/mark-sent", purchasingHandler.MarkAsSent)

	// Recebimento (protegido)
	protected.Post("/receiving/finalize", purchasingHandler.FinalizeReceipt)

	// Inventario cíclico (protegido)
	batches := protected.Group("/cyclic-batches")
	cyclicHandler := NewCyclicHandler(deps.CyclicUC)
	batches.Post("/", cyclicHandler.CreateBatch)
	batches.Get("/", cyclicHandler.ListBatches)
	batches.Post("/:id/finalize", cyclicHandler.FinalizeBatch)

	// Proveedores (protegido)
	vendors := protected.Group("/vendors")
	vendorHandler := NewVendorHandler(deps.Vendors)
	vendors.Post("/", vendorHandler.Create)
	vendors.Get("/", vendorHandler.List)
	vendors.Delete("/:id", RequireRole(entity.RoleAdmin), vendorHandler.Delete)

	// Notificaciones y feed de actividad (protegido)
	notificationHandler := NewNotificationHandler(deps.Notifications, deps.Feed)
	notifications := protected.Group("/notifications")
	notifications.Get("/", notificationHandler.List)
	notifications.Post("/:id/read", notificationHandler.MarkRead)
	notifications.Post("/read-all", notificationHandler.MarkAllRead)
	protected.Get("/activities", notificationHandler.Activities)

	// Reportes (protegido)
	reportHandler := NewReportHandler(deps.PurchasingUC, deps.PDF)
	protected.Get("/reports/purchase-orders/:id/pdf", reportHandler.PurchaseOrderPDF)
}
