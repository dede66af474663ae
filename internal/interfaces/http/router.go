package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alumac/alumac-api/internal/domain/entity"
	"github.com/alumac/alumac-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	DB             Pinger
	Materials      MaterialService
	RecordMovement MovementRecorder
	ListMovements  MovementLister
	LedgerAudit    LedgerAuditor
	Kardex         KardexRenderer
	Users          ActorStore // opcional
	JWTSecret      string
	JWTIssuer      string
	Log            *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", Health(deps.DB))

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	writers := []fiber.Handler{
		RequireRole(entity.RoleAdmin, entity.RoleDeposito),
		SyncActor(deps.Users, deps.Log),
	}
	adminOnly := RequireRole(entity.RoleAdmin)

	materialHandler := NewMaterialHandler(deps.Materials, deps.Log)
	inventoryHandler := NewInventoryHandler(deps.RecordMovement, deps.ListMovements, deps.LedgerAudit, deps.Kardex, deps.Log)

	materiales := api.Group("/materiales")
	materiales.Post("/", append(writers, materialHandler.Create)...)
	materiales.Get("/", materialHandler.List)
	materiales.Get("/bajo-stock", materialHandler.ListLowStock)
	materiales.Get("/:id", materialHandler.GetByID)
	materiales.Patch("/:id", append(writers, materialHandler.Update)...)
	materiales.Delete("/:id", adminOnly, materialHandler.Deactivate)

	// Libro de stock
	materiales.Post("/:id/movimientos", append(writers, inventoryHandler.RecordMovement)...)
	materiales.Get("/:id/movimientos", inventoryHandler.ListMovements)
	materiales.Get("/:id/movimientos/auditoria", adminOnly, inventoryHandler.AuditLedger)
	materiales.Get("/:id/kardex.pdf", inventoryHandler.KardexPDF)
}
