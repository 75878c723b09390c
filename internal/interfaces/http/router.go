package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotes-api/internal/application/audit"
	appconf "github.com/jhoicas/lotes-api/internal/application/conference"
	appinv "github.com/jhoicas/lotes-api/internal/application/inventory"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	EntryUC      *appinv.RegisterEntryUseCase
	AllocateUC   *appinv.AllocateUseCase
	TransferUC   *appinv.TransferUseCase
	ConferenceUC *appconf.UseCase
	AuditUC      *audit.UseCase
	LocationRepo repository.LocationRepository
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Locations (frontera con el registro de ubicaciones)
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationRepo)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)

	// Inventory: entradas, asignaciones FEFO y superficie de auditoría
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.EntryUC, deps.AllocateUC)
	auditHandler := NewAuditHandler(deps.AuditUC)
	invGroup.Post("/entries", inventoryHandler.RegisterEntry)
	invGroup.Post("/allocations", inventoryHandler.Allocate)
	invGroup.Get("/movements", auditHandler.ListMovements)
	invGroup.Get("/lots", auditHandler.ListLots)

	// Transfers
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC, deps.AuditUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/:id", transferHandler.GetByID)

	// Conferences (conteo ciego)
	conferences := protected.Group("/conferences")
	conferenceHandler := NewConferenceHandler(deps.ConferenceUC, deps.AuditUC)
	conferences.Post("/", conferenceHandler.Start)
	conferences.Get("/:id", conferenceHandler.GetByID)
	conferences.Post("/:id/scans", conferenceHandler.RecordScan)
	conferences.Post("/:id/finish", conferenceHandler.Finish)
}
