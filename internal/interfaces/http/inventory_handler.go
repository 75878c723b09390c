package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotes-api/internal/application/dto"
	appinv "github.com/jhoicas/lotes-api/internal/application/inventory"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP de entradas y asignaciones (protegido).
type InventoryHandler struct {
	entryUC    *appinv.RegisterEntryUseCase
	allocateUC *appinv.AllocateUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(entryUC *appinv.RegisterEntryUseCase, allocateUC *appinv.AllocateUseCase) *InventoryHandler {
	return &InventoryHandler{entryUC: entryUC, allocateUC: allocateUC}
}

// RegisterEntry godoc
// @Summary      Registrar entrada de mercancía por lote
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterEntryRequest  true  "product_id, location_id, lot_code, expiration_date, quantity, unit_cost"
// @Success      201   {object}  dto.MovementDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/entries [post]
func (h *InventoryHandler) RegisterEntry(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.entryUC.RegisterEntry(c.Context(), appinv.EntryInput{
		ProductID:      in.ProductID,
		LocationID:     in.LocationID,
		LotCode:        in.LotCode,
		ExpirationDate: in.ExpirationDate,
		Quantity:       in.Quantity,
		UnitCost:       in.UnitCost,
		SourceDocument: in.SourceDocument,
		Note:           in.Note,
		ActorID:        actorID,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementDTO(mov))
}

// Allocate godoc
// @Summary      Asignación FEFO de una cantidad
// @Description  Drena lotes en orden de vencimiento emitiendo un asiento por
//	descuento parcial. Si allow_uncovered es true y la existencia no alcanza,
//	el faltante queda asentado como uncovered y la respuesta lleva short=true.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocationRequest  true  "product_id, location_id, quantity, correlation_ref, allow_uncovered"
// @Success      201   {object}  dto.AllocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/allocations [post]
func (h *InventoryHandler) Allocate(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AllocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.allocateUC.Allocate(c.Context(), appinv.AllocationInput{
		ProductID:      in.ProductID,
		LocationID:     in.LocationID,
		Quantity:       in.Quantity,
		CorrelationRef: in.CorrelationRef,
		AllowUncovered: in.AllowUncovered,
		Note:           in.Note,
		ActorID:        actorID,
	})
	if err != nil {
		return domainError(c, err)
	}
	resp := dto.AllocationResponse{
		Requested: result.Requested,
		Covered:   result.Covered,
		Uncovered: result.Uncovered,
		Short:     result.Short,
	}
	for _, mov := range result.Movements {
		resp.Movements = append(resp.Movements, toMovementDTO(mov))
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func toMovementDTO(m *entity.Movement) dto.MovementDTO {
	return dto.MovementDTO{
		ID:             m.ID,
		LotID:          m.LotID,
		ProductID:      m.ProductID,
		LocationID:     m.LocationID,
		LotCode:        m.LotCode,
		Type:           m.Type,
		Quantity:       m.Quantity,
		Uncovered:      m.Uncovered,
		CorrelationRef: m.CorrelationRef,
		Note:           m.Note,
		CreatedAt:      m.CreatedAt,
		CreatedBy:      m.CreatedBy,
	}
}
