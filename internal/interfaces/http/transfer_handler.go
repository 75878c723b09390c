package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotes-api/internal/application/audit"
	"github.com/jhoicas/lotes-api/internal/application/dto"
	appinv "github.com/jhoicas/lotes-api/internal/application/inventory"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// TransferHandler maneja las peticiones HTTP de transferencias (protegido).
type TransferHandler struct {
	transferUC *appinv.TransferUseCase
	auditUC    *audit.UseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(transferUC *appinv.TransferUseCase, auditUC *audit.UseCase) *TransferHandler {
	return &TransferHandler{transferUC: transferUC, auditUC: auditUC}
}

// Create godoc
// @Summary      Transferir un lote entre ubicaciones
// @Description  Débito en origen y abono en destino como una sola unidad
//	atómica; ambos asientos comparten el id de la transferencia.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "product_id, source_location, dest_location, lot_code, quantity"
// @Success      201   {object}  dto.TransferDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	transfer, err := h.transferUC.Transfer(c.Context(), appinv.TransferInput{
		ProductID:      in.ProductID,
		SourceLocation: in.SourceLocation,
		DestLocation:   in.DestLocation,
		LotCode:        in.LotCode,
		Quantity:       in.Quantity,
		ActorID:        actorID,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransferDTO(transfer))
}

// GetByID godoc
// @Summary      Consultar una transferencia
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Transfer ID"
// @Success      200  {object}  dto.TransferDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	transfer, err := h.auditUC.GetTransfer(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toTransferDTO(transfer))
}

func toTransferDTO(t *entity.Transfer) dto.TransferDTO {
	return dto.TransferDTO{
		ID:             t.ID,
		ProductID:      t.ProductID,
		SourceLocation: t.SourceLocation,
		DestLocation:   t.DestLocation,
		LotCode:        t.LotCode,
		Quantity:       t.Quantity,
		Status:         t.Status,
		InitiatedBy:    t.InitiatedBy,
		CreatedAt:      t.CreatedAt,
		CompletedAt:    t.CompletedAt,
	}
}
