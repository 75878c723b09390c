package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotes-api/internal/application/audit"
	"github.com/jhoicas/lotes-api/internal/application/dto"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// AuditHandler superficie de lectura/auditoría del libro y las existencias (protegido).
type AuditHandler struct {
	auditUC *audit.UseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(auditUC *audit.UseCase) *AuditHandler {
	return &AuditHandler{auditUC: auditUC}
}

// ListMovements godoc
// @Summary      Consultar el libro de movimientos
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        product_id       query  string  false  "Filtrar por producto"
// @Param        location_id      query  string  false  "Filtrar por ubicación"
// @Param        correlation_ref  query  string  false  "Filtrar por referencia de correlación"
// @Param        from             query  string  false  "Desde (RFC3339)"
// @Param        to               query  string  false  "Hasta (RFC3339)"
// @Param        uncovered        query  bool    false  "Solo asientos sin cobertura"
// @Param        limit            query  int     false  "Tamaño de página (máx 500)"
// @Param        offset           query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *AuditHandler) ListMovements(c *fiber.Ctx) error {
	filter := repository.MovementFilter{
		ProductID:      c.Query("product_id"),
		LocationID:     c.Query("location_id"),
		CorrelationRef: c.Query("correlation_ref"),
		OnlyUncovered:  c.QueryBool("uncovered"),
		Limit:          c.QueryInt("limit"),
		Offset:         c.QueryInt("offset"),
	}
	var ok bool
	if filter.From, ok = parseTimeQuery(c, "from"); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	if filter.To, ok = parseTimeQuery(c, "to"); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}

	movements, err := h.auditUC.ListMovements(c.Context(), filter)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.MovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementDTO(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// ListLots godoc
// @Summary      Consultar existencias por lote
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        product_id     query  string  false  "Filtrar por producto"
// @Param        location_id    query  string  false  "Filtrar por ubicación"
// @Param        include_empty  query  bool    false  "Incluir lotes en cero (auditoría)"
// @Param        limit          query  int     false  "Tamaño de página (máx 500)"
// @Param        offset         query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.LotDTO
// @Router       /api/inventory/lots [get]
func (h *AuditHandler) ListLots(c *fiber.Ctx) error {
	filter := repository.LotFilter{
		ProductID:    c.Query("product_id"),
		LocationID:   c.Query("location_id"),
		IncludeEmpty: c.QueryBool("include_empty"),
		Limit:        c.QueryInt("limit"),
		Offset:       c.QueryInt("offset"),
	}
	lots, err := h.auditUC.ListLots(c.Context(), filter)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.LotDTO, 0, len(lots))
	for _, lot := range lots {
		out = append(out, toLotDTO(lot))
	}
	return c.JSON(fiber.Map{"total": len(out), "lots": out})
}

func toLotDTO(l *entity.Lot) dto.LotDTO {
	return dto.LotDTO{
		ID:             l.ID,
		ProductID:      l.ProductID,
		LocationID:     l.LocationID,
		LotCode:        l.LotCode,
		ExpirationDate: l.ExpirationDate,
		UnitCost:       l.UnitCost,
		ReceivedDate:   l.ReceivedDate,
		Quantity:       l.Quantity,
	}
}

// parseTimeQuery lee un query param RFC3339 opcional. ok=false si viene y es inválido.
func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}
