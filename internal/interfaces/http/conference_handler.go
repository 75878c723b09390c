package http

import (
	"sort"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotes-api/internal/application/audit"
	appconf "github.com/jhoicas/lotes-api/internal/application/conference"
	"github.com/jhoicas/lotes-api/internal/application/dto"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// ConferenceHandler maneja las peticiones HTTP del conteo ciego (protegido).
type ConferenceHandler struct {
	conferenceUC *appconf.UseCase
	auditUC      *audit.UseCase
}

// NewConferenceHandler construye el handler.
func NewConferenceHandler(conferenceUC *appconf.UseCase, auditUC *audit.UseCase) *ConferenceHandler {
	return &ConferenceHandler{conferenceUC: conferenceUC, auditUC: auditUC}
}

// Start godoc
// @Summary      Abrir una sesión de conteo ciego
// @Tags         conferences
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartConferenceRequest  true  "source_ref, source_type (transfer|import), location_id"
// @Success      201   {object}  dto.ConferenceDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/conferences [post]
func (h *ConferenceHandler) Start(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.StartConferenceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	session, err := h.conferenceUC.Start(c.Context(), appconf.StartInput{
		SourceRef:  in.SourceRef,
		SourceType: in.SourceType,
		LocationID: in.LocationID,
		ActorID:    actorID,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toConferenceDTO(session))
}

// RecordScan godoc
// @Summary      Registrar el escaneo de un producto
// @Description  Idempotente por producto: reescanear sobrescribe la cantidad.
// @Tags         conferences
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "Session ID"
// @Param        body  body  dto.RecordScanRequest  true  "product_id, quantity"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/conferences/{id}/scans [post]
func (h *ConferenceHandler) RecordScan(c *fiber.Ctx) error {
	var in dto.RecordScanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.conferenceUC.RecordScan(c.Context(), c.Params("id"), in.ProductID, in.Quantity); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Finish godoc
// @Summary      Cerrar una sesión de conteo
// @Description  Compara lo escaneado contra lo esperado del origen; completed
//	solo si todo coincide exacto, divergent en caso contrario. Nunca muta lotes.
// @Tags         conferences
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  dto.ConferenceDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/conferences/{id}/finish [post]
func (h *ConferenceHandler) Finish(c *fiber.Ctx) error {
	session, err := h.conferenceUC.Finish(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toConferenceDTO(session))
}

// GetByID godoc
// @Summary      Consultar una sesión de conteo
// @Tags         conferences
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  dto.ConferenceDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/conferences/{id} [get]
func (h *ConferenceHandler) GetByID(c *fiber.Ctx) error {
	session, err := h.auditUC.GetConference(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toConferenceDTO(session))
}

// toConferenceDTO mapea la sesión. Mientras está in_progress no se exponen
// esperado ni delta: el conteo es a ciegas.
func toConferenceDTO(s *entity.ConferenceSession) dto.ConferenceDTO {
	out := dto.ConferenceDTO{
		ID:         s.ID,
		SourceRef:  s.SourceRef,
		SourceType: s.SourceType,
		LocationID: s.LocationID,
		Status:     s.Status,
		StartedBy:  s.StartedBy,
		CreatedAt:  s.CreatedAt,
		FinishedAt: s.FinishedAt,
	}
	for _, item := range s.Items {
		d := dto.ConferenceItemDTO{ProductID: item.ProductID, Scanned: item.Scanned}
		if s.Terminal() {
			expected := item.Expected
			delta := item.Delta
			d.Expected = &expected
			d.Delta = &delta
		}
		out.Items = append(out.Items, d)
	}
	sort.Slice(out.Items, func(i, j int) bool { return out.Items[i].ProductID < out.Items[j].ProductID })
	return out
}
