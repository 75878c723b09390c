package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/lotes-api/internal/application/dto"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// LocationHandler frontera con el registro de ubicaciones (protegido).
type LocationHandler struct {
	locationRepo repository.LocationRepository
}

// NewLocationHandler construye el handler.
func NewLocationHandler(locationRepo repository.LocationRepository) *LocationHandler {
	return &LocationHandler{locationRepo: locationRepo}
}

// Create godoc
// @Summary      Registrar una ubicación (tienda o bodega)
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "name, kind (store|warehouse)"
// @Success      201   {object}  entity.Location
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/locations [post]
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" || (in.Kind != entity.LocationKindStore && in.Kind != entity.LocationKindWarehouse) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name y kind (store|warehouse) requeridos"})
	}
	location := &entity.Location{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Kind:      in.Kind,
		CreatedAt: time.Now(),
	}
	if err := h.locationRepo.Create(location); err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(location)
}

// GetByID godoc
// @Summary      Consultar una ubicación
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Location ID"
// @Success      200  {object}  entity.Location
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [get]
func (h *LocationHandler) GetByID(c *fiber.Ctx) error {
	location, err := h.locationRepo.GetByID(c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	if location == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ubicación no encontrada"})
	}
	return c.JSON(location)
}

// List godoc
// @Summary      Listar ubicaciones
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.Location
// @Router       /api/locations [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	locations, err := h.locationRepo.List()
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(locations), "locations": locations})
}
