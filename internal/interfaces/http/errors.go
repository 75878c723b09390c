package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotes-api/internal/application/dto"
	"github.com/jhoicas/lotes-api/internal/domain"
)

// domainError mapea los errores de dominio a respuestas HTTP. El resultado
// "uncovered" de una asignación no pasa por aquí: es un éxito con advertencia.
func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrLotConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LOT_CONFLICT", Message: "vencimiento o costo distinto para el mismo código de lote"})
	case errors.Is(err, domain.ErrConferenceClosed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFERENCE_CLOSED", Message: "la sesión de conteo ya está cerrada"})
	case errors.Is(err, domain.ErrTxConflict):
		// Contención transitoria agotó los reintentos: el cliente puede reintentar.
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "RETRY", Message: "contención transitoria, reintente"})
	case errors.Is(err, domain.ErrTransferAtomicity):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "TRANSFER_FAILED", Message: "la transferencia no pudo aplicarse; origen recompensado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
