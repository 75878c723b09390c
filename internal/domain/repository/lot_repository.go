package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// LotFilter filtros para la consulta de lotes.
type LotFilter struct {
	ProductID    string
	LocationID   string
	IncludeEmpty bool // incluir lotes con cantidad cero (auditoría)
	Limit        int
	Offset       int
}

// LotRepository define el puerto de la fuente de verdad de existencias por
// lote. Las mutaciones se usan dentro de transacciones para garantizar
// consistencia.
type LotRepository interface {
	GetByID(id string) (*entity.Lot, error)
	// GetByKeyForUpdate obtiene el lote de la clave de identidad bloqueado
	// para la transacción en curso. domain.ErrNotFound si no existe.
	GetByKeyForUpdate(productID, locationID, lotCode string) (*entity.Lot, error)
	// FindOrCreate devuelve el lote de la clave de identidad
	// (producto, ubicación, código de lote); en la primera creación fija
	// vencimiento y costo unitario, inmutables desde entonces. Si la clave ya
	// existe con otra fecha de vencimiento devuelve domain.ErrLotConflict.
	FindOrCreate(productID, locationID, lotCode string, expiration time.Time, unitCost decimal.Decimal, receivedAt time.Time) (*entity.Lot, error)
	// ListAvailableForUpdate devuelve los lotes con cantidad > 0 de un
	// producto en una ubicación, en orden FEFO determinista (vencimiento asc,
	// recepción asc, id asc), bloqueados para la transacción en curso.
	ListAvailableForUpdate(productID, locationID string) ([]*entity.Lot, error)
	// ApplyDelta ajusta la cantidad de forma atómica y condicional: falla con
	// domain.ErrInsufficientStock si el resultado quedaría negativo. Devuelve
	// la cantidad resultante (re-chequeo en el momento del descuento).
	ApplyDelta(lotID string, delta decimal.Decimal) (decimal.Decimal, error)
	List(filter LotFilter) ([]*entity.Lot, error)
}
