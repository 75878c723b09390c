package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// MovementFilter filtros para la consulta del libro de movimientos.
type MovementFilter struct {
	ProductID      string
	LocationID     string
	CorrelationRef string
	From           *time.Time
	To             *time.Time
	OnlyUncovered  bool
	Limit          int
	Offset         int
}

// MovementRepository define el puerto del libro de movimientos: solo inserción
// y lectura, nunca update ni delete (el libro es inmutable).
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	List(filter MovementFilter) ([]*entity.Movement, error)
	// SumEntriesByCorrelation suma por producto los asientos de clase entrada
	// (ENTRY, TRANSFER_IN) de una ubicación que comparten la referencia de
	// correlación. Es la cantidad esperada contra la que se compara un conteo.
	SumEntriesByCorrelation(locationID, correlationRef string) (map[string]decimal.Decimal, error)
}
