package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de inventario.
const (
	MovementTypeENTRY       = "ENTRY"        // entrada de mercancía
	MovementTypeEXIT        = "EXIT"         // salida (venta, ajuste negativo)
	MovementTypeTRANSFEROUT = "TRANSFER_OUT" // débito en ubicación origen
	MovementTypeTRANSFERIN  = "TRANSFER_IN"  // abono en ubicación destino
)

// Movement es un asiento inmutable del libro: un cambio de cantidad sobre un
// lote. Quantity siempre es positiva; el tipo indica la dirección. Una vez
// escrito nunca se actualiza ni se borra.
//
// Uncovered marca la porción de una salida que no alcanzó a cubrirse con
// existencia (LotID vacío en ese caso): el faltante queda visible y
// consultable en el libro en lugar de perderse o bloquear la operación.
type Movement struct {
	ID         string
	LotID      string // vacío solo para asientos uncovered
	ProductID  string
	LocationID string
	LotCode    string
	Type       string
	Quantity   decimal.Decimal
	Uncovered  bool
	// CorrelationRef enlaza el asiento con la operación de negocio que lo
	// produjo (id de venta, de transferencia o de importación). La agrupación
	// de asientos es un hecho almacenado, no una heurística de timestamps.
	CorrelationRef string
	Note           string
	CreatedAt      time.Time
	CreatedBy      string
}

// EntryClass indica si el asiento suma existencia en su ubicación.
func (m *Movement) EntryClass() bool {
	return m.Type == MovementTypeENTRY || m.Type == MovementTypeTRANSFERIN
}
