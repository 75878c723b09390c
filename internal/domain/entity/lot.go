package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot representa la existencia de un producto en una ubicación para un código
// de lote concreto (clave de identidad: producto + ubicación + código de lote).
// ExpirationDate y UnitCost se fijan en la primera entrada y son inmutables
// para esa clave; Quantity nunca es negativa y solo cambia a través de un
// movimiento de magnitud igual. El registro no se borra al llegar a cero
// (queda para auditoría).
type Lot struct {
	ID             string
	ProductID      string
	LocationID     string
	LotCode        string
	ExpirationDate time.Time
	UnitCost       decimal.Decimal
	ReceivedDate   time.Time
	Quantity       decimal.Decimal
	UpdatedAt      time.Time
}

// Available indica si el lote tiene existencia consumible.
func (l *Lot) Available() bool {
	return l.Quantity.GreaterThan(decimal.Zero)
}
