package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una transferencia entre ubicaciones.
const (
	TransferStatusPending   = "pending"
	TransferStatusCompleted = "completed"
	TransferStatusCancelled = "cancelled"
)

// Transfer reubica una cantidad de un lote específico entre dos ubicaciones.
// Solo llega a completed cuando sus dos asientos (TRANSFER_OUT y TRANSFER_IN,
// ambos con CorrelationRef = Transfer.ID) quedaron aplicados de forma durable.
// Si la aplicación transaccional falla queda cancelled, nunca a medias.
type Transfer struct {
	ID             string
	ProductID      string
	SourceLocation string
	DestLocation   string
	LotCode        string
	Quantity       decimal.Decimal
	Status         string
	InitiatedBy    string
	CreatedAt      time.Time
	CompletedAt    *time.Time
}
