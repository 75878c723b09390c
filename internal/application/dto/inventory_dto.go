package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterEntryRequest body para POST /api/inventory/entries.
type RegisterEntryRequest struct {
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	LotCode        string          `json:"lot_code"`
	ExpirationDate time.Time       `json:"expiration_date"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	SourceDocument string          `json:"source_document,omitempty"` // factura, importación, nota
	Note           string          `json:"note,omitempty"`
}

// AllocationRequest body para POST /api/inventory/allocations.
// AllowUncovered pedido por el iniciador (ej. checkout de venta): si las
// existencias no alcanzan, el faltante se asienta como uncovered en lugar de
// fallar la operación.
type AllocationRequest struct {
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	CorrelationRef string          `json:"correlation_ref"`
	AllowUncovered bool            `json:"allow_uncovered"`
	Note           string          `json:"note,omitempty"`
}

// AllocationResponse resultado de una asignación FEFO.
// Covered + Uncovered siempre suma Requested; Short=true es advertencia, no error.
type AllocationResponse struct {
	Requested decimal.Decimal `json:"requested"`
	Covered   decimal.Decimal `json:"covered"`
	Uncovered decimal.Decimal `json:"uncovered"`
	Short     bool            `json:"short"`
	Movements []MovementDTO   `json:"movements"`
}

// TransferRequest body para POST /api/transfers.
type TransferRequest struct {
	ProductID      string          `json:"product_id"`
	SourceLocation string          `json:"source_location"`
	DestLocation   string          `json:"dest_location"`
	LotCode        string          `json:"lot_code"`
	Quantity       decimal.Decimal `json:"quantity"`
}

// TransferDTO respuesta de transferencias.
type TransferDTO struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	SourceLocation string          `json:"source_location"`
	DestLocation   string          `json:"dest_location"`
	LotCode        string          `json:"lot_code"`
	Quantity       decimal.Decimal `json:"quantity"`
	Status         string          `json:"status"`
	InitiatedBy    string          `json:"initiated_by"`
	CreatedAt      time.Time       `json:"created_at"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
}

// MovementDTO asiento del libro para la superficie de lectura.
type MovementDTO struct {
	ID             string          `json:"id"`
	LotID          string          `json:"lot_id,omitempty"`
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	LotCode        string          `json:"lot_code,omitempty"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	Uncovered      bool            `json:"uncovered,omitempty"`
	CorrelationRef string          `json:"correlation_ref,omitempty"`
	Note           string          `json:"note,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	CreatedBy      string          `json:"created_by,omitempty"`
}

// LotDTO existencia por lote para la superficie de lectura.
type LotDTO struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	LotCode        string          `json:"lot_code"`
	ExpirationDate time.Time       `json:"expiration_date"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	ReceivedDate   time.Time       `json:"received_date"`
	Quantity       decimal.Decimal `json:"quantity"`
}

// CreateLocationRequest body para POST /api/locations.
type CreateLocationRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"` // store | warehouse
}
