package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una sesión de conteo ciego (conferencia).
const (
	ConferenceStatusInProgress = "in_progress"
	ConferenceStatusCompleted  = "completed"
	ConferenceStatusDivergent  = "divergent"
)

// Orígenes contra los que se compara el conteo.
const (
	ConferenceSourceTransfer = "transfer"
	ConferenceSourceImport   = "import"
)

// ConferenceItem es el renglón de conteo de un producto: lo escaneado por el
// operador contra lo esperado según el origen. Expected y Delta se calculan
// al cerrar la sesión y se conservan para inspección.
type ConferenceItem struct {
	ProductID string
	Expected  decimal.Decimal
	Scanned   decimal.Decimal
	Delta     decimal.Decimal
}

// ConferenceSession es un conteo físico a ciegas contra un origen esperado
// (una transferencia o una importación). Transiciona in_progress →
// {completed, divergent} exactamente una vez; tras el estado terminal no se
// admite mutación. Cerrar la sesión nunca toca los lotes: corregir una
// divergencia es un movimiento aparte y explícito.
type ConferenceSession struct {
	ID         string
	SourceRef  string
	SourceType string
	LocationID string
	Status     string
	Items      map[string]*ConferenceItem // productID → renglón
	StartedBy  string
	CreatedAt  time.Time
	FinishedAt *time.Time
}

// Terminal indica si la sesión ya no admite cambios.
func (s *ConferenceSession) Terminal() bool {
	return s.Status == ConferenceStatusCompleted || s.Status == ConferenceStatusDivergent
}
