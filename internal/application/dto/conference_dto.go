package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StartConferenceRequest body para POST /api/conferences.
type StartConferenceRequest struct {
	SourceRef  string `json:"source_ref"`
	SourceType string `json:"source_type"` // transfer | import
	LocationID string `json:"location_id"`
}

// RecordScanRequest body para POST /api/conferences/:id/scans.
type RecordScanRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ConferenceItemDTO renglón de conteo. Expected y Delta solo se exponen en
// sesiones cerradas: el conteo es a ciegas.
type ConferenceItemDTO struct {
	ProductID string           `json:"product_id"`
	Expected  *decimal.Decimal `json:"expected,omitempty"`
	Scanned   decimal.Decimal  `json:"scanned"`
	Delta     *decimal.Decimal `json:"delta,omitempty"`
}

// ConferenceDTO sesión de conteo para la superficie de lectura.
type ConferenceDTO struct {
	ID         string              `json:"id"`
	SourceRef  string              `json:"source_ref"`
	SourceType string              `json:"source_type"`
	LocationID string              `json:"location_id"`
	Status     string              `json:"status"`
	Items      []ConferenceItemDTO `json:"items"`
	StartedBy  string              `json:"started_by"`
	CreatedAt  time.Time           `json:"created_at"`
	FinishedAt *time.Time          `json:"finished_at,omitempty"`
}
