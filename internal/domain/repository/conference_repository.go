package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// ConferenceRepository define el puerto de persistencia de sesiones de conteo.
type ConferenceRepository interface {
	Create(session *entity.ConferenceSession) error
	// GetByID devuelve la sesión con sus renglones cargados.
	GetByID(id string) (*entity.ConferenceSession, error)
	// UpsertScan registra el escaneo de un producto. Idempotente: reescanear
	// sobrescribe la cantidad, no duplica el renglón.
	UpsertScan(sessionID, productID string, scanned decimal.Decimal) error
	// Close persiste el cierre: estado terminal, fecha de cierre y los
	// renglones con esperado/delta calculados. Devuelve
	// domain.ErrConferenceClosed si la sesión ya no estaba in_progress.
	Close(session *entity.ConferenceSession) error
}
