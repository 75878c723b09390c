package conference

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
	"github.com/jhoicas/lotes-api/pkg/metrics"
)

// UseCase maneja el conteo físico a ciegas (conferencia): el operador
// recuenta la mercancía sin ver las cantidades esperadas y al cerrar se
// compara contra el origen. Nunca muta los lotes: conciliar una divergencia
// es un movimiento aparte y explícito; contar y corregir son operaciones
// distintas.
type UseCase struct {
	conferenceRepo repository.ConferenceRepository
	movementRepo   repository.MovementRepository
	transferRepo   repository.TransferRepository
	locationRepo   repository.LocationRepository
	metrics        *metrics.Metrics
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	conferenceRepo repository.ConferenceRepository,
	movementRepo repository.MovementRepository,
	transferRepo repository.TransferRepository,
	locationRepo repository.LocationRepository,
	m *metrics.Metrics,
) *UseCase {
	return &UseCase{
		conferenceRepo: conferenceRepo,
		movementRepo:   movementRepo,
		transferRepo:   transferRepo,
		locationRepo:   locationRepo,
		metrics:        m,
	}
}

// StartInput entrada para abrir una sesión de conteo.
type StartInput struct {
	SourceRef  string
	SourceType string // transfer | import
	LocationID string
	ActorID    string
}

// Start abre una sesión en in_progress contra un origen esperado.
func (uc *UseCase) Start(ctx context.Context, input StartInput) (*entity.ConferenceSession, error) {
	if input.SourceRef == "" || input.LocationID == "" || input.ActorID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.SourceType != entity.ConferenceSourceTransfer && input.SourceType != entity.ConferenceSourceImport {
		return nil, domain.ErrInvalidInput
	}
	if loc, err := uc.locationRepo.GetByID(input.LocationID); err != nil || loc == nil {
		return nil, domain.ErrNotFound
	}
	if input.SourceType == entity.ConferenceSourceTransfer {
		transfer, err := uc.transferRepo.GetByID(input.SourceRef)
		if err != nil {
			return nil, err
		}
		if transfer == nil {
			return nil, domain.ErrNotFound
		}
	}

	session := &entity.ConferenceSession{
		ID:         uuid.New().String(),
		SourceRef:  input.SourceRef,
		SourceType: input.SourceType,
		LocationID: input.LocationID,
		Status:     entity.ConferenceStatusInProgress,
		Items:      map[string]*entity.ConferenceItem{},
		StartedBy:  input.ActorID,
		CreatedAt:  time.Now(),
	}
	if err := uc.conferenceRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// RecordScan registra el conteo de un producto. Idempotente por producto:
// reescanear sobrescribe la cantidad anterior (last-write-wins), no duplica.
func (uc *UseCase) RecordScan(ctx context.Context, sessionID, productID string, quantity decimal.Decimal) error {
	if sessionID == "" || productID == "" || quantity.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	session, err := uc.conferenceRepo.GetByID(sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return domain.ErrNotFound
	}
	if session.Terminal() {
		return domain.ErrConferenceClosed
	}
	return uc.conferenceRepo.UpsertScan(sessionID, productID, quantity)
}

// Finish cierra la sesión: deriva lo esperado del libro (asientos de clase
// entrada en la ubicación con la referencia del origen), calcula el delta por
// renglón y fija el estado terminal — completed solo si todo coincide exacto,
// divergent en caso contrario. Los deltas quedan guardados para inspección.
func (uc *UseCase) Finish(ctx context.Context, sessionID string) (*entity.ConferenceSession, error) {
	if sessionID == "" {
		return nil, domain.ErrInvalidInput
	}
	session, err := uc.conferenceRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	if session.Terminal() {
		return nil, domain.ErrConferenceClosed
	}

	expected, err := uc.movementRepo.SumEntriesByCorrelation(session.LocationID, session.SourceRef)
	if err != nil {
		return nil, err
	}

	// Unión de productos esperados y escaneados: lo esperado nunca contado
	// también es divergencia (escaneado cero).
	for productID, qty := range expected {
		if _, ok := session.Items[productID]; !ok {
			session.Items[productID] = &entity.ConferenceItem{ProductID: productID, Scanned: decimal.Zero}
		}
		session.Items[productID].Expected = qty
	}

	divergent := false
	for _, item := range session.Items {
		item.Delta = item.Scanned.Sub(item.Expected)
		if !item.Delta.IsZero() {
			divergent = true
		}
	}

	session.Status = entity.ConferenceStatusCompleted
	if divergent {
		session.Status = entity.ConferenceStatusDivergent
	}
	now := time.Now()
	session.FinishedAt = &now

	if err := uc.conferenceRepo.Close(session); err != nil {
		return nil, err
	}
	uc.metrics.Conference(session.Status)
	return session, nil
}
