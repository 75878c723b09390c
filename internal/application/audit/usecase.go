package audit

import (
	"context"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// UseCase superficie de lectura/auditoría del núcleo: libro de movimientos,
// lotes, transferencias y sesiones de conteo, con filtros por tiempo,
// ubicación, producto y referencia de correlación.
type UseCase struct {
	lotRepo        repository.LotRepository
	movementRepo   repository.MovementRepository
	transferRepo   repository.TransferRepository
	conferenceRepo repository.ConferenceRepository
}

// NewUseCase construye la superficie de lectura.
func NewUseCase(
	lotRepo repository.LotRepository,
	movementRepo repository.MovementRepository,
	transferRepo repository.TransferRepository,
	conferenceRepo repository.ConferenceRepository,
) *UseCase {
	return &UseCase{
		lotRepo:        lotRepo,
		movementRepo:   movementRepo,
		transferRepo:   transferRepo,
		conferenceRepo: conferenceRepo,
	}
}

// ListMovements consulta el libro con filtros.
func (uc *UseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	filter.Limit = clampLimit(filter.Limit)
	return uc.movementRepo.List(filter)
}

// ListLots consulta existencias por lote.
func (uc *UseCase) ListLots(ctx context.Context, filter repository.LotFilter) ([]*entity.Lot, error) {
	filter.Limit = clampLimit(filter.Limit)
	return uc.lotRepo.List(filter)
}

// GetTransfer obtiene una transferencia por id.
func (uc *UseCase) GetTransfer(ctx context.Context, id string) (*entity.Transfer, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	transfer, err := uc.transferRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, domain.ErrNotFound
	}
	return transfer, nil
}

// GetConference obtiene una sesión de conteo por id.
func (uc *UseCase) GetConference(ctx context.Context, id string) (*entity.ConferenceSession, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	session, err := uc.conferenceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}
