package memory

import (
	"time"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación en memoria de TransferRepository.
type TransferRepo struct {
	store *Store
}

// NewTransferRepository construye el repositorio sobre el store.
func NewTransferRepository(store *Store) *TransferRepo {
	return &TransferRepo{store: store}
}

// Create persiste una transferencia.
func (r *TransferRepo) Create(transfer *entity.Transfer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *transfer
	r.store.transfers[transfer.ID] = &copied
	return nil
}

// GetByID obtiene una transferencia por id. (nil, nil) si no existe.
func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	transfer, ok := r.store.transfers[id]
	if !ok {
		return nil, nil
	}
	copied := *transfer
	return &copied, nil
}

// UpdateStatus cambia el estado de una transferencia.
func (r *TransferRepo) UpdateStatus(id, status string, completedAt *time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	transfer, ok := r.store.transfers[id]
	if !ok {
		return domain.ErrNotFound
	}
	transfer.Status = status
	transfer.CompletedAt = completedAt
	return nil
}
