package repository

import (
	"time"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// TransferRepository define el puerto de persistencia de transferencias.
type TransferRepository interface {
	Create(transfer *entity.Transfer) error
	GetByID(id string) (*entity.Transfer, error)
	// UpdateStatus cambia el estado (pending → completed|cancelled).
	UpdateStatus(id, status string, completedAt *time.Time) error
}
