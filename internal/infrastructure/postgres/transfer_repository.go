package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL
// (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create persiste una transferencia (estado inicial pending).
func (r *TransferRepo) Create(transfer *entity.Transfer) error {
	query := `
		INSERT INTO transfers (id, product_id, source_location, dest_location, lot_code, quantity, status, initiated_by, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.ProductID, transfer.SourceLocation, transfer.DestLocation,
		transfer.LotCode, transfer.Quantity, transfer.Status, transfer.InitiatedBy,
		transfer.CreatedAt, transfer.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("create transfer: %w", err)
	}
	return nil
}

// GetByID obtiene una transferencia por id.
func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	query := `
		SELECT id, product_id, source_location, dest_location, lot_code, quantity, status, initiated_by, created_at, completed_at
		FROM transfers WHERE id = $1`
	var t entity.Transfer
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.ProductID, &t.SourceLocation, &t.DestLocation, &t.LotCode,
		&t.Quantity, &t.Status, &t.InitiatedBy, &t.CreatedAt, &t.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return &t, nil
}

// UpdateStatus cambia el estado de una transferencia.
func (r *TransferRepo) UpdateStatus(id, status string, completedAt *time.Time) error {
	query := `UPDATE transfers SET status = $2, completed_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status, completedAt)
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
