package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/lotes-api/internal/application/inventory"
	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
	"github.com/jhoicas/lotes-api/pkg/metrics"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// Cota de reintentos ante contención transitoria sobre un lote.
const maxTxRetries = 3

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con
// reintento acotado ante fallos de serialización o deadlock. Los errores de
// validación y de conflicto de lote nunca se reintentan ni se aplican a medias.
type TxRunner struct {
	pool    *pgxpool.Pool
	metrics *metrics.Metrics
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, m *metrics.Metrics) *TxRunner {
	return &TxRunner{pool: pool, metrics: m}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Ante 40001/40P01 reintenta hasta maxTxRetries veces y
// luego aflora domain.ErrTxConflict (reintentable por el caller).
func (r *TxRunner) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
	transferRepo repository.TransferRepository,
) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil || !isRetryableTxError(err) {
			return err
		}
		if attempt >= maxTxRetries {
			return fmt.Errorf("%w: %v", domain.ErrTxConflict, err)
		}
		r.metrics.TxRetry()
	}
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
	transferRepo repository.TransferRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lotRepo := NewLotRepository(tx)
	movRepo := NewMovementRepository(tx)
	transferRepo := NewTransferRepository(tx)

	if err := fn(lotRepo, movRepo, transferRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
