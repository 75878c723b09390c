package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/lotes-api/internal/application/inventory"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks contra el Store con semántica transaccional:
// las transacciones se serializan entre sí y ante error se restaura el
// snapshot previo (rollback), igual que el runner de PostgreSQL.
type TxRunner struct {
	store *Store
	txMu  sync.Mutex
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run toma snapshot, ejecuta fn con los repos del store y restaura ante error.
func (r *TxRunner) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
	transferRepo repository.TransferRepository,
) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.store.mu.Lock()
	snap := r.store.takeSnapshot()
	r.store.mu.Unlock()

	err := fn(
		NewLotRepository(r.store),
		NewMovementRepository(r.store),
		NewTransferRepository(r.store),
	)
	if err != nil {
		r.store.mu.Lock()
		r.store.restore(snap)
		r.store.mu.Unlock()
	}
	return err
}
