package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	domaininv "github.com/jhoicas/lotes-api/internal/domain/inventory"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación en memoria de LotRepository.
type LotRepo struct {
	store *Store
}

// NewLotRepository construye el repositorio sobre el store.
func NewLotRepository(store *Store) *LotRepo {
	return &LotRepo{store: store}
}

// GetByID obtiene un lote por id.
func (r *LotRepo) GetByID(id string) (*entity.Lot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	lot, ok := r.store.lots[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *lot
	return &copied, nil
}

// GetByKeyForUpdate obtiene el lote de la clave de identidad. La serialización
// la da el TxRunner (transacciones mutuamente excluyentes).
func (r *LotRepo) GetByKeyForUpdate(productID, locationID, lotCode string) (*entity.Lot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	lot := r.findByKey(productID, locationID, lotCode)
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	copied := *lot
	return &copied, nil
}

// FindOrCreate devuelve el lote de la clave, creándolo en cero si no existe.
func (r *LotRepo) FindOrCreate(productID, locationID, lotCode string, expiration time.Time, unitCost decimal.Decimal, receivedAt time.Time) (*entity.Lot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if existing := r.findByKey(productID, locationID, lotCode); existing != nil {
		if !sameDay(existing.ExpirationDate, expiration) || !existing.UnitCost.Equal(unitCost) {
			return nil, domain.ErrLotConflict
		}
		copied := *existing
		return &copied, nil
	}
	lot := &entity.Lot{
		ID:             uuid.New().String(),
		ProductID:      productID,
		LocationID:     locationID,
		LotCode:        lotCode,
		ExpirationDate: expiration,
		UnitCost:       unitCost,
		ReceivedDate:   receivedAt,
		Quantity:       decimal.Zero,
		UpdatedAt:      receivedAt,
	}
	r.store.lots[lot.ID] = lot
	copied := *lot
	return &copied, nil
}

// ListAvailableForUpdate lista lotes con existencia en orden FEFO.
func (r *LotRepo) ListAvailableForUpdate(productID, locationID string) ([]*entity.Lot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var lots []*entity.Lot
	for _, lot := range r.store.lots {
		if lot.ProductID == productID && lot.LocationID == locationID && lot.Available() {
			copied := *lot
			lots = append(lots, &copied)
		}
	}
	domaininv.Sort(lots)
	return lots, nil
}

// ApplyDelta ajusta la cantidad de forma condicional (resultado >= 0).
func (r *LotRepo) ApplyDelta(lotID string, delta decimal.Decimal) (decimal.Decimal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	lot, ok := r.store.lots[lotID]
	if !ok {
		return decimal.Zero, domain.ErrNotFound
	}
	next := lot.Quantity.Add(delta)
	if next.LessThan(decimal.Zero) {
		return decimal.Zero, domain.ErrInsufficientStock
	}
	lot.Quantity = next
	lot.UpdatedAt = time.Now()
	return next, nil
}

// List consulta lotes con filtros.
func (r *LotRepo) List(filter repository.LotFilter) ([]*entity.Lot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var lots []*entity.Lot
	for _, lot := range r.store.lots {
		if filter.ProductID != "" && lot.ProductID != filter.ProductID {
			continue
		}
		if filter.LocationID != "" && lot.LocationID != filter.LocationID {
			continue
		}
		if !filter.IncludeEmpty && !lot.Available() {
			continue
		}
		copied := *lot
		lots = append(lots, &copied)
	}
	domaininv.Sort(lots)
	return paginate(lots, filter.Limit, filter.Offset), nil
}

func (r *LotRepo) findByKey(productID, locationID, lotCode string) *entity.Lot {
	for _, lot := range r.store.lots {
		if lot.ProductID == productID && lot.LocationID == locationID && lot.LotCode == lotCode {
			return lot
		}
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
