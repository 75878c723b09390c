package memory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación en memoria del libro de movimientos.
type MovementRepo struct {
	store *Store
}

// NewMovementRepository construye el repositorio sobre el store.
func NewMovementRepository(store *Store) *MovementRepo {
	return &MovementRepo{store: store}
}

// Create agrega un asiento al libro (append-only).
func (r *MovementRepo) Create(movement *entity.Movement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.FailCreateMovement != nil {
		if err := r.store.FailCreateMovement(movement); err != nil {
			return err
		}
	}
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	copied := *movement
	r.store.movements = append(r.store.movements, &copied)
	return nil
}

// GetByID obtiene un asiento por id. (nil, nil) si no existe.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, m := range r.store.movements {
		if m.ID == id {
			copied := *m
			return &copied, nil
		}
	}
	return nil, nil
}

// List consulta el libro con filtros.
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var list []*entity.Movement
	for _, m := range r.store.movements {
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		if filter.LocationID != "" && m.LocationID != filter.LocationID {
			continue
		}
		if filter.CorrelationRef != "" && m.CorrelationRef != filter.CorrelationRef {
			continue
		}
		if filter.From != nil && m.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.CreatedAt.After(*filter.To) {
			continue
		}
		if filter.OnlyUncovered && !m.Uncovered {
			continue
		}
		copied := *m
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return paginate(list, filter.Limit, filter.Offset), nil
}

// SumEntriesByCorrelation suma asientos de clase entrada por producto.
func (r *MovementRepo) SumEntriesByCorrelation(locationID, correlationRef string) (map[string]decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	sums := map[string]decimal.Decimal{}
	for _, m := range r.store.movements {
		if m.LocationID != locationID || m.CorrelationRef != correlationRef || !m.EntryClass() {
			continue
		}
		sums[m.ProductID] = sums[m.ProductID].Add(m.Quantity)
	}
	return sums, nil
}
