package memory

import (
	"sort"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación en memoria de LocationRepository.
type LocationRepo struct {
	store *Store
}

// NewLocationRepository construye el repositorio sobre el store.
func NewLocationRepository(store *Store) *LocationRepo {
	return &LocationRepo{store: store}
}

// Create persiste una ubicación.
func (r *LocationRepo) Create(location *entity.Location) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *location
	r.store.locations[location.ID] = &copied
	return nil
}

// GetByID obtiene una ubicación por id. (nil, nil) si no existe.
func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	location, ok := r.store.locations[id]
	if !ok {
		return nil, nil
	}
	copied := *location
	return &copied, nil
}

// List devuelve todas las ubicaciones.
func (r *LocationRepo) List() ([]*entity.Location, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var list []*entity.Location
	for _, location := range r.store.locations {
		copied := *location
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}
