package memory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

var _ repository.ConferenceRepository = (*ConferenceRepo)(nil)

// ConferenceRepo implementación en memoria de ConferenceRepository.
type ConferenceRepo struct {
	store *Store
}

// NewConferenceRepository construye el repositorio sobre el store.
func NewConferenceRepository(store *Store) *ConferenceRepo {
	return &ConferenceRepo{store: store}
}

// Create persiste una sesión nueva.
func (r *ConferenceRepo) Create(session *entity.ConferenceSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.conferences[session.ID] = copySession(session)
	return nil
}

// GetByID obtiene la sesión con sus renglones. (nil, nil) si no existe.
func (r *ConferenceRepo) GetByID(id string) (*entity.ConferenceSession, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	session, ok := r.store.conferences[id]
	if !ok {
		return nil, nil
	}
	return copySession(session), nil
}

// UpsertScan registra el escaneo de un producto; reescanear sobrescribe.
func (r *ConferenceRepo) UpsertScan(sessionID, productID string, scanned decimal.Decimal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	session, ok := r.store.conferences[sessionID]
	if !ok {
		return domain.ErrNotFound
	}
	if session.Terminal() {
		return domain.ErrConferenceClosed
	}
	item, ok := session.Items[productID]
	if !ok {
		item = &entity.ConferenceItem{ProductID: productID}
		session.Items[productID] = item
	}
	item.Scanned = scanned
	return nil
}

// Close fija el estado terminal exactamente una vez.
func (r *ConferenceRepo) Close(session *entity.ConferenceSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.conferences[session.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Terminal() {
		return domain.ErrConferenceClosed
	}
	r.store.conferences[session.ID] = copySession(session)
	return nil
}

func copySession(session *entity.ConferenceSession) *entity.ConferenceSession {
	copied := *session
	copied.Items = make(map[string]*entity.ConferenceItem, len(session.Items))
	for productID, item := range session.Items {
		itemCopy := *item
		copied.Items[productID] = &itemCopy
	}
	return &copied
}
