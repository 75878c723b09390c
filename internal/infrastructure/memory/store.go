package memory

import (
	"sort"
	"sync"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// Store estado compartido de los repositorios en memoria. Respaldo para
// pruebas de los casos de uso; el equivalente productivo es el paquete
// postgres.
//
// FailCreateMovement permite inyectar una falla de escritura (por ejemplo el
// abono en destino de una transferencia) para ejercitar la recompensa.
type Store struct {
	mu sync.RWMutex

	lots        map[string]*entity.Lot
	movements   []*entity.Movement
	transfers   map[string]*entity.Transfer
	conferences map[string]*entity.ConferenceSession
	locations   map[string]*entity.Location

	FailCreateMovement func(m *entity.Movement) error
}

// NewStore crea el estado vacío.
func NewStore() *Store {
	return &Store{
		lots:        map[string]*entity.Lot{},
		transfers:   map[string]*entity.Transfer{},
		conferences: map[string]*entity.ConferenceSession{},
		locations:   map[string]*entity.Location{},
	}
}

// TransferIDs devuelve los ids de las transferencias registradas, ordenados.
func (s *Store) TransferIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.transfers))
	for id := range s.transfers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// snapshot copia profunda del estado mutable (para rollback de transacción).
type snapshot struct {
	lots      map[string]*entity.Lot
	movements []*entity.Movement
	transfers map[string]*entity.Transfer
}

func (s *Store) takeSnapshot() *snapshot {
	snap := &snapshot{
		lots:      make(map[string]*entity.Lot, len(s.lots)),
		movements: make([]*entity.Movement, len(s.movements)),
		transfers: make(map[string]*entity.Transfer, len(s.transfers)),
	}
	for id, lot := range s.lots {
		copied := *lot
		snap.lots[id] = &copied
	}
	copy(snap.movements, s.movements)
	for id, t := range s.transfers {
		copied := *t
		snap.transfers[id] = &copied
	}
	return snap
}

func (s *Store) restore(snap *snapshot) {
	s.lots = snap.lots
	s.movements = snap.movements
	s.transfers = snap.transfers
}
