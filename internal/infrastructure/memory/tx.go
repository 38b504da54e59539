package memory

import (
	"github.com/jhoicas/precast-api/internal/domain/entity"
	"github.com/jhoicas/precast-api/internal/domain/ledger"
	"github.com/jhoicas/precast-api/internal/domain/repository"
)

// memTx cambios pendientes de una transacción.
type memTx struct {
	s      *Store
	locked []string

	components       map[string]entity.OtherComponent
	deletedComponent map[string]bool
	buckets          map[string]ledger.Buckets
	history          []entity.StatusHistory
	clearedHistory   map[string]bool
	projects         map[string]entity.Project
}

func newTx(s *Store) *memTx {
	return &memTx{
		s:                s,
		components:       map[string]entity.OtherComponent{},
		deletedComponent: map[string]bool{},
		buckets:          map[string]ledger.Buckets{},
		clearedHistory:   map[string]bool{},
		projects:         map[string]entity.Project{},
	}
}

func (tx *memTx) unitOfWork() repository.UnitOfWork {
	return repository.UnitOfWork{
		Components: &componentRepo{s: tx.s, tx: tx},
		Ledger:     &ledgerRepo{s: tx.s, tx: tx},
		History:    &historyRepo{s: tx.s, tx: tx},
	}
}

func (tx *memTx) holds(componentID string) bool {
	for _, id := range tx.locked {
		if id == componentID {
			return true
		}
	}
	return false
}

func (tx *memTx) release() {
	for _, id := range tx.locked {
		tx.s.unlock(id)
	}
	tx.locked = nil
}

// component lee primero los cambios pendientes y luego el estado confirmado.
func (tx *memTx) component(id string) (entity.OtherComponent, bool) {
	if tx.deletedComponent[id] {
		return entity.OtherComponent{}, false
	}
	if c, ok := tx.components[id]; ok {
		return c, true
	}
	tx.s.mu.RLock()
	defer tx.s.mu.RUnlock()
	c, ok := tx.s.components[id]
	return c, ok
}

func (tx *memTx) bucketsFor(componentID string) ledger.Buckets {
	if b, ok := tx.buckets[componentID]; ok {
		return b
	}
	tx.s.mu.RLock()
	b := tx.s.buckets[componentID].Clone()
	tx.s.mu.RUnlock()
	tx.buckets[componentID] = b
	return b
}

func (tx *memTx) commit() {
	s := tx.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range tx.projects {
		s.projects[id] = p
	}
	for id := range tx.clearedHistory {
		delete(s.history, id)
	}
	for id, c := range tx.components {
		s.components[id] = c
	}
	for id, b := range tx.buckets {
		s.buckets[id] = b
	}
	for _, h := range tx.history {
		s.history[h.ComponentID] = append(s.history[h.ComponentID], h)
	}
	for id := range tx.deletedComponent {
		delete(s.components, id)
		delete(s.buckets, id)
		delete(s.history, id)
	}
}
