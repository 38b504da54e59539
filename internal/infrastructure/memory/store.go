// Package memory implementa los puertos de persistencia del seguimiento en
// memoria, con transacciones por etapas (los cambios se aplican solo en el
// Commit) y un bloqueo por componente equivalente a SELECT FOR UPDATE.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/precast-api/internal/domain/entity"
	"github.com/jhoicas/precast-api/internal/domain/ledger"
	"github.com/jhoicas/precast-api/internal/domain/repository"
)

// Store estado confirmado más los candados por componente.
type Store struct {
	mu         sync.RWMutex
	projects   map[string]entity.Project
	components map[string]entity.OtherComponent
	buckets    map[string]ledger.Buckets
	history    map[string][]entity.StatusHistory

	locksMu sync.Mutex
	locks   map[string]chan struct{}

	failMu        sync.Mutex
	historyFailer error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		projects:   map[string]entity.Project{},
		components: map[string]entity.OtherComponent{},
		buckets:    map[string]ledger.Buckets{},
		history:    map[string][]entity.StatusHistory{},
		locks:      map[string]chan struct{}{},
	}
}

// FailHistoryAppend hace que todo Append posterior devuelva err (nil lo desactiva).
// Sirve para comprobar que el ledger se revierte junto con el historial.
func (s *Store) FailHistoryAppend(err error) {
	s.failMu.Lock()
	s.historyFailer = err
	s.failMu.Unlock()
}

func (s *Store) historyFailure() error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	return s.historyFailer
}

// lock adquiere el candado del componente o devuelve ctx.Err() si el contexto termina antes.
func (s *Store) lock(ctx context.Context, componentID string) error {
	s.locksMu.Lock()
	ch, ok := s.locks[componentID]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[componentID] = ch
	}
	s.locksMu.Unlock()

	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) unlock(componentID string) {
	s.locksMu.Lock()
	ch := s.locks[componentID]
	s.locksMu.Unlock()
	<-ch
}

// Run implementa tracking.TxRunner. Los cambios de fn quedan en el tx y se
// aplican solo si fn termina sin error y el ctx sigue vigente.
func (s *Store) Run(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := newTx(s)
	defer tx.release()

	if err := fn(tx.unitOfWork()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// Repositorios fuera de transacción: leen el estado confirmado y cada escritura
// es su propia transacción.

func (s *Store) Components() repository.OtherComponentRepository { return &componentRepo{s: s} }
func (s *Store) Ledger() repository.LedgerRepository             { return &ledgerRepo{s: s} }
func (s *Store) History() repository.StatusHistoryRepository     { return &historyRepo{s: s} }
func (s *Store) Projects() repository.ProjectRepository          { return &projectRepo{s: s} }
func (s *Store) Aggregates() repository.AggregateRepository      { return &aggregateRepo{s: s} }

// autoCommit ejecuta una escritura suelta como transacción propia.
func (s *Store) autoCommit(ctx context.Context, fn func(tx *memTx) error) error {
	return s.Run(ctx, func(uow repository.UnitOfWork) error {
		return fn(uow.Components.(*componentRepo).tx)
	})
}
