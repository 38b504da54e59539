package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/precast-api/internal/application/dto"
	"github.com/jhoicas/precast-api/internal/application/tracking"
	"github.com/jhoicas/precast-api/internal/domain"
	"github.com/jhoicas/precast-api/internal/domain/entity"
	"github.com/jhoicas/precast-api/internal/domain/ledger"
	"github.com/jhoicas/precast-api/internal/domain/repository"
	"github.com/jhoicas/precast-api/internal/domain/repository/repotest"
	"github.com/jhoicas/precast-api/internal/infrastructure/sqlite"
)

const actor = "operador-1"

type env struct {
	projects    *sqlite.ProjectRepo
	ledger      *sqlite.LedgerRepo
	history     *sqlite.StatusHistoryRepo
	runner      *sqlite.TxRunner
	components  *tracking.ComponentUseCase
	transitions *tracking.TransitionUseCase
	aggregates  *tracking.AggregateUseCase
	projectID   string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "precast.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	applied, err := sqlite.Migrate(ctx, db)
	require.NoError(t, err)
	require.NotEmpty(t, applied)

	e := &env{
		projects: sqlite.NewProjectRepository(db),
		ledger:   sqlite.NewLedgerRepository(db),
		history:  sqlite.NewStatusHistoryRepository(db),
		runner:   sqlite.NewTxRunner(db),
	}
	comps := sqlite.NewOtherComponentRepository(db)
	e.components = tracking.NewComponentUseCase(e.runner, e.projects, comps, e.ledger, e.history, nil, tracking.Config{})
	e.transitions = tracking.NewTransitionUseCase(e.runner, nil, nil, tracking.Config{})
	e.aggregates = tracking.NewAggregateUseCase(e.projects, comps, e.ledger, sqlite.NewAggregateRepository(db), nil)

	p, err := tracking.NewProjectUseCase(e.projects).Create(ctx, "OBRA-001", "Torre Norte")
	require.NoError(t, err)
	e.projectID = p.ID
	return e
}

func (e *env) create(t *testing.T, total int) string {
	t.Helper()
	out, err := e.components.Create(context.Background(), actor, dto.CreateOtherComponentRequest{
		ProjectID: e.projectID, Name: "Losa", TotalQuantity: total,
		Width: decimal.RequireFromString("1.25"),
	})
	require.NoError(t, err)
	return out.ID
}

func (e *env) move(id, from, to string, q int) error {
	_, err := e.transitions.RequestTransition(context.Background(), tracking.TransitionInput{
		ComponentID: id, FromStatus: from, ToStatus: to, Quantity: q, ActorID: actor,
	})
	return err
}

func TestMigrateEsIdempotente(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	defer db.Close()

	first, err := sqlite.Migrate(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []string{"migrations/001_other_components.sql"}, first)

	second, err := sqlite.Migrate(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestLedgerContract(t *testing.T) {
	repotest.LedgerContract(t, func(t *testing.T) (repository.LedgerRepository, string) {
		e := newEnv(t)
		id := e.create(t, 100)
		require.NoError(t, e.ledger.DeleteByComponent(context.Background(), id))
		return e.ledger, id
	})
}

func (e *env) buckets(t *testing.T, id string) ledger.Buckets {
	t.Helper()
	b, err := e.ledger.GetBuckets(context.Background(), id)
	require.NoError(t, err)
	return b
}

func TestEscenarios(t *testing.T) {
	t.Run("flujo estándar", func(t *testing.T) {
		e := newEnv(t)
		id := e.create(t, 100)

		require.NoError(t, e.move(id, "planning", "manufactured", 40))
		assert.Equal(t, ledger.Buckets{ledger.StatusPlanning: 60, ledger.StatusManufactured: 40}, e.buckets(t, id))

		// manufactured no se descuenta al transportar
		require.NoError(t, e.move(id, "manufactured", "transported", 40))
		assert.Equal(t, ledger.Buckets{
			ledger.StatusPlanning: 60, ledger.StatusManufactured: 40, ledger.StatusTransported: 40,
		}, e.buckets(t, id))
	})

	t.Run("rechazo devuelve a planning", func(t *testing.T) {
		e := newEnv(t)
		id := e.create(t, 100)
		require.NoError(t, e.move(id, "planning", "manufactured", 40))
		require.NoError(t, e.move(id, "manufactured", "transported", 40))

		require.NoError(t, e.move(id, "transported", "rejected", 20))
		assert.Equal(t, ledger.Buckets{
			ledger.StatusPlanning: 80, ledger.StatusManufactured: 40,
			ledger.StatusTransported: 20, ledger.StatusRejected: 20,
		}, e.buckets(t, id))
	})

	t.Run("cantidad insuficiente", func(t *testing.T) {
		e := newEnv(t)
		id := e.create(t, 100)
		require.NoError(t, e.move(id, "planning", "manufactured", 40))
		require.NoError(t, e.move(id, "manufactured", "transported", 40))
		before := e.buckets(t, id)

		err := e.move(id, "transported", "rejected", 50)
		require.ErrorIs(t, err, domain.ErrInsufficientQuantity)
		var te *ledger.TransitionError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, 40, te.Available)
		assert.Equal(t, before, e.buckets(t, id))
	})

	t.Run("planning a cero y vuelta", func(t *testing.T) {
		e := newEnv(t)
		id := e.create(t, 10)
		require.NoError(t, e.move(id, "planning", "manufactured", 10))
		require.NoError(t, e.move(id, "manufactured", "planning", 4))
		assert.Equal(t, ledger.Buckets{ledger.StatusPlanning: 4, ledger.StatusManufactured: 6}, e.buckets(t, id))
	})
}

func TestHistorialEmpateDeFecha(t *testing.T) {
	e := newEnv(t)
	id := e.create(t, 10)
	ctx := context.Background()
	require.NoError(t, e.history.DeleteByComponent(ctx, id))

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, to := range []ledger.Status{ledger.StatusManufactured, ledger.StatusTransported} {
		require.NoError(t, e.history.Append(ctx, &entity.StatusHistory{
			ID: uuid.NewString(), ComponentID: id, FromStatus: ledger.StatusPlanning, ToStatus: to,
			Quantity: 1, CreatedBy: actor, CreatedAt: at,
		}))
	}
	hist, err := e.history.ListByComponent(ctx, id, 10, 0)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, ledger.StatusTransported, hist[0].ToStatus)
}

func TestFlujoCompletoSobreSQLite(t *testing.T) {
	e := newEnv(t)
	id := e.create(t, 100)

	require.NoError(t, e.move(id, "planning", "manufactured", 40))
	require.NoError(t, e.move(id, "manufactured", "transported", 30))
	require.NoError(t, e.move(id, "transported", "rejected", 5))

	b, err := e.ledger.GetBuckets(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, ledger.Buckets{
		ledger.StatusPlanning: 65, ledger.StatusManufactured: 40,
		ledger.StatusTransported: 25, ledger.StatusRejected: 5,
	}, b)

	got, err := e.components.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1.25").Equal(got.Width))

	hist, err := e.history.ListByComponent(context.Background(), id, 10, 0)
	require.NoError(t, err)
	require.Len(t, hist, 4) // base + 3 transiciones
	assert.Equal(t, ledger.StatusTransported, hist[0].FromStatus)
	assert.Equal(t, ledger.StatusRejected, hist[0].ToStatus)
}

func TestInsuficienteNoEscribe(t *testing.T) {
	e := newEnv(t)
	id := e.create(t, 10)

	err := e.move(id, "manufactured", "transported", 1)
	require.ErrorIs(t, err, domain.ErrInsufficientQuantity)
	var te *ledger.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 0, te.Available)

	hist, err := e.history.ListByComponent(context.Background(), id, 10, 0)
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

func TestFalloDentroDeLaTxRevierteTodo(t *testing.T) {
	e := newEnv(t)
	id := e.create(t, 10)
	boom := errors.New("boom")

	err := e.runner.Run(context.Background(), func(uow repository.UnitOfWork) error {
		if err := uow.Ledger.AddQuantity(context.Background(), id, ledger.StatusPlanning, -4, actor); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	b, err := e.ledger.GetBuckets(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 10, b[ledger.StatusPlanning])
}

func TestCheckRechazaCantidadNegativa(t *testing.T) {
	e := newEnv(t)
	id := e.create(t, 3)
	err := e.ledger.AddQuantity(context.Background(), id, ledger.StatusPlanning, -4, actor)
	assert.Error(t, err)
}

func TestTransicionesConcurrentes(t *testing.T) {
	e := newEnv(t)
	id := e.create(t, 10)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := e.move(id, "planning", "manufactured", 6)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else {
				fail++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, fail)
}

func TestProyectoDuplicado(t *testing.T) {
	e := newEnv(t)
	err := e.projects.Create(context.Background(), &entity.Project{
		ID: uuid.NewString(), ProjectCode: "OBRA-001", Name: "Otra",
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestComponenteEnProyectoInexistente(t *testing.T) {
	e := newEnv(t)
	_, err := e.components.Create(context.Background(), actor, dto.CreateOtherComponentRequest{
		ProjectID: uuid.NewString(), Name: "X", TotalQuantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestAgregadoYBorrado(t *testing.T) {
	e := newEnv(t)
	id := e.create(t, 20)
	require.NoError(t, e.move(id, "planning", "manufactured", 5))

	agg, err := e.aggregates.ProjectAggregate(context.Background(), e.projectID)
	require.NoError(t, err)
	require.Len(t, agg.Components, 1)
	assert.Equal(t, 15, agg.Components[0].Statuses["planning"])
	assert.Equal(t, 5, agg.Components[0].Statuses["manufactured"])

	require.NoError(t, e.components.Delete(context.Background(), actor, id))
	_, err = e.components.Get(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrComponentNotFound)

	hist, err := e.history.ListByComponent(context.Background(), id, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, hist)
}
