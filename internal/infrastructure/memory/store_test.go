package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/precast-api/internal/domain/entity"
	"github.com/jhoicas/precast-api/internal/domain/ledger"
	"github.com/jhoicas/precast-api/internal/domain/repository"
	"github.com/jhoicas/precast-api/internal/domain/repository/repotest"
	"github.com/jhoicas/precast-api/internal/infrastructure/memory"
)

func seed(t *testing.T, s *memory.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Projects().Create(ctx, &entity.Project{ID: "p1", ProjectCode: "OBRA-1", Name: "Obra 1"}))
	require.NoError(t, s.Components().Create(ctx, &entity.OtherComponent{ID: "c1", ProjectID: "p1", Name: "Losa", TotalQuantity: 10}))
	require.NoError(t, s.Ledger().AddQuantity(ctx, "c1", ledger.StatusPlanning, 10, "u1"))
}

func TestRun_RollbackSiFnFalla(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Run(ctx, func(uow repository.UnitOfWork) error {
		require.NoError(t, uow.Ledger.AddQuantity(ctx, "c1", ledger.StatusPlanning, -4, "u1"))
		require.NoError(t, uow.Ledger.AddQuantity(ctx, "c1", ledger.StatusManufactured, 4, "u1"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	b, err := s.Ledger().GetBuckets(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, ledger.Buckets{ledger.StatusPlanning: 10}, b)
}

func TestRun_LecturasPropiasDentroDeLaTx(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	ctx := context.Background()

	err := s.Run(ctx, func(uow repository.UnitOfWork) error {
		require.NoError(t, uow.Ledger.AddQuantity(ctx, "c1", ledger.StatusPlanning, -3, "u1"))
		b, err := uow.Ledger.GetBuckets(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, 7, b.Get(ledger.StatusPlanning))

		committed, err := s.Ledger().GetBuckets(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, 10, committed.Get(ledger.StatusPlanning), "sin commit no es visible fuera")
		return uow.Ledger.AddQuantity(ctx, "c1", ledger.StatusRejected, 3, "u1")
	})
	require.NoError(t, err)

	b, _ := s.Ledger().GetBuckets(ctx, "c1")
	assert.Equal(t, ledger.Buckets{ledger.StatusPlanning: 7, ledger.StatusRejected: 3}, b)
}

func TestAddQuantity_RechazaNegativos(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	err := s.Ledger().AddQuantity(context.Background(), "c1", ledger.StatusTransported, -1, "u1")
	require.Error(t, err)
}

func TestGetForUpdate_EsperaAlOtroTxYRespetaElContexto(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)

	holding := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.Run(context.Background(), func(uow repository.UnitOfWork) error {
			if _, err := uow.Components.GetForUpdate(context.Background(), "c1"); err != nil {
				return err
			}
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := s.Run(ctx, func(uow repository.UnitOfWork) error {
		_, err := uow.Components.GetForUpdate(ctx, "c1")
		return err
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-done)

	// liberado el candado, otra transacción lo obtiene
	err = s.Run(context.Background(), func(uow repository.UnitOfWork) error {
		c, err := uow.Components.GetForUpdate(context.Background(), "c1")
		require.NotNil(t, c)
		return err
	})
	assert.NoError(t, err)
}

func TestHistory_MasRecientePrimeroYPaginado(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.History().Append(ctx, &entity.StatusHistory{
			ID: string(rune('a' + i)), ComponentID: "c1",
			FromStatus: ledger.StatusPlanning, ToStatus: ledger.StatusManufactured,
			Quantity: i + 1, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	recs, err := s.History().ListByComponent(ctx, "c1", 2, 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "c", recs[0].ID)
	assert.Equal(t, "b", recs[1].ID)

	recs, err = s.History().ListByComponent(ctx, "c1", 2, 2)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "a", recs[0].ID)
}

func TestAggregates_ComponenteSinFilas(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	ctx := context.Background()
	require.NoError(t, s.Components().Create(ctx, &entity.OtherComponent{ID: "c2", ProjectID: "p1", Name: "Muro", TotalQuantity: 5}))

	rows, err := s.Aggregates().ProjectRows(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "c1", rows[0].ComponentID)
	require.NotNil(t, rows[0].Status)
	assert.Equal(t, ledger.StatusPlanning, *rows[0].Status)
	assert.Equal(t, "c2", rows[1].ComponentID)
	assert.Nil(t, rows[1].Status)
}

func TestLedgerContract(t *testing.T) {
	repotest.LedgerContract(t, func(t *testing.T) (repository.LedgerRepository, string) {
		s := memory.NewStore()
		ctx := context.Background()
		require.NoError(t, s.Projects().Create(ctx, &entity.Project{ID: "p1", ProjectCode: "OBRA-1", Name: "Obra 1"}))
		require.NoError(t, s.Components().Create(ctx, &entity.OtherComponent{ID: "c1", ProjectID: "p1", Name: "Losa", TotalQuantity: 100}))
		return s.Ledger(), "c1"
	})
}
