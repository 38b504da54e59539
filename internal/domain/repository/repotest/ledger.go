// Package repotest contiene pruebas de contrato compartidas por todas las
// implementaciones de los repositorios (memoria, SQLite, PostgreSQL).
package repotest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/precast-api/internal/domain/ledger"
	"github.com/jhoicas/precast-api/internal/domain/repository"
)

// LedgerSetup devuelve un repositorio y el id de un componente existente sin
// filas en el ledger.
type LedgerSetup func(t *testing.T) (repository.LedgerRepository, string)

// LedgerContract verifica la semántica de AddQuantity: crea la fila ausente,
// descuenta de una fila existente y rechaza cualquier resultado negativo sin
// modificar el estado.
func LedgerContract(t *testing.T, setup LedgerSetup) {
	ctx := context.Background()

	t.Run("crea la fila ausente", func(t *testing.T) {
		repo, id := setup(t)
		require.NoError(t, repo.AddQuantity(ctx, id, ledger.StatusPlanning, 100, "u1"))
		assertBuckets(t, repo, id, ledger.Buckets{ledger.StatusPlanning: 100})
	})

	t.Run("descuenta de una fila existente", func(t *testing.T) {
		repo, id := setup(t)
		require.NoError(t, repo.AddQuantity(ctx, id, ledger.StatusPlanning, 100, "u1"))
		require.NoError(t, repo.AddQuantity(ctx, id, ledger.StatusPlanning, -40, "u1"))
		require.NoError(t, repo.AddQuantity(ctx, id, ledger.StatusManufactured, 40, "u1"))
		assertBuckets(t, repo, id, ledger.Buckets{ledger.StatusPlanning: 60, ledger.StatusManufactured: 40})

		require.NoError(t, repo.AddQuantity(ctx, id, ledger.StatusPlanning, -60, "u1"))
		b := buckets(t, repo, id)
		assert.Equal(t, 0, b[ledger.StatusPlanning])
	})

	t.Run("rechaza resultado negativo en fila existente", func(t *testing.T) {
		repo, id := setup(t)
		require.NoError(t, repo.AddQuantity(ctx, id, ledger.StatusTransported, 5, "u1"))
		assert.Error(t, repo.AddQuantity(ctx, id, ledger.StatusTransported, -6, "u1"))
		assertBuckets(t, repo, id, ledger.Buckets{ledger.StatusTransported: 5})
	})

	t.Run("rechaza delta negativo sin fila", func(t *testing.T) {
		repo, id := setup(t)
		assert.Error(t, repo.AddQuantity(ctx, id, ledger.StatusRejected, -1, "u1"))
		assert.Empty(t, buckets(t, repo, id))
	})

	t.Run("DeleteByComponent vacía el ledger", func(t *testing.T) {
		repo, id := setup(t)
		require.NoError(t, repo.AddQuantity(ctx, id, ledger.StatusPlanning, 3, "u1"))
		require.NoError(t, repo.DeleteByComponent(ctx, id))
		assert.Empty(t, buckets(t, repo, id))
	})
}

func buckets(t *testing.T, repo repository.LedgerRepository, id string) ledger.Buckets {
	t.Helper()
	b, err := repo.GetBuckets(context.Background(), id)
	require.NoError(t, err)
	return b
}

func assertBuckets(t *testing.T, repo repository.LedgerRepository, id string, want ledger.Buckets) {
	t.Helper()
	assert.Equal(t, want, buckets(t, repo, id))
}
