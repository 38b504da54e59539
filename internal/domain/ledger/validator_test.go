package ledger_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/precast-api/internal/domain"
	"github.com/jhoicas/precast-api/internal/domain/ledger"
)

func TestValidate_Tabla(t *testing.T) {
	standard := ledger.Buckets{planning: 60, manufactured: 40, transported: 40}

	tests := []struct {
		name     string
		current  ledger.Buckets
		total    int
		from, to ledger.Status
		qty      int
		wantErr  error
	}{
		{"planning a manufactured", ledger.Buckets{planning: 100}, 100, planning, manufactured, 40, nil},
		{"manufactured a transported", ledger.Buckets{planning: 60, manufactured: 40}, 100, manufactured, transported, 40, nil},
		{"transported a rejected parcial", standard, 100, transported, rejected, 20, nil},
		{"transported a rejected excede lo disponible", standard, 100, transported, rejected, 50, domain.ErrInsufficientQuantity},
		{"arista inexistente", standard, 100, planning, transported, 1, domain.ErrIllegalTransition},
		{"mismo estado", standard, 100, planning, planning, 1, domain.ErrIllegalTransition},
		{"transported desde rejected", ledger.Buckets{rejected: 5}, 10, rejected, transported, 1, domain.ErrIllegalTransition},
		{"origen vacío", ledger.Buckets{planning: 10}, 10, rejected, planning, 1, domain.ErrInsufficientQuantity},
		{"transported excede el total", ledger.Buckets{manufactured: 10, transported: 5}, 10, manufactured, transported, 6, domain.ErrCapacityExceeded},
		{"manufactured a planning con transported lleno", standard, 100, manufactured, planning, 10, domain.ErrCapacityExceeded},
		{"manufactured a planning dentro de la capacidad", ledger.Buckets{planning: 60, manufactured: 40}, 100, manufactured, planning, 40, nil},
		{"rejected a planning excede la suma", ledger.Buckets{planning: 80, transported: 20, rejected: 20}, 100, rejected, planning, 5, domain.ErrCapacityExceeded},
		{"cantidad cero", standard, 100, planning, manufactured, 0, domain.ErrInvalidInput},
		{"cantidad negativa", standard, 100, planning, manufactured, -3, domain.ErrInvalidInput},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := tc.current.Clone()
			err := ledger.Validate(tc.current, tc.total, tc.from, tc.to, tc.qty)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.wantErr)
			}
			assert.Equal(t, before, tc.current, "Validate no debe mutar el estado")
		})
	}
}

func TestValidate_DetallesDelError(t *testing.T) {
	standard := ledger.Buckets{planning: 60, manufactured: 40, transported: 40}

	err := ledger.Validate(standard, 100, transported, rejected, 50)
	var te *ledger.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 40, te.Available)
	assert.Equal(t, 50, te.Requested)
	assert.Contains(t, err.Error(), "disponible: 40")

	err = ledger.Validate(ledger.Buckets{manufactured: 10, transported: 5}, 10, manufactured, transported, 6)
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 11, te.Computed)
	assert.Equal(t, 10, te.Capacity)
}

// Secuencias aleatorias: solo se aplican las transiciones que el validador acepta.
// Ningún bucket queda negativo y transported nunca supera el total.
func TestValidate_SecuenciasAleatorias(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	edges := ledger.Edges()

	for run := 0; run < 200; run++ {
		total := 1 + rng.Intn(50)
		b := ledger.Buckets{planning: total}

		for step := 0; step < 60; step++ {
			e := edges[rng.Intn(len(edges))]
			qty := 1 + rng.Intn(total)
			if err := ledger.Validate(b, total, e.From, e.To, qty); err != nil {
				continue
			}
			b = ledger.Apply(b, e.From, e.To, qty)

			for _, s := range ledger.AllStatuses {
				require.GreaterOrEqual(t, b.Get(s), 0, "bucket %s negativo", s)
			}
			require.LessOrEqual(t, b.Get(transported), total)
		}
	}
}
