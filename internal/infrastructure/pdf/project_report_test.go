package pdf_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/precast-api/internal/application/dto"
	"github.com/jhoicas/precast-api/internal/infrastructure/pdf"
)

func TestGenerateProjectReport(t *testing.T) {
	g := pdf.NewProjectReportGenerator()
	out, err := g.GenerateProjectReport(context.Background(), &dto.ProjectAggregateDTO{
		ID: "p1", ProjectCode: "OBRA-001", Name: "Torre Norte",
		Components: []dto.ComponentAggregateDTO{
			{ComponentID: "c1", Name: "Losa", Total: 100, Statuses: map[string]int{"planning": 60, "manufactured": 40, "transported": 40}},
			{ComponentID: "c2", Name: "Zapata", Total: 5, Statuses: map[string]int{}},
		},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateProjectReport_SinComponentes(t *testing.T) {
	g := pdf.NewProjectReportGenerator()
	out, err := g.GenerateProjectReport(context.Background(), &dto.ProjectAggregateDTO{ID: "p1", ProjectCode: "X", Name: "Vacío"})
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = g.GenerateProjectReport(context.Background(), nil)
	assert.Error(t, err)
}
