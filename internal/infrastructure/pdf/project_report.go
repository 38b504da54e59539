// Package pdf genera el reporte de avance de un proyecto: una fila por
// componente fungible con la cantidad en cada estado y el total.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Código + Nombre del proyecto  │  Fecha de emisión   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Componente | Planning | Manufactured | ... | Total   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES por estado                                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/precast-api/internal/application/dto"
	"github.com/jhoicas/precast-api/internal/application/tracking"
	"github.com/jhoicas/precast-api/internal/domain/ledger"
)

var _ tracking.ProjectReportGenerator = (*ProjectReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ProjectReportGenerator implementa tracking.ProjectReportGenerator usando Maroto v2.
type ProjectReportGenerator struct {
	now func() time.Time
}

// NewProjectReportGenerator construye el generador.
func NewProjectReportGenerator() *ProjectReportGenerator {
	return &ProjectReportGenerator{now: time.Now}
}

// GenerateProjectReport genera el PDF y devuelve sus bytes.
func (g *ProjectReportGenerator) GenerateProjectReport(ctx context.Context, report *dto.ProjectAggregateDTO) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Avance de componentes "+report.ProjectCode, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	// cases.Caser guarda estado: uno por documento.
	m.AddRows(tableHeaderRow(cases.Title(language.Spanish)))
	totals := make(map[string]int, len(ledger.AllStatuses))
	grand := 0
	for _, c := range report.Components {
		m.AddRows(componentRow(c))
		for name, q := range c.Statuses {
			totals[name] += q
		}
		grand += c.Total
	}
	if len(report.Components) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("El proyecto no tiene componentes registrados.", props.Text{Size: 8, Top: 2, Color: colorGray}),
		)))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(totals, grand))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: código y nombre del proyecto (izq) y fecha de emisión (der).
func (g *ProjectReportGenerator) headerRow(report *dto.ProjectAggregateDTO) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(report.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Proyecto: "+report.ProjectCode, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("AVANCE DE COMPONENTES", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Fecha: "+g.now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: Componente (3) + 4 estados (2 c/u) + Total (1) = 12 columnas.
func tableHeaderRow(title cases.Caser) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	cols := []core.Col{h("Componente", 3, align.Left)}
	for _, s := range ledger.AllStatuses {
		cols = append(cols, h(title.String(s.String()), 2, align.Right))
	}
	cols = append(cols, h("Total", 1, align.Right))
	return row.New(8).Add(cols...)
}

func componentRow(c dto.ComponentAggregateDTO) core.Row {
	cell := func(v string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(v, props.Text{Size: 8, Align: a, Top: 1}))
	}
	cols := []core.Col{cell(c.Name, 3, align.Left)}
	for _, s := range ledger.AllStatuses {
		cols = append(cols, cell(strconv.Itoa(c.Statuses[s.String()]), 2, align.Right))
	}
	cols = append(cols, cell(strconv.Itoa(c.Total), 1, align.Right))
	return row.New(7).Add(cols...)
}

func totalsRow(totals map[string]int, grand int) core.Row {
	cell := func(v string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(v, props.Text{Style: fontstyle.Bold, Size: 8, Align: a, Top: 1}))
	}
	cols := []core.Col{cell("TOTALES", 3, align.Left)}
	for _, s := range ledger.AllStatuses {
		cols = append(cols, cell(strconv.Itoa(totals[s.String()]), 2, align.Right))
	}
	cols = append(cols, cell(strconv.Itoa(grand), 1, align.Right))
	return row.New(8).Add(cols...)
}
