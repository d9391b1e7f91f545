// Package pdf implementa la generación del informe de asignación de insumos.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del informe  │  Fecha + corte del histórico │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ALCANCE: departamento filtrado y tamaño del lote           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  POR ARTÍCULO: identificador + disponible                   │
//	│     TABLA: Departamento | Proporción (%) | Cantidad         │
//	│     TOTAL ASIGNADO                                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda de generación                              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

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

	"github.com/jhoicas/Asignacion-api/internal/application/dto"
	"github.com/jhoicas/Asignacion-api/internal/application/reports"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa reports.AllocationReportGenerator usando
// Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

var _ reports.AllocationReportGenerator = (*MarotoReportGenerator)(nil)

// GenerateAllocationPDF genera el PDF del informe y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateAllocationPDF(
	_ context.Context,
	report *reports.AllocationReport,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Informe de Asignación de Insumos", true).
		WithAuthor("Asignación de Insumos", true).
		Build()

	m := maroto.New(cfg)

	// Header principal
	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(scopeRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Un bloque por artículo del lote
	for _, res := range report.Results {
		m.AddRows(itemHeaderRow(res))
		if !res.Found {
			m.AddRows(notFoundRow(res))
			continue
		}
		m.AddRows(tableHeaderRow())
		for _, r := range tableRows(res) {
			m.AddRows(r)
		}
		m.AddRows(totalRow(res))
	}

	// Footer
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y fechas de generación y de corte (der).
func headerRow(report *reports.AllocationReport) core.Row {
	generado := report.GeneratedAt.Format("02/01/2006 15:04")
	corte := report.SnapshotAt.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New("INFORME DE ASIGNACIÓN DE INSUMOS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Reparto proporcional por consumo histórico", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Generado: "+generado, props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
			text.New("Histórico al: "+corte, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// scopeRow: alcance del cálculo.
func scopeRow(report *reports.AllocationReport) core.Row {
	depto := report.Department
	if depto == "" {
		depto = "Todos los departamentos"
	}
	return row.New(10).Add(
		col.New(12).Add(
			text.New("ALCANCE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Departamento: %s   |   Artículos en el lote: %d",
				depto, len(report.Results),
			), props.Text{Size: 8, Top: 6, Color: colorGray}),
		),
	)
}

// itemHeaderRow: identificador y cantidad disponible de la línea.
func itemHeaderRow(res dto.AllocationItemResult) core.Row {
	return row.New(10).Add(
		col.New(8).Add(text.New(res.Identifier, props.Text{
			Style: fontstyle.Bold, Size: 10, Top: 3,
		})),
		col.New(4).Add(text.New("Disponible: "+res.Available.String(), props.Text{
			Size: 8, Align: align.Right, Top: 4, Color: colorGray,
		})),
	)
}

// notFoundRow: línea sin reparto con el motivo.
func notFoundRow(res dto.AllocationItemResult) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(res.Message, props.Text{Size: 8, Top: 1, Left: 2, Color: colorGray}),
	))
}

// tableHeaderRow: cabecera de la tabla de reparto.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Departamento", 6, align.Left),
		h("Proporción (%)", 3, align.Right),
		h("Cantidad asignada", 3, align.Right),
	)
}

// tableRows: una fila por departamento del reparto.
func tableRows(res dto.AllocationItemResult) []core.Row {
	result := make([]core.Row, 0, len(res.Rows))
	for _, r := range res.Rows {
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(
				r.Department,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				r.Proportion.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				strconv.FormatInt(r.Quantity, 10),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalRow: total asignado de la línea, alineado con la última columna.
func totalRow(res dto.AllocationItemResult) core.Row {
	return row.New(8).Add(
		col.New(9).Add(text.New("TOTAL ASIGNADO:", props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right,
			Color: colorPrimary, Top: 1, Right: 2,
		})),
		col.New(3).Add(text.New(strconv.FormatInt(res.TotalAllocated, 10), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right,
			Color: colorPrimary, Top: 1, Right: 1,
		})),
	)
}

// footerRow: leyenda de generación.
func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Reparto calculado sobre el consumo registrado en las salidas de bodega (CHECK_OUT). "+
				"Las cantidades asignadas son enteras y suman exactamente lo disponible de cada artículo.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}
