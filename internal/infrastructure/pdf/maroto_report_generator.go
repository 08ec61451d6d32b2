// Package pdf implementa la generación del reporte de asignaciones de
// stock por sucursal (solo admin).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Por ítem: Nombre | Stock total | Sin asignar                │
//	│    TABLA: Sucursal | Cantidad asignada                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"
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

	"github.com/tu-usuario/gacha-stock/internal/application/gacha"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa gacha.ReportPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

var _ gacha.ReportPDFGenerator = (*MarotoReportGenerator)(nil)

// GenerateAllocationReport genera el PDF del reporte y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateAllocationReport(_ context.Context, rows []gacha.ReportRow) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de asignaciones de stock", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow())
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))

	for _, r := range rows {
		m.AddRows(itemRows(r)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generar reporte PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow() core.Row {
	return row.New(12).Add(
		col.New(8).Add(
			text.New("Reporte de asignaciones de stock", props.Text{
				Size: 14, Style: fontstyle.Bold, Color: colorPrimary,
			}),
		),
		col.New(4).Add(
			text.New(time.Now().Format("2006-01-02 15:04"), props.Text{
				Size: 9, Align: align.Right, Color: colorGray,
			}),
		),
	)
}

func itemRows(r gacha.ReportRow) []core.Row {
	rows := []core.Row{
		row.New(8).Add(
			col.New(6).Add(text.New(r.ItemName, props.Text{Size: 11, Style: fontstyle.Bold})),
			col.New(3).Add(text.New(fmt.Sprintf("Stock total: %d", r.TotalStock), props.Text{Size: 9, Align: align.Right})),
			col.New(3).Add(text.New(fmt.Sprintf("Sin asignar: %d", r.Unallocated), props.Text{Size: 9, Align: align.Right, Color: colorGray})),
		),
	}

	branches := make([]string, 0, len(r.Allocations))
	for name := range r.Allocations {
		branches = append(branches, name)
	}
	sort.Strings(branches)

	for _, branch := range branches {
		rows = append(rows, row.New(5).Add(
			col.New(1),
			col.New(6).Add(text.New(branch, props.Text{Size: 9})),
			col.New(5).Add(text.New(fmt.Sprintf("%d", r.Allocations[branch]), props.Text{Size: 9, Align: align.Right})),
		))
	}

	rows = append(rows, line.NewRow(3, props.Line{Color: colorGray, Thickness: 0.2}))
	return rows
}
