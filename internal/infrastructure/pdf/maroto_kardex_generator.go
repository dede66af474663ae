// Package pdf genera el kardex (ficha de movimientos de stock) de un material.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Código + Nombre        │  Fecha de emisión   │ QR  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Unidad | Stock actual | Stock mínimo | Estado     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Cant. | Anterior | Nuevo | Motivo    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/alumac/alumac-api/internal/application/inventory"
	"github.com/alumac/alumac-api/internal/domain/entity"
)

var _ inventory.KardexPDFGenerator = (*MarotoKardexGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// MarotoKardexGenerator implementa inventory.KardexPDFGenerator usando Maroto v2.
type MarotoKardexGenerator struct {
	now func() time.Time
}

// NewMarotoKardexGenerator construye el generador.
func NewMarotoKardexGenerator() *MarotoKardexGenerator {
	return &MarotoKardexGenerator{now: time.Now}
}

// GenerateKardexPDF genera el PDF y devuelve sus bytes. movements viene del más reciente al más antiguo.
func (g *MarotoKardexGenerator) GenerateKardexPDF(
	_ context.Context,
	material *entity.Material,
	movements []*entity.StockMovementDetail,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex "+material.Codigo, true).
		WithAuthor("ALUMAC", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(material, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(material))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(movements) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos registrados.", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	m.AddRows(movementRows(movements)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar kardex: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(material *entity.Material, emitted time.Time) core.Row {
	return row.New(22).Add(
		col.New(7).Add(
			text.New("KARDEX DE MATERIAL", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(material.Nombre, props.Text{
				Style: fontstyle.Bold, Size: 13, Top: 6,
			}),
			text.New("Código: "+material.Codigo, props.Text{
				Size: 9, Top: 14, Color: colorGray,
			}),
		),
		col.New(3).Add(
			text.New("Emitido: "+emitted.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
		col.New(2).Add(code.NewQr(material.ID, props.Rect{Percent: 90, Center: true})),
	)
}

func summaryRow(material *entity.Material) core.Row {
	estado, color := "Normal", colorPrimary
	if !material.Activo {
		estado, color = "Inactivo", colorGray
	} else if material.BelowMinimum() {
		estado, color = "BAJO STOCK", colorAlert
	}
	cell := func(label, value string, valueColor *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 10, Top: 5, Color: valueColor}),
		)
	}
	return row.New(14).Add(
		cell("Unidad", material.UnidadMedida, nil),
		cell("Stock actual", material.StockActual.String(), nil),
		cell("Stock mínimo", material.StockMinimo.String(), nil),
		cell("Estado", estado, color),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 2, align.Left),
		h("Cant.", 1, align.Right),
		h("Anterior", 1, align.Right),
		h("Nuevo", 1, align.Right),
		h("Motivo / Compra", 3, align.Left),
		h("Usuario", 2, align.Left),
	)
}

func movementRows(movements []*entity.StockMovementDetail) []core.Row {
	result := make([]core.Row, 0, len(movements))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	for _, d := range movements {
		result = append(result, row.New(7).Add(
			cell(d.CreatedAt.Format("02/01/2006 15:04"), 2, align.Left),
			cell(typeLabel(d.Type), 2, align.Left),
			cell(d.Quantity.String(), 1, align.Right),
			cell(d.StockBefore.String(), 1, align.Right),
			cell(d.StockAfter.String(), 1, align.Right),
			cell(reasonLabel(d), 3, align.Left),
			cell(nonEmpty(d.UserName, d.CreatedBy), 2, align.Left),
		))
	}
	return result
}

func typeLabel(t entity.MovementType) string {
	switch t {
	case entity.MovementTypeENTRY:
		return "Entrada"
	case entity.MovementTypeEXIT:
		return "Salida"
	case entity.MovementTypeADJUSTMENT:
		return "Ajuste"
	case entity.MovementTypePURCHASE:
		return "Compra"
	}
	return string(t)
}

func reasonLabel(d *entity.StockMovementDetail) string {
	if d.CompraNumero == nil {
		return d.Reason
	}
	s := d.Reason + " (" + *d.CompraNumero
	if d.ProveedorNombre != nil {
		s += " - " + *d.ProveedorNombre
	}
	return s + ")"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
