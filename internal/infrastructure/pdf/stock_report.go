// Package pdf genera el reporte PDF de productos con stock bajo.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha de generación │ total de productos  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: ID | Nombre | Precio | Stock | Mínimo | Estado       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"
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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/productos-api/internal/application/ports"
	"github.com/jhoicas/productos-api/internal/domain/entity"
	"github.com/jhoicas/productos-api/internal/domain/inventory"
)

var _ ports.StockReportGenerator = (*StockReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 178, Green: 34, Blue: 34}
	colorWarning = &props.Color{Red: 204, Green: 122, Blue: 0}
)

// StockReportGenerator implementa ports.StockReportGenerator usando Maroto v2.
type StockReportGenerator struct {
	appName string
}

// NewStockReportGenerator construye el generador; appName aparece como autor del documento.
func NewStockReportGenerator(appName string) *StockReportGenerator {
	return &StockReportGenerator{appName: appName}
}

// GenerateLowStockReport genera el PDF y devuelve sus bytes. Con la lista vacía
// el documento indica que no hay productos por reponer.
func (g *StockReportGenerator) GenerateLowStockReport(
	_ context.Context,
	productos []*entity.Producto,
	generado time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de stock bajo", true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(len(productos), generado))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if len(productos) == 0 {
		m.AddRows(row.New(12).Add(col.New(12).Add(
			text.New("No hay productos activos con stock en o bajo su mínimo.", props.Text{
				Size: 10, Align: align.Center, Top: 4, Color: colorGray,
			}),
		)))
	} else {
		m.AddRows(tableHeaderRow())
		m.AddRows(tableRows(productos)...)
	}

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

func headerRow(total int, generado time.Time) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New("REPORTE DE STOCK BAJO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+generado.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New(fmt.Sprintf("%d productos", total), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 4,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("ID", 1, align.Center),
		h("Nombre", 4, align.Left),
		h("Precio", 2, align.Right),
		h("Stock", 1, align.Center),
		h("Mínimo", 2, align.Center),
		h("Estado", 2, align.Center),
	)
}

// tableRows una fila por producto; sin stock en rojo, stock bajo en ámbar.
func tableRows(productos []*entity.Producto) []core.Row {
	result := make([]core.Row, 0, len(productos))
	for _, p := range productos {
		tipo := inventory.AlertaPorDisminucion(p.Stock, p.StockMinimo)
		estado, color := "OK", colorGray
		switch tipo {
		case inventory.AlertaSinStock:
			estado, color = "SIN STOCK", colorDanger
		case inventory.AlertaStockBajo:
			estado, color = "STOCK BAJO", colorWarning
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(strconv.FormatInt(p.ID, 10), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(p.Nombre, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New("$"+formatMoney(p.Precio), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(strconv.Itoa(p.Stock), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(strconv.Itoa(p.StockMinimo), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(estado, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1, Color: color})),
		))
	}
	return result
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("Productos activos cuyo stock es menor o igual a su stock mínimo.", props.Text{
			Size: 6.5, Color: colorGray, Top: 2,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatMoney con puntos de miles y coma decimal. Ej: 1234567.5 → "1.234.567,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	entero, frac, _ := strings.Cut(s, ".")

	n := len(entero)
	buf := make([]byte, 0, n+n/3+3)
	for i, c := range []byte(entero) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := string(buf) + "," + frac
	if neg {
		return "-" + out
	}
	return out
}
