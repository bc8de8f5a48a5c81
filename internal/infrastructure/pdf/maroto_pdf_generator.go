// Package pdf implementa la generación del reporte de Pedido de Compra.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Norte Tech WMS  │  N° Pedido + Data + Status       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FORNECEDOR: nombre + N° orden externo                      │
//	│  SOLICITANTE: requester + prioridad                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Descrição | Qtd | Preço Unit. | Subtotal      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL DO PEDIDO                                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  HISTÓRICO DE APROVAÇÃO                                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/nortetech/wms-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 13, Green: 71, Blue: 161}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// formatBRL formatea un decimal como moneda brasileña (R$ 1.234,56).
func formatBRL(d decimal.Decimal) string {
	f, _ := d.Float64()
	return ptBR.Sprintf("R$ %v", number.Decimal(f,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator genera reportes de pedido de compra usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GeneratePurchaseOrderPDF genera el PDF del pedido y devuelve sus bytes.
func (g *MarotoPDFGenerator) GeneratePurchaseOrderPDF(_ context.Context, po *entity.PurchaseOrder) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Pedido de Compra "+po.ID, true).
		WithAuthor("Norte Tech WMS", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(po))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(vendorRow(po))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(po.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(po))

	if len(po.ApprovalHistory) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		for _, r := range approvalRows(po.ApprovalHistory) {
			m.AddRows(r)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del almacén (izq) y número/fecha/status del pedido (der).
func headerRow(po *entity.PurchaseOrder) core.Row {
	fecha := po.RequestDate.Format("02/01/2006")
	return row.New(18).Add(
		col.New(7).Add(
			text.New("Norte Tech WMS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Pedido de Compra", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(po.ID, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New("Data: "+fecha, props.Text{
				Size: 9, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Status: "+string(po.Status), props.Text{
				Size: 9, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// vendorRow: proveedor y solicitante.
func vendorRow(po *entity.PurchaseOrder) core.Row {
	vendorLine := po.Vendor
	if po.VendorOrderNumber != "" {
		vendorLine += "  ·  Ordem externa: " + po.VendorOrderNumber
	}
	return row.New(14).Add(
		col.New(7).Add(
			text.New("FORNECEDOR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorGray}),
			text.New(vendorLine, props.Text{Size: 10, Top: 5}),
		),
		col.New(5).Add(
			text.New("SOLICITANTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorGray, Align: align.Right}),
			text.New(fmt.Sprintf("%s (%s)", po.Requester, po.Priority), props.Text{
				Size: 9, Top: 5, Align: align.Right,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary}
	headerRight := props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Align: align.Right}
	return row.New(7).Add(
		col.New(3).Add(text.New("SKU", header)),
		col.New(4).Add(text.New("Descrição", header)),
		col.New(1).Add(text.New("Qtd", headerRight)),
		col.New(2).Add(text.New("Preço Unit.", headerRight)),
		col.New(2).Add(text.New("Subtotal", headerRight)),
	)
}

func tableItemRows(items []entity.POItem) []core.Row {
	cell := props.Text{Size: 9}
	cellRight := props.Text{Size: 9, Align: align.Right}
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		subtotal := it.Price.Mul(decimal.NewFromInt(int64(it.Qty)))
		rows = append(rows, row.New(6).Add(
			col.New(3).Add(text.New(it.SKU, cell)),
			col.New(4).Add(text.New(it.Name, cell)),
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.Qty), cellRight)),
			col.New(2).Add(text.New(formatBRL(it.Price), cellRight)),
			col.New(2).Add(text.New(formatBRL(subtotal), cellRight)),
		))
	}
	return rows
}

func totalRow(po *entity.PurchaseOrder) core.Row {
	return row.New(10).Add(
		col.New(8).Add(
			text.New("TOTAL DO PEDIDO", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New(formatBRL(po.Total), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 2, Color: colorPrimary,
			}),
		),
	)
}

func approvalRows(history []entity.ApprovalRecord) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New("HISTÓRICO DE APROVAÇÃO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorGray,
			}),
		)),
	}
	for _, rec := range history {
		line := fmt.Sprintf("%s  ·  %s  ·  %s", rec.At.Format("02/01/2006 15:04"), rec.Action, rec.By)
		if rec.Reason != "" {
			line += "  ·  " + rec.Reason
		}
		rows = append(rows, row.New(5).Add(
			col.New(12).Add(text.New(line, props.Text{Size: 8})),
		))
	}
	return rows
}
