// Package pdf genera el comprobante de venta en PDF.
//
// Layout (ancho carta, una columna de 12):
//
//	┌──────────────────────────────────────────────────────┐
//	│  Tienda + email          │  N° venta + fecha          │
//	│  Cliente (si aplica)                                  │
//	│  Cant | Producto | P.Unit | Subtotal                  │
//	│  TOTAL / medio de pago / saldo a crédito              │
//	│  Abonos (ventas a crédito) + QR con el número         │
//	└──────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos-api/internal/application/sales"
	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
)

var _ sales.ReceiptGenerator = (*ReceiptGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ReceiptGenerator implementa sales.ReceiptGenerator con Maroto v2.
type ReceiptGenerator struct{}

// NewReceiptGenerator construye el generador.
func NewReceiptGenerator() *ReceiptGenerator { return &ReceiptGenerator{} }

// GenerateReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) GenerateReceipt(_ context.Context, r sales.Receipt) ([]byte, error) {
	store := storeName(r.Tenant)
	cfg := config.NewBuilder().
		WithPageSize(pagesize.Letter).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante "+r.Sale.SaleNumber, true).
		WithAuthor(store, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(store, r.Tenant, r.Sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	if r.Customer != nil {
		m.AddRows(customerRow(r.Customer))
	}
	if r.Sale.Status == entity.SaleStatusCanceled {
		m.AddRows(row.New(8).Add(col.New(12).Add(text.New("VENTA ANULADA", props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Center, Top: 1,
		}))))
	}
	m.AddRows(tableHeaderRow())
	m.AddRows(lineRows(r.Lines)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(r.Sale)...)
	if r.Sale.IsCredit() {
		m.AddRows(paymentRows(r.Payments)...)
	}
	m.AddRows(row.New(35).Add(
		col.New(3).Add(code.NewQr(r.Sale.SaleNumber, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(text.New("Gracias por su compra. Conserve este comprobante para cambios y abonos.",
			props.Text{Size: 8, Top: 10, Left: 3, Color: colorGray})),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

func storeName(t *entity.Tenant) string {
	if t == nil {
		return "Tienda"
	}
	return nonEmpty(t.BusinessName, nonEmpty(t.Email, "Tienda"))
}

func headerRow(store string, t *entity.Tenant, s *entity.Sale) core.Row {
	email := ""
	if t != nil {
		email = t.Email
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(store, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(email, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(s.SaleNumber, props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7}),
			text.New("Fecha: "+s.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func customerRow(c *entity.Customer) core.Row {
	return row.New(12).Add(col.New(12).Add(
		text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		text.New(fmt.Sprintf("%s   |   Doc: %s   |   Tel: %s",
			c.Name, nonEmpty(c.Document, "-"), nonEmpty(c.Phone, "-"),
		), props.Text{Size: 8, Top: 6}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 2, align.Center),
		h("Producto", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func lineRows(lines []sales.ReceiptLine) []core.Row {
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		out = append(out, row.New(7).Add(
			col.New(2).Add(text.New(l.Item.Quantity.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(l.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(money(l.Item.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(money(l.Item.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func totalsRows(s *entity.Sale) []core.Row {
	kv := func(label, value string, bold bool) core.Row {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		return row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})),
			col.New(3).Add(text.New(value, props.Text{Style: style, Size: 9, Align: align.Right, Right: 1})),
		)
	}
	rows := []core.Row{
		kv("TOTAL:", money(s.Total), true),
		kv("Medio de pago:", s.PaymentMethod, false),
	}
	if s.IsCredit() {
		rows = append(rows,
			kv("Abonado:", money(s.AmountPaid), false),
			kv("Saldo:", money(s.AmountPending), true),
		)
		if s.DueDate != nil {
			rows = append(rows, kv("Vence:", s.DueDate.Format("02/01/2006"), false))
		}
	}
	if s.PointsEarned > 0 {
		rows = append(rows, kv("Puntos ganados:", fmt.Sprintf("%d", s.PointsEarned), false))
	}
	return rows
}

func paymentRows(payments []*entity.CreditPayment) []core.Row {
	if len(payments) == 0 {
		return nil
	}
	rows := []core.Row{row.New(7).Add(col.New(12).Add(text.New("ABONOS", props.Text{
		Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
	})))}
	for _, p := range payments {
		rows = append(rows, row.New(5).Add(
			col.New(4).Add(text.New(p.CreatedAt.Format("02/01/2006 15:04"), props.Text{Size: 8, Color: colorGray})),
			col.New(4).Add(text.New(p.PaymentMethod, props.Text{Size: 8})),
			col.New(4).Add(text.New(money(p.Amount), props.Text{Size: 8, Align: align.Right, Right: 1})),
		))
	}
	return rows
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea pesos sin decimales con puntos de miles: 1250000 -> "$1.250.000".
func money(d decimal.Decimal) string {
	s := d.Abs().StringFixed(0)
	sign := ""
	if d.Round(0).IsNegative() {
		sign = "-"
	}
	return sign + "$" + thousands(s)
}

func thousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
