package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto de la tienda.
// Stock solo lo modifican la venta (decremento) y la recepción de mercancía (incremento).
type Product struct {
	ID        string
	TenantID  string
	SKU       string
	Name      string
	CostPrice decimal.Decimal
	SalePrice decimal.Decimal
	Stock     decimal.Decimal
	MinStock  decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LowStock indica si el stock está en o por debajo del mínimo.
func (p *Product) LowStock() bool {
	return p.Stock.LessThanOrEqual(p.MinStock)
}

// ProductPatch campos editables de un producto (nil = no cambia).
// El stock no es editable: solo se mueve por ventas o recepciones.
type ProductPatch struct {
	SKU       *string
	Name      *string
	CostPrice *decimal.Decimal
	SalePrice *decimal.Decimal
	MinStock  *decimal.Decimal
}
