package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Stock es el inventario inicial.
type CreateProductRequest struct {
	SKU       string          `json:"sku" validate:"max=100"`
	Name      string          `json:"name" validate:"required,min=1,max=200"`
	CostPrice decimal.Decimal `json:"cost_price" validate:"gte=0"`
	SalePrice decimal.Decimal `json:"sale_price" validate:"gte=0"`
	Stock     decimal.Decimal `json:"stock" validate:"gte=0"`
	MinStock  decimal.Decimal `json:"min_stock" validate:"gte=0"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Stock: se mueve con ventas y recepciones).
type UpdateProductRequest struct {
	SKU       *string          `json:"sku" validate:"omitempty,max=100"`
	Name      *string          `json:"name" validate:"omitempty,min=1,max=200"`
	CostPrice *decimal.Decimal `json:"cost_price" validate:"omitempty,gte=0"`
	SalePrice *decimal.Decimal `json:"sale_price" validate:"omitempty,gte=0"`
	MinStock  *decimal.Decimal `json:"min_stock" validate:"omitempty,gte=0"`
}

// ReceiveStockRequest entrada de mercancía. Con UnitCost se recalcula el costo promedio ponderado.
type ReceiveStockRequest struct {
	Quantity decimal.Decimal  `json:"quantity" validate:"gt=0"`
	UnitCost *decimal.Decimal `json:"unit_cost" validate:"omitempty,gte=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        string          `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	CostPrice decimal.Decimal `json:"cost_price"`
	SalePrice decimal.Decimal `json:"sale_price"`
	Stock     decimal.Decimal `json:"stock"`
	MinStock  decimal.Decimal `json:"min_stock"`
	LowStock  bool            `json:"low_stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
