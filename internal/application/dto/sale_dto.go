package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de una venta. Los punteros distinguen "ausente" de cero.
type SaleItemRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  *decimal.Decimal `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Subtotal  *decimal.Decimal `json:"subtotal"`
}

// CreateSaleRequest entrada para registrar una venta. Las líneas se validan en el caso de uso
// para poder reportar el índice de la primera inválida.
type CreateSaleRequest struct {
	Total         decimal.Decimal   `json:"total" validate:"gt=0"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=efectivo tarjeta transferencia credito"`
	CustomerID    *string           `json:"customer_id" validate:"omitempty,uuid"`
	CashierID     *string           `json:"cashier_id"`
	DueDate       *time.Time        `json:"due_date"`
	Items         []SaleItemRequest `json:"items"`
}

// SaleItemResponse salida de una línea.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse salida de una venta. Items se omite en listados.
type SaleResponse struct {
	ID            string             `json:"id"`
	SaleNumber    string             `json:"sale_number"`
	CustomerID    *string            `json:"customer_id"`
	CashierID     *string            `json:"cashier_id"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	PaymentStatus *string            `json:"payment_status"`
	AmountPaid    decimal.Decimal    `json:"amount_paid"`
	AmountPending decimal.Decimal    `json:"amount_pending"`
	DueDate       *time.Time         `json:"due_date"`
	PointsEarned  int64              `json:"points_earned"`
	CreatedAt     time.Time          `json:"created_at"`
	Items         []SaleItemResponse `json:"items,omitempty"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
