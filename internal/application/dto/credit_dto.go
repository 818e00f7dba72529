package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterPaymentRequest abono a una venta a crédito.
type RegisterPaymentRequest struct {
	SaleID        string          `json:"sale_id" validate:"required"`
	CustomerID    string          `json:"customer_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=efectivo tarjeta transferencia"`
	CashierID     *string         `json:"cashier_id"`
	Notes         *string         `json:"notes" validate:"omitempty,max=500"`
}

// CreditPaymentResponse entrada del ledger de abonos.
type CreditPaymentResponse struct {
	ID            string          `json:"id"`
	SaleID        string          `json:"sale_id"`
	CustomerID    string          `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	CashierID     *string         `json:"cashier_id"`
	Notes         *string         `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
}

// RegisterPaymentResponse abono más el saldo actualizado de la venta.
type RegisterPaymentResponse struct {
	Payment       CreditPaymentResponse `json:"payment"`
	AmountPaid    decimal.Decimal       `json:"amount_paid"`
	AmountPending decimal.Decimal       `json:"amount_pending"`
	PaymentStatus string                `json:"payment_status"`
}
