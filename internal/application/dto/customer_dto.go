package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest entrada para crear un cliente. CreditLimit 0 = crédito sin límite.
type CreateCustomerRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Document    string          `json:"document" validate:"max=30"`
	Email       string          `json:"email" validate:"omitempty,email"`
	Phone       string          `json:"phone" validate:"max=30"`
	CreditLimit decimal.Decimal `json:"credit_limit" validate:"gte=0"`
}

// UpdateCustomerRequest campos editables; deuda y puntos no se reciben del cliente.
type UpdateCustomerRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Document    *string          `json:"document" validate:"omitempty,max=30"`
	Email       *string          `json:"email" validate:"omitempty,email"`
	Phone       *string          `json:"phone" validate:"omitempty,max=30"`
	CreditLimit *decimal.Decimal `json:"credit_limit" validate:"omitempty,gte=0"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Document        string           `json:"document"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone"`
	LoyaltyPoints   int64            `json:"loyalty_points"`
	CreditLimit     decimal.Decimal  `json:"credit_limit"`
	CurrentDebt     decimal.Decimal  `json:"current_debt"`
	AvailableCredit *decimal.Decimal `json:"available_credit"` // null = sin límite
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CustomerStatementResponse estado de cuenta de crédito de un cliente.
type CustomerStatementResponse struct {
	Customer  CustomerResponse `json:"customer"`
	OpenSales []SaleResponse   `json:"open_sales"`
	// TotalPending suma de saldos abiertos; coincide con current_debt salvo sobreabonos.
	TotalPending decimal.Decimal `json:"total_pending"`
}
