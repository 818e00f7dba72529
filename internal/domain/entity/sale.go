package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medios de pago.
const (
	PaymentCash     = "efectivo"
	PaymentCard     = "tarjeta"
	PaymentTransfer = "transferencia"
	PaymentCredit   = "credito"
)

// Estados de la venta.
const (
	SaleStatusCompleted = "completada"
	SaleStatusCanceled  = "anulada"
)

// Estados de pago de una venta a crédito.
const (
	PaymentStatusPending = "pendiente"
	PaymentStatusPartial = "parcial"
	PaymentStatusPaid    = "pagado"
)

// ValidPaymentMethod verifica que el medio de pago sea uno de los conocidos.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentCredit:
		return true
	}
	return false
}

// Sale cabecera de una venta. PaymentStatus y DueDate solo aplican a ventas a crédito.
// Invariante: AmountPaid + AmountPending == Total.
type Sale struct {
	ID            string
	TenantID      string
	SaleNumber    string // PREFIX-YYYYMMDD-NNNNNN
	CustomerID    *string
	CashierID     *string
	Total         decimal.Decimal
	PaymentMethod string
	Status        string
	PaymentStatus *string
	AmountPaid    decimal.Decimal
	AmountPending decimal.Decimal
	DueDate       *time.Time
	PointsEarned  int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsCredit indica si la venta es a crédito.
func (s *Sale) IsCredit() bool { return s.PaymentMethod == PaymentCredit }

// SaleItem línea de una venta. Inmutable una vez creada.
type SaleItem struct {
	ID        string
	SaleID    string
	TenantID  string
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// SalePurchase fila mínima para segmentación: una venta de un cliente.
type SalePurchase struct {
	CustomerID string
	Total      decimal.Decimal
	CreatedAt  time.Time
}

// DerivePaymentStatus estado de pago según lo abonado frente al total.
func DerivePaymentStatus(total, paid decimal.Decimal) string {
	pending := total.Sub(paid)
	switch {
	case !pending.IsPositive():
		return PaymentStatusPaid
	case paid.IsPositive() && paid.LessThan(total):
		return PaymentStatusPartial
	default:
		return PaymentStatusPending
	}
}
