package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente de la tienda con su cupo de crédito y puntos.
// CreditLimit == 0 significa crédito sin límite.
type Customer struct {
	ID            string
	TenantID      string
	Name          string
	Document      string // cédula o NIT
	Email         string
	Phone         string
	LoyaltyPoints int64
	CreditLimit   decimal.Decimal
	CurrentDebt   decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CanTakeCredit indica si el cliente puede asumir amount de deuda adicional.
func (c *Customer) CanTakeCredit(amount decimal.Decimal) bool {
	if c.CreditLimit.IsZero() {
		return true
	}
	return c.CurrentDebt.Add(amount).LessThanOrEqual(c.CreditLimit)
}

// AvailableCredit cupo disponible; nil si el crédito es ilimitado.
func (c *Customer) AvailableCredit() *decimal.Decimal {
	if c.CreditLimit.IsZero() {
		return nil
	}
	avail := c.CreditLimit.Sub(c.CurrentDebt)
	if avail.IsNegative() {
		avail = decimal.Zero
	}
	return &avail
}

// CustomerPatch campos editables de un cliente (nil = no cambia).
// Deuda y puntos no se editan: los mueven ventas y abonos.
type CustomerPatch struct {
	Name        *string
	Document    *string
	Email       *string
	Phone       *string
	CreditLimit *decimal.Decimal
}
