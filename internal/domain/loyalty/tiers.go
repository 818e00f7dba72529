package loyalty

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Tier banda de monto de compra con los puntos que otorga. MaxAmount nil = sin tope.
type Tier struct {
	MinAmount decimal.Decimal
	MaxAmount *decimal.Decimal
	Points    int64
}

// Contains indica si amount cae dentro de la banda (extremos incluidos).
func (t Tier) Contains(amount decimal.Decimal) bool {
	if amount.LessThan(t.MinAmount) {
		return false
	}
	return t.MaxAmount == nil || amount.LessThanOrEqual(*t.MaxAmount)
}

// Tiers lista ordenada de bandas contiguas y sin solapamiento.
type Tiers []Tier

// Points devuelve los puntos de la primera banda que contiene amount (0 si ninguna).
// Las bandas están en pesos enteros: los centavos se descartan antes de buscar.
func (ts Tiers) Points(amount decimal.Decimal) int64 {
	amount = amount.Floor()
	for _, t := range ts {
		if t.Contains(amount) {
			return t.Points
		}
	}
	return 0
}

// Validate comprueba orden, contigüidad (sin huecos de más de una unidad) y que solo la última banda sea abierta.
func (ts Tiers) Validate() error {
	if len(ts) == 0 {
		return fmt.Errorf("loyalty: tabla de bandas vacía")
	}
	one := decimal.NewFromInt(1)
	for i, t := range ts {
		last := i == len(ts)-1
		if t.MaxAmount == nil && !last {
			return fmt.Errorf("loyalty: banda %d sin tope y no es la última", i)
		}
		if t.MaxAmount != nil && t.MaxAmount.LessThan(t.MinAmount) {
			return fmt.Errorf("loyalty: banda %d con max < min", i)
		}
		if last && t.MaxAmount != nil {
			return fmt.Errorf("loyalty: la última banda debe ser abierta")
		}
		if i > 0 {
			prevMax := *ts[i-1].MaxAmount
			if !t.MinAmount.Equal(prevMax.Add(one)) {
				return fmt.Errorf("loyalty: banda %d no es contigua a la anterior", i)
			}
		}
	}
	return nil
}

func bound(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// DefaultTiers bandas por defecto en pesos.
func DefaultTiers() Tiers {
	return Tiers{
		{MinAmount: decimal.NewFromInt(0), MaxAmount: bound(19999), Points: 0},
		{MinAmount: decimal.NewFromInt(20000), MaxAmount: bound(49999), Points: 5},
		{MinAmount: decimal.NewFromInt(50000), MaxAmount: bound(99999), Points: 10},
		{MinAmount: decimal.NewFromInt(100000), MaxAmount: bound(199999), Points: 25},
		{MinAmount: decimal.NewFromInt(200000), MaxAmount: bound(499999), Points: 50},
		{MinAmount: decimal.NewFromInt(500000), Points: 100},
	}
}
