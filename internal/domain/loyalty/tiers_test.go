package loyalty

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTiers_Monotonia(t *testing.T) {
	tiers := DefaultTiers()
	require.NoError(t, tiers.Validate())

	cases := map[int64]int64{
		0:       0,
		19999:   0,
		20000:   5,
		49999:   5,
		50000:   10,
		100000:  25,
		199999:  25,
		200000:  50,
		500000:  100,
		9999999: 100,
	}
	for amount, want := range cases {
		assert.Equal(t, want, tiers.Points(decimal.NewFromInt(amount)), "monto %d", amount)
	}
}

func TestTiers_DescartaCentavos(t *testing.T) {
	assert.Equal(t, int64(0), DefaultTiers().Points(decimal.RequireFromString("19999.99")))
}

func TestTiers_MontoNegativoNoSumaPuntos(t *testing.T) {
	assert.Equal(t, int64(0), DefaultTiers().Points(decimal.NewFromInt(-10)))
}

func TestTiers_Validate(t *testing.T) {
	gap := Tiers{
		{MinAmount: decimal.Zero, MaxAmount: bound(100), Points: 1},
		{MinAmount: decimal.NewFromInt(200), Points: 2},
	}
	assert.Error(t, gap.Validate())

	closedLast := Tiers{{MinAmount: decimal.Zero, MaxAmount: bound(100), Points: 1}}
	assert.Error(t, closedLast.Validate())

	openMiddle := Tiers{
		{MinAmount: decimal.Zero, Points: 1},
		{MinAmount: decimal.NewFromInt(101), Points: 2},
	}
	assert.Error(t, openMiddle.Validate())

	assert.Error(t, Tiers{}.Validate())
}
