package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWeightedAverageCost(t *testing.T) {
	d := decimal.RequireFromString

	// 10 u a 1000 + 10 u a 2000 => 1500
	assert.True(t, WeightedAverageCost(d("10"), d("1000"), d("10"), d("2000")).Equal(d("1500")))
	// sin stock previo manda el costo de entrada
	assert.True(t, WeightedAverageCost(decimal.Zero, d("1000"), d("5"), d("1200")).Equal(d("1200")))
	assert.True(t, WeightedAverageCost(d("-2"), d("1000"), d("5"), d("1200")).Equal(d("1200")))
	// redondeo a 2 decimales: (3*1000 + 1*1001)/4 = 1000.25
	assert.True(t, WeightedAverageCost(d("3"), d("1000"), d("1"), d("1001")).Equal(d("1000.25")))
}
