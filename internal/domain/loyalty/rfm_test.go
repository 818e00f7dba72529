package loyalty

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
)

var asOf = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func buy(customer string, daysAgo int, total int64) entity.SalePurchase {
	return entity.SalePurchase{
		CustomerID: customer,
		Total:      decimal.NewFromInt(total),
		CreatedAt:  asOf.Add(-time.Duration(daysAgo) * 24 * time.Hour),
	}
}

func byID(scores []RFMScore) map[string]RFMScore {
	m := make(map[string]RFMScore, len(scores))
	for _, s := range scores {
		m[s.CustomerID] = s
	}
	return m
}

func TestScoreRFM_Segmentos(t *testing.T) {
	var purchases []entity.SalePurchase
	// c1: reciente, frecuente, alto monto
	for i := 0; i < 6; i++ {
		purchases = append(purchases, buy("c1", 1+i, 300000))
	}
	// c2..c4: perfiles intermedios
	purchases = append(purchases, buy("c2", 10, 50000), buy("c2", 20, 50000), buy("c2", 30, 50000))
	purchases = append(purchases, buy("c3", 40, 20000), buy("c3", 50, 20000))
	purchases = append(purchases, buy("c4", 60, 15000))
	// c5: una compra vieja y pequeña
	purchases = append(purchases, buy("c5", 85, 5000))
	// fuera de ventana y sin cliente
	purchases = append(purchases, buy("c6", 200, 999999), buy("", 1, 1000))

	scores := ScoreRFM(purchases, asOf, DefaultWindow)
	require.Len(t, scores, 5)

	got := byID(scores)
	assert.Equal(t, "555", got["c1"].Code)
	assert.Equal(t, SegmentChampions, got["c1"].Segment)
	assert.Equal(t, 6, got["c1"].Frequency)
	assert.True(t, got["c1"].Monetary.Equal(decimal.NewFromInt(1800000)))

	// c4 y c5 empatan en frecuencia: ambos toman el rango más alto del empate
	assert.Equal(t, 2, got["c4"].F)
	assert.Equal(t, "121", got["c5"].Code)
	assert.Equal(t, SegmentHibernating, got["c5"].Segment)
	assert.Equal(t, 85, got["c5"].RecencyDays)

	_, outOfWindow := got["c6"]
	assert.False(t, outOfWindow)
}

func TestScoreRFM_PoblacionPequeña(t *testing.T) {
	purchases := []entity.SalePurchase{
		buy("nuevo", 0, 10000),
		buy("viejo", 70, 80000), buy("viejo", 60, 80000), buy("viejo", 50, 80000),
	}
	got := byID(ScoreRFM(purchases, asOf, DefaultWindow))

	assert.Equal(t, 5, got["nuevo"].R)
	assert.Equal(t, 1, got["nuevo"].Frequency)
	assert.Equal(t, SegmentNew, got["nuevo"].Segment)
	assert.Equal(t, "355", got["viejo"].Code)
	assert.Equal(t, SegmentLoyal, got["viejo"].Segment)
}

func TestScoreRFM_ClienteUnicoEsChampion(t *testing.T) {
	var purchases []entity.SalePurchase
	for i := 0; i < 6; i++ {
		purchases = append(purchases, buy("solo", 0, 900000))
	}
	got := byID(ScoreRFM(purchases, asOf, DefaultWindow))

	assert.Equal(t, "555", got["solo"].Code)
	assert.Equal(t, SegmentChampions, got["solo"].Segment)
}

func TestScoreRFM_EmpatadosTomanRangoAlto(t *testing.T) {
	var purchases []entity.SalePurchase
	for _, c := range []string{"a", "b", "c"} {
		for i := 0; i < 6; i++ {
			purchases = append(purchases, buy(c, 0, 900000))
		}
	}
	scores := ScoreRFM(purchases, asOf, DefaultWindow)
	require.Len(t, scores, 3)
	for _, s := range scores {
		assert.Equal(t, "555", s.Code, s.CustomerID)
		assert.Equal(t, SegmentChampions, s.Segment, s.CustomerID)
	}
}

func TestScoreRFM_PrimeraCompraRecienteEsNew(t *testing.T) {
	got := byID(ScoreRFM([]entity.SalePurchase{buy("primera", 0, 10000)}, asOf, DefaultWindow))

	assert.Equal(t, "555", got["primera"].Code)
	assert.Equal(t, SegmentNew, got["primera"].Segment)
}

func TestQuintile(t *testing.T) {
	assert.Equal(t, 1, quintile(1, 5))
	assert.Equal(t, 5, quintile(5, 5))
	assert.Equal(t, 5, quintile(1, 1))
	assert.Equal(t, 3, quintile(1, 2))
	assert.Equal(t, 1, quintile(1, 10))
	assert.Equal(t, 2, quintile(3, 10))
}

func TestScoreRFM_Determinista(t *testing.T) {
	purchases := []entity.SalePurchase{
		buy("b", 3, 1000), buy("a", 3, 1000), buy("c", 9, 4000), buy("a", 1, 500),
	}
	first := ScoreRFM(purchases, asOf, DefaultWindow)
	reversed := make([]entity.SalePurchase, len(purchases))
	for i, p := range purchases {
		reversed[len(purchases)-1-i] = p
	}
	second := ScoreRFM(reversed, asOf, DefaultWindow)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].CustomerID, second[i].CustomerID)
		assert.Equal(t, first[i].Code, second[i].Code)
		assert.True(t, first[i].Monetary.Equal(second[i].Monetary))
	}
	assert.Equal(t, "a", first[0].CustomerID)
	assert.Equal(t, "c", first[2].CustomerID)
}

func TestScoreRFM_SinCompras(t *testing.T) {
	assert.Empty(t, ScoreRFM(nil, asOf, 0))
}

func TestSegment_Tabla(t *testing.T) {
	cases := []struct {
		r, f, m int
		want    string
	}{
		{5, 5, 5, SegmentChampions},
		{3, 4, 1, SegmentLoyal},
		{5, 1, 5, SegmentNew},
		{4, 2, 3, SegmentPotentialLoyalist},
		{4, 2, 1, SegmentPromising},
		{3, 2, 2, SegmentNeedAttention},
		{3, 1, 1, SegmentAboutToSleep},
		{2, 4, 4, SegmentCantLose},
		{1, 3, 1, SegmentAtRisk},
		{1, 1, 1, SegmentHibernating},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Segment(c.r, c.f, c.m), "%d%d%d", c.r, c.f, c.m)
	}
}
