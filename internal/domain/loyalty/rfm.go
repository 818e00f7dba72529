package loyalty

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
)

// Segmentos RFM.
const (
	SegmentChampions         = "Champions"
	SegmentLoyal             = "Loyal"
	SegmentPotentialLoyalist = "Potential Loyalist"
	SegmentNew               = "New"
	SegmentPromising         = "Promising"
	SegmentNeedAttention     = "Need Attention"
	SegmentAboutToSleep      = "About To Sleep"
	SegmentCantLose          = "Can't Lose Them"
	SegmentAtRisk            = "At Risk"
	SegmentHibernating       = "Hibernating"
)

// DefaultWindow ventana de análisis por defecto.
const DefaultWindow = 90 * 24 * time.Hour

// RFMScore resultado por cliente. R, F y M van de 1 a 5 (5 = mejor).
type RFMScore struct {
	CustomerID  string
	RecencyDays int
	Frequency   int
	Monetary    decimal.Decimal
	R, F, M     int
	Code        string
	Segment     string
}

type customerStats struct {
	id       string
	last     time.Time
	count    int
	monetary decimal.Decimal
	days     int
}

// ScoreRFM puntúa a los clientes con compras en [asOf-window, asOf].
// Es una función pura: la misma entrada produce siempre la misma salida, ordenada por CustomerID.
// Los puntajes son quintiles sobre la población presente en la ventana; en recencia menos días puntúan más.
// Los empates toman el rango más alto del grupo, así un cliente solo en la ventana puntúa 5.
func ScoreRFM(purchases []entity.SalePurchase, asOf time.Time, window time.Duration) []RFMScore {
	if window <= 0 {
		window = DefaultWindow
	}
	from := asOf.Add(-window)

	byCustomer := make(map[string]*customerStats)
	for _, p := range purchases {
		if p.CustomerID == "" || p.CreatedAt.Before(from) || p.CreatedAt.After(asOf) {
			continue
		}
		st, ok := byCustomer[p.CustomerID]
		if !ok {
			st = &customerStats{id: p.CustomerID}
			byCustomer[p.CustomerID] = st
		}
		st.count++
		st.monetary = st.monetary.Add(p.Total)
		if p.CreatedAt.After(st.last) {
			st.last = p.CreatedAt
		}
	}
	if len(byCustomer) == 0 {
		return []RFMScore{}
	}

	stats := make([]*customerStats, 0, len(byCustomer))
	for _, st := range byCustomer {
		st.days = int(asOf.Sub(st.last).Hours() / 24)
		stats = append(stats, st)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].id < stats[j].id })

	n := len(stats)
	out := make([]RFMScore, 0, n)
	for _, st := range stats {
		// cuántos clientes quedan en o por debajo de st en cada métrica (st incluido)
		var recent, frequent, spent int
		for _, o := range stats {
			if o.days >= st.days {
				recent++
			}
			if o.count <= st.count {
				frequent++
			}
			if o.monetary.LessThanOrEqual(st.monetary) {
				spent++
			}
		}
		r, f, m := quintile(recent, n), quintile(frequent, n), quintile(spent, n)
		out = append(out, RFMScore{
			CustomerID:  st.id,
			RecencyDays: st.days,
			Frequency:   st.count,
			Monetary:    st.monetary,
			R:           r,
			F:           f,
			M:           m,
			Code:        fmt.Sprintf("%d%d%d", r, f, m),
			Segment:     classify(r, f, m, st.count),
		})
	}
	return out
}

// quintile convierte la posición acumulada (1..n) en un puntaje 1..5: ceil(5*atOrBelow/n).
func quintile(atOrBelow, n int) int {
	s := (5*atOrBelow + n - 1) / n
	switch {
	case s < 1:
		return 1
	case s > 5:
		return 5
	}
	return s
}

// classify aplica la tabla de segmentos. Un cliente con una sola compra reciente es New
// aunque sus puntajes relativos sean altos.
func classify(r, f, m, purchases int) string {
	if purchases == 1 && r >= 4 {
		return SegmentNew
	}
	return Segment(r, f, m)
}

// Segment clasifica un puntaje RFM; gana la primera regla que aplica.
func Segment(r, f, m int) string {
	switch {
	case r >= 4 && f >= 4 && m >= 4:
		return SegmentChampions
	case r >= 3 && f >= 4:
		return SegmentLoyal
	case r >= 4 && f == 1:
		return SegmentNew
	case r >= 4 && m >= 3:
		return SegmentPotentialLoyalist
	case r >= 4:
		return SegmentPromising
	case r == 3 && f >= 2:
		return SegmentNeedAttention
	case r == 3:
		return SegmentAboutToSleep
	case f >= 4 && m >= 4:
		return SegmentCantLose
	case f >= 3:
		return SegmentAtRisk
	default:
		return SegmentHibernating
	}
}
