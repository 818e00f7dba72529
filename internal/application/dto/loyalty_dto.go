package dto

import "github.com/shopspring/decimal"

// RFMScoreResponse puntaje RFM de un cliente.
type RFMScoreResponse struct {
	CustomerID  string          `json:"customer_id"`
	RecencyDays int             `json:"recency_days"`
	Frequency   int             `json:"frequency"`
	Monetary    decimal.Decimal `json:"monetary"`
	R           int             `json:"r"`
	F           int             `json:"f"`
	M           int             `json:"m"`
	Code        string          `json:"code"`
	Segment     string          `json:"segment"`
}

// SegmentsResponse segmentación de la cartera de clientes.
type SegmentsResponse struct {
	WindowDays int                `json:"window_days"`
	Customers  []RFMScoreResponse `json:"customers"`
	// Counts clientes por segmento.
	Counts map[string]int `json:"counts"`
}

// TierPointsResponse puntos que otorga una compra.
type TierPointsResponse struct {
	Amount decimal.Decimal `json:"amount"`
	Points int64           `json:"points"`
}
