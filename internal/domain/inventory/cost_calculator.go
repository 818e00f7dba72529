package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost recalcula el costo de un producto al recibir mercancía (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Con stock actual negativo o cero el costo de entrada reemplaza al anterior.
func WeightedAverageCost(stock, cost, qtyIn, costIn decimal.Decimal) decimal.Decimal {
	if !stock.IsPositive() {
		return costIn
	}
	sum := stock.Add(qtyIn)
	if !sum.IsPositive() {
		return decimal.Zero
	}
	num := stock.Mul(cost).Add(qtyIn.Mul(costIn))
	return num.DivRound(sum, 2)
}
