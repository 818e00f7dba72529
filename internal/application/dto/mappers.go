package dto

import (
	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
	"github.com/jhoicas/tienda-pos-api/internal/domain/loyalty"
)

func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		CostPrice: p.CostPrice,
		SalePrice: p.SalePrice,
		Stock:     p.Stock,
		MinStock:  p.MinStock,
		LowStock:  p.LowStock(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func NewCustomerResponse(c *entity.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID,
		Name:            c.Name,
		Document:        c.Document,
		Email:           c.Email,
		Phone:           c.Phone,
		LoyaltyPoints:   c.LoyaltyPoints,
		CreditLimit:     c.CreditLimit,
		CurrentDebt:     c.CurrentDebt,
		AvailableCredit: c.AvailableCredit(),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// NewSaleResponse mapea la venta; items nil deja la respuesta sin líneas.
func NewSaleResponse(s *entity.Sale, items []*entity.SaleItem) SaleResponse {
	out := SaleResponse{
		ID:            s.ID,
		SaleNumber:    s.SaleNumber,
		CustomerID:    s.CustomerID,
		CashierID:     s.CashierID,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
		PaymentStatus: s.PaymentStatus,
		AmountPaid:    s.AmountPaid,
		AmountPending: s.AmountPending,
		DueDate:       s.DueDate,
		PointsEarned:  s.PointsEarned,
		CreatedAt:     s.CreatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return out
}

func NewCreditPaymentResponse(p *entity.CreditPayment) CreditPaymentResponse {
	return CreditPaymentResponse{
		ID:            p.ID,
		SaleID:        p.SaleID,
		CustomerID:    p.CustomerID,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		CashierID:     p.CashierID,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
	}
}

func NewTenantResponse(t *entity.Tenant, daysRemaining int) TenantResponse {
	return TenantResponse{
		ID:                 t.ID,
		Email:              t.Email,
		BusinessName:       t.BusinessName,
		SubscriptionStatus: t.SubscriptionStatus,
		IsSuperadmin:       t.IsSuperadmin,
		TrialEnd:           t.TrialEnd,
		NextBilling:        t.NextBilling,
		DaysRemaining:      daysRemaining,
	}
}

func NewRFMScoreResponse(s loyalty.RFMScore) RFMScoreResponse {
	return RFMScoreResponse{
		CustomerID:  s.CustomerID,
		RecencyDays: s.RecencyDays,
		Frequency:   s.Frequency,
		Monetary:    s.Monetary,
		R:           s.R,
		F:           s.F,
		M:           s.M,
		Code:        s.Code,
		Segment:     s.Segment,
	}
}

