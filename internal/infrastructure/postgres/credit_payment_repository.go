package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
	"github.com/jhoicas/tienda-pos-api/internal/domain/repository"
)

var _ repository.CreditPaymentRepository = (*CreditPaymentRepo)(nil)

// CreditPaymentRepo ledger de abonos. Solo inserta y lee.
type CreditPaymentRepo struct {
	gw *Gateway
}

// NewCreditPaymentRepository construye el adaptador para los abonos de un tenant.
func NewCreditPaymentRepository(q Querier, tenantID string) *CreditPaymentRepo {
	return &CreditPaymentRepo{gw: NewGateway(q, creditPaymentsTable, tenantID)}
}

// Create agrega un abono al ledger.
func (r *CreditPaymentRepo) Create(ctx context.Context, p *entity.CreditPayment) error {
	return r.gw.Insert(ctx, Values{
		"id":             p.ID,
		"sale_id":        p.SaleID,
		"customer_id":    p.CustomerID,
		"amount":         p.Amount,
		"payment_method": p.PaymentMethod,
		"cashier_id":     p.CashierID,
		"notes":          p.Notes,
		"created_at":     p.CreatedAt,
	})
}

// ListBySale abonos de una venta en orden cronológico.
func (r *CreditPaymentRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.CreditPayment, error) {
	list := []*entity.CreditPayment{}
	err := r.gw.List(ctx, ListQuery{Filters: []Filter{Eq("sale_id", saleID)}}, func(row pgx.Row) error {
		var p entity.CreditPayment
		if err := row.Scan(&p.ID, &p.TenantID, &p.SaleID, &p.CustomerID, &p.Amount, &p.PaymentMethod,
			&p.CashierID, &p.Notes, &p.CreatedAt); err != nil {
			return err
		}
		list = append(list, &p)
		return nil
	})
	return list, err
}

// CountBySale número de abonos de una venta.
func (r *CreditPaymentRepo) CountBySale(ctx context.Context, saleID string) (int64, error) {
	return r.gw.Count(ctx, Eq("sale_id", saleID))
}
