package memory

import (
	"context"

	"github.com/jhoicas/tienda-pos-api/internal/domain"
	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
)

type paymentRepo struct{ s *store }

func (r *paymentRepo) Create(_ context.Context, p *entity.CreditPayment) error {
	return r.s.do(func(st *state) error {
		if s, ok := st.sales[p.SaleID]; !ok || s.TenantID != r.s.tenantID {
			return domain.Errorf(domain.ErrNotFound, "abono: referencia inexistente")
		}
		if !p.Amount.IsPositive() {
			return domain.Errorf(domain.ErrValidation, "abono: datos inválidos")
		}
		cp := *p
		cp.TenantID = r.s.tenantID
		st.payments = append(st.payments, cp)
		return nil
	})
}

func (r *paymentRepo) ListBySale(_ context.Context, saleID string) ([]*entity.CreditPayment, error) {
	out := []*entity.CreditPayment{}
	err := r.s.do(func(st *state) error {
		for _, p := range st.payments {
			if p.TenantID == r.s.tenantID && p.SaleID == saleID {
				cp := p
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

func (r *paymentRepo) CountBySale(ctx context.Context, saleID string) (int64, error) {
	list, err := r.ListBySale(ctx, saleID)
	return int64(len(list)), err
}
