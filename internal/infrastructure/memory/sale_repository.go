package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos-api/internal/domain"
	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
)

type saleRepo struct{ s *store }

func (r *saleRepo) owned(st *state, id string) (entity.Sale, bool) {
	s, ok := st.sales[id]
	return s, ok && s.TenantID == r.s.tenantID
}

func (r *saleRepo) NextNumber(_ context.Context, prefix string, day time.Time) (int64, error) {
	var n int64
	err := r.s.do(func(st *state) error {
		k := seqKey{tenantID: r.s.tenantID, prefix: prefix, day: day.Format("2006-01-02")}
		st.seq[k]++
		n = st.seq[k]
		return nil
	})
	return n, err
}

func (r *saleRepo) Create(_ context.Context, s *entity.Sale) error {
	return r.s.do(func(st *state) error {
		if _, ok := st.sales[s.ID]; ok {
			return domain.Errorf(domain.ErrConflict, "venta duplicada")
		}
		for _, o := range st.sales {
			if o.TenantID == r.s.tenantID && o.SaleNumber == s.SaleNumber {
				return domain.Errorf(domain.ErrConflict, "venta duplicada")
			}
		}
		if s.CustomerID != nil {
			if c, ok := st.customers[*s.CustomerID]; !ok || c.TenantID != r.s.tenantID {
				return domain.Errorf(domain.ErrNotFound, "venta: referencia inexistente")
			}
		}
		cp := *s
		cp.TenantID = r.s.tenantID
		st.sales[s.ID] = cp
		return nil
	})
}

func (r *saleRepo) CreateItems(_ context.Context, items []*entity.SaleItem) error {
	return r.s.do(func(st *state) error {
		for _, it := range items {
			if _, ok := r.owned(st, it.SaleID); !ok {
				return domain.Errorf(domain.ErrNotFound, "línea de venta: referencia inexistente")
			}
			cp := *it
			cp.TenantID = r.s.tenantID
			st.items[it.SaleID] = append(st.items[it.SaleID], cp)
		}
		return nil
	})
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.s.do(func(st *state) error {
		s, ok := r.owned(st, id)
		if !ok {
			return domain.NotFound("venta")
		}
		out = &s
		return nil
	})
	return out, err
}

func (r *saleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *saleRepo) ListItems(_ context.Context, saleID string) ([]*entity.SaleItem, error) {
	out := []*entity.SaleItem{}
	err := r.s.do(func(st *state) error {
		for _, it := range st.items[saleID] {
			if it.TenantID == r.s.tenantID {
				cp := it
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

func (r *saleRepo) all(st *state, keep func(entity.Sale) bool) []*entity.Sale {
	list := []*entity.Sale{}
	for _, s := range st.sales {
		if s.TenantID == r.s.tenantID && keep(s) {
			cp := s
			list = append(list, &cp)
		}
	}
	return list
}

func (r *saleRepo) List(_ context.Context, limit, offset int) ([]*entity.Sale, int64, error) {
	var out []*entity.Sale
	var total int64
	err := r.s.do(func(st *state) error {
		list := r.all(st, func(entity.Sale) bool { return true })
		sort.Slice(list, func(i, j int) bool {
			if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
				return list[i].CreatedAt.After(list[j].CreatedAt)
			}
			return list[i].ID < list[j].ID
		})
		total = int64(len(list))
		out = page(list, limit, offset)
		return nil
	})
	return out, total, err
}

func (r *saleRepo) update(id string, fn func(*entity.Sale)) error {
	return r.s.do(func(st *state) error {
		s, ok := r.owned(st, id)
		if !ok {
			return domain.NotFound("venta")
		}
		fn(&s)
		s.UpdatedAt = r.s.db.now()
		st.sales[id] = s
		return nil
	})
}

func (r *saleRepo) UpdatePayment(_ context.Context, id string, paid, pending decimal.Decimal, status string) error {
	return r.update(id, func(s *entity.Sale) {
		s.AmountPaid = paid
		s.AmountPending = pending
		s.PaymentStatus = &status
	})
}

func (r *saleRepo) UpdateStatus(_ context.Context, id, status string) error {
	return r.update(id, func(s *entity.Sale) { s.Status = status })
}

func (r *saleRepo) ListPurchases(_ context.Context, since time.Time) ([]entity.SalePurchase, error) {
	var out []entity.SalePurchase
	err := r.s.do(func(st *state) error {
		list := r.all(st, func(s entity.Sale) bool {
			return s.Status == entity.SaleStatusCompleted && s.CustomerID != nil && !s.CreatedAt.Before(since)
		})
		sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
		for _, s := range list {
			out = append(out, entity.SalePurchase{CustomerID: *s.CustomerID, Total: s.Total, CreatedAt: s.CreatedAt})
		}
		return nil
	})
	return out, err
}

func (r *saleRepo) ListOpenCredit(_ context.Context, customerID string) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.s.do(func(st *state) error {
		out = r.all(st, func(s entity.Sale) bool {
			return s.CustomerID != nil && *s.CustomerID == customerID && s.IsCredit() &&
				s.Status == entity.SaleStatusCompleted && s.AmountPending.IsPositive()
		})
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
		return nil
	})
	return out, err
}
