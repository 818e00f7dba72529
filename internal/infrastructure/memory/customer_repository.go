package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos-api/internal/domain"
	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
)

type customerRepo struct{ s *store }

func (r *customerRepo) owned(st *state, id string) (entity.Customer, bool) {
	c, ok := st.customers[id]
	return c, ok && c.TenantID == r.s.tenantID
}

func (r *customerRepo) Create(_ context.Context, c *entity.Customer) error {
	return r.s.do(func(st *state) error {
		if _, ok := st.customers[c.ID]; ok {
			return domain.Errorf(domain.ErrConflict, "cliente duplicado")
		}
		for _, o := range st.customers {
			if o.TenantID == r.s.tenantID && c.Document != "" && o.Document == c.Document {
				return domain.Errorf(domain.ErrConflict, "cliente duplicado")
			}
		}
		cp := *c
		cp.TenantID = r.s.tenantID
		st.customers[c.ID] = cp
		return nil
	})
}

func (r *customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.s.do(func(st *state) error {
		c, ok := r.owned(st, id)
		if !ok {
			return domain.NotFound("cliente")
		}
		out = &c
		return nil
	})
	return out, err
}

// GetForUpdate no necesita bloqueo aparte: las transacciones en memoria ya son serializables.
func (r *customerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return r.GetByID(ctx, id)
}

func (r *customerRepo) all(st *state, keep func(entity.Customer) bool) []*entity.Customer {
	list := []*entity.Customer{}
	for _, c := range st.customers {
		if c.TenantID == r.s.tenantID && keep(c) {
			cp := c
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list
}

func (r *customerRepo) List(_ context.Context, limit, offset int) ([]*entity.Customer, int64, error) {
	var out []*entity.Customer
	var total int64
	err := r.s.do(func(st *state) error {
		all := r.all(st, func(entity.Customer) bool { return true })
		total = int64(len(all))
		out = page(all, limit, offset)
		return nil
	})
	return out, total, err
}

func (r *customerRepo) Search(_ context.Context, term string, limit int) ([]*entity.Customer, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	var out []*entity.Customer
	err := r.s.do(func(st *state) error {
		out = page(r.all(st, func(c entity.Customer) bool {
			return strings.Contains(strings.ToLower(c.Name), term) ||
				strings.Contains(strings.ToLower(c.Document), term) ||
				strings.Contains(strings.ToLower(c.Email), term)
		}), limit, 0)
		return nil
	})
	return out, err
}

func (r *customerRepo) Update(_ context.Context, id string, patch entity.CustomerPatch) (int64, error) {
	var n int64
	err := r.s.do(func(st *state) error {
		c, ok := r.owned(st, id)
		if !ok {
			return nil
		}
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Document != nil {
			c.Document = *patch.Document
		}
		if patch.Email != nil {
			c.Email = *patch.Email
		}
		if patch.Phone != nil {
			c.Phone = *patch.Phone
		}
		if patch.CreditLimit != nil {
			c.CreditLimit = *patch.CreditLimit
		}
		c.UpdatedAt = r.s.db.now()
		st.customers[id] = c
		n = 1
		return nil
	})
	return n, err
}

func (r *customerRepo) Delete(_ context.Context, id string) (int64, error) {
	var n int64
	err := r.s.do(func(st *state) error {
		if _, ok := r.owned(st, id); !ok {
			return nil
		}
		for _, s := range st.sales {
			if s.CustomerID != nil && *s.CustomerID == id {
				return domain.Errorf(domain.ErrConflict, "cliente tiene registros asociados")
			}
		}
		delete(st.customers, id)
		n = 1
		return nil
	})
	return n, err
}

func (r *customerRepo) SetBalances(_ context.Context, id string, debt decimal.Decimal, points int64) error {
	return r.s.do(func(st *state) error {
		c, ok := r.owned(st, id)
		if !ok {
			return domain.NotFound("cliente")
		}
		if debt.IsNegative() || points < 0 {
			return domain.Errorf(domain.ErrValidation, "cliente: datos inválidos")
		}
		c.CurrentDebt = debt
		c.LoyaltyPoints = points
		c.UpdatedAt = r.s.db.now()
		st.customers[id] = c
		return nil
	})
}
