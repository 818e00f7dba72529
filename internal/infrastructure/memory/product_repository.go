package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos-api/internal/domain"
	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
)

type productRepo struct{ s *store }

func (r *productRepo) owned(st *state, id string) (entity.Product, bool) {
	p, ok := st.products[id]
	return p, ok && p.TenantID == r.s.tenantID
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.s.do(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.Errorf(domain.ErrConflict, "producto duplicado")
		}
		for _, o := range st.products {
			if o.TenantID == r.s.tenantID && p.SKU != "" && o.SKU == p.SKU {
				return domain.Errorf(domain.ErrConflict, "producto duplicado")
			}
		}
		cp := *p
		cp.TenantID = r.s.tenantID
		st.products[p.ID] = cp
		return nil
	})
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.do(func(st *state) error {
		p, ok := r.owned(st, id)
		if !ok {
			return domain.NotFound("producto")
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *productRepo) all(st *state, keep func(entity.Product) bool) []*entity.Product {
	list := []*entity.Product{}
	for _, p := range st.products {
		if p.TenantID == r.s.tenantID && keep(p) {
			cp := p
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

func (r *productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, int64, error) {
	var out []*entity.Product
	var total int64
	err := r.s.do(func(st *state) error {
		all := r.all(st, func(entity.Product) bool { return true })
		total = int64(len(all))
		out = page(all, limit, offset)
		return nil
	})
	return out, total, err
}

func (r *productRepo) Search(_ context.Context, term string, limit int) ([]*entity.Product, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	var out []*entity.Product
	err := r.s.do(func(st *state) error {
		out = page(r.all(st, func(p entity.Product) bool {
			return strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.SKU), term)
		}), limit, 0)
		return nil
	})
	return out, err
}

func (r *productRepo) ListLowStock(_ context.Context, limit int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.s.do(func(st *state) error {
		list := r.all(st, func(p entity.Product) bool { return p.LowStock() })
		sort.SliceStable(list, func(i, j int) bool { return list[i].Stock.LessThan(list[j].Stock) })
		out = page(list, limit, 0)
		return nil
	})
	return out, err
}

func (r *productRepo) Update(_ context.Context, id string, patch entity.ProductPatch) (int64, error) {
	var n int64
	err := r.s.do(func(st *state) error {
		p, ok := r.owned(st, id)
		if !ok {
			return nil
		}
		if patch.SKU != nil {
			p.SKU = *patch.SKU
		}
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.CostPrice != nil {
			p.CostPrice = *patch.CostPrice
		}
		if patch.SalePrice != nil {
			p.SalePrice = *patch.SalePrice
		}
		if patch.MinStock != nil {
			p.MinStock = *patch.MinStock
		}
		p.UpdatedAt = r.s.db.now()
		st.products[id] = p
		n = 1
		return nil
	})
	return n, err
}

func (r *productRepo) Delete(_ context.Context, id string) (int64, error) {
	var n int64
	err := r.s.do(func(st *state) error {
		if _, ok := r.owned(st, id); !ok {
			return nil
		}
		for _, items := range st.items {
			for _, it := range items {
				if it.ProductID == id {
					return domain.Errorf(domain.ErrConflict, "producto tiene registros asociados")
				}
			}
		}
		delete(st.products, id)
		n = 1
		return nil
	})
	return n, err
}

func (r *productRepo) AdjustStock(_ context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	var out decimal.Decimal
	err := r.s.do(func(st *state) error {
		p, ok := r.owned(st, id)
		if !ok {
			return domain.NotFound("producto")
		}
		p.Stock = p.Stock.Add(delta)
		p.UpdatedAt = r.s.db.now()
		st.products[id] = p
		out = p.Stock
		return nil
	})
	return out, err
}

func (r *productRepo) SetCost(_ context.Context, id string, cost decimal.Decimal) error {
	return r.s.do(func(st *state) error {
		p, ok := r.owned(st, id)
		if !ok {
			return nil
		}
		p.CostPrice = cost
		st.products[id] = p
		return nil
	})
}
