package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
	"github.com/jhoicas/tienda-pos-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre el Gateway (usable con pool o tx).
type ProductRepo struct {
	gw *Gateway
}

// NewProductRepository construye el adaptador de persistencia para productos de un tenant.
func NewProductRepository(q Querier, tenantID string) *ProductRepo {
	return &ProductRepo{gw: NewGateway(q, productsTable, tenantID)}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.TenantID, &p.SKU, &p.Name, &p.CostPrice, &p.SalePrice, &p.Stock, &p.MinStock,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(list *[]*entity.Product) func(pgx.Row) error {
	return func(row pgx.Row) error {
		p, err := scanProduct(row)
		if err != nil {
			return err
		}
		*list = append(*list, p)
		return nil
	}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.gw.Insert(ctx, Values{
		"id":         p.ID,
		"sku":        p.SKU,
		"name":       p.Name,
		"cost_price": p.CostPrice,
		"sale_price": p.SalePrice,
		"stock":      p.Stock,
		"min_stock":  p.MinStock,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	})
}

// GetByID obtiene un producto por ID (NotFound si no es del tenant).
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var p *entity.Product
	err := r.gw.Get(ctx, id, func(row pgx.Row) error {
		var err error
		p, err = scanProduct(row)
		return err
	})
	return p, err
}

// List lista productos por nombre con paginación y total.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, int64, error) {
	list := []*entity.Product{}
	total, err := r.gw.Paginate(ctx, ListQuery{Limit: limit, Offset: offset}, collectProducts(&list))
	return list, total, err
}

// Search busca por nombre o SKU.
func (r *ProductRepo) Search(ctx context.Context, term string, limit int) ([]*entity.Product, error) {
	list := []*entity.Product{}
	err := r.gw.Search(ctx, term, limit, collectProducts(&list))
	return list, err
}

// ListLowStock productos con stock <= min_stock, los más críticos primero.
func (r *ProductRepo) ListLowStock(ctx context.Context, limit int) ([]*entity.Product, error) {
	list := []*entity.Product{}
	err := r.gw.List(ctx, ListQuery{
		Filters: []Filter{{Column: "stock", Op: "<=", RefColumn: "min_stock"}},
		Order:   &Order{Column: "stock"},
		Limit:   limit,
	}, collectProducts(&list))
	return list, err
}

// Update aplica los campos presentes del patch. No permite modificar el stock.
func (r *ProductRepo) Update(ctx context.Context, id string, patch entity.ProductPatch) (int64, error) {
	v := Values{}
	if patch.SKU != nil {
		v["sku"] = *patch.SKU
	}
	if patch.Name != nil {
		v["name"] = *patch.Name
	}
	if patch.CostPrice != nil {
		v["cost_price"] = *patch.CostPrice
	}
	if patch.SalePrice != nil {
		v["sale_price"] = *patch.SalePrice
	}
	if patch.MinStock != nil {
		v["min_stock"] = *patch.MinStock
	}
	return r.gw.Update(ctx, id, v)
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id string) (int64, error) {
	return r.gw.Delete(ctx, id)
}

// AdjustStock suma delta (negativo en ventas) y devuelve el stock resultante.
func (r *ProductRepo) AdjustStock(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	return r.gw.Increment(ctx, id, "stock", delta)
}

// SetCost actualiza el costo promedio tras una recepción.
func (r *ProductRepo) SetCost(ctx context.Context, id string, cost decimal.Decimal) error {
	_, err := r.gw.Update(ctx, id, Values{"cost_price": cost})
	return err
}
