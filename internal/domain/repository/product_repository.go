package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
)

// ProductRepository puerto de persistencia para Product, acotado a un tenant.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, int64, error)
	Search(ctx context.Context, term string, limit int) ([]*entity.Product, error)
	ListLowStock(ctx context.Context, limit int) ([]*entity.Product, error)
	// Update y Delete devuelven filas afectadas; 0 si no existe o es de otro tenant.
	Update(ctx context.Context, id string, patch entity.ProductPatch) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	// AdjustStock suma delta al stock de forma atómica y devuelve el stock resultante.
	AdjustStock(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error)
	SetCost(ctx context.Context, id string, cost decimal.Decimal) error
}
