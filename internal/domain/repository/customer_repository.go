package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
)

// CustomerRepository puerto de persistencia para Customer, acotado a un tenant.
type CustomerRepository interface {
	Create(ctx context.Context, c *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Customer, int64, error)
	Search(ctx context.Context, term string, limit int) ([]*entity.Customer, error)
	Update(ctx context.Context, id string, patch entity.CustomerPatch) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	// SetBalances fija deuda y puntos (el cálculo lo hace el caso de uso con la fila bloqueada).
	SetBalances(ctx context.Context, id string, debt decimal.Decimal, points int64) error
}
