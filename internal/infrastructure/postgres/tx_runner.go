package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/tienda-pos-api/internal/domain/repository"
)

var _ repository.StoreFactory = (*TxRunner)(nil)

// store repositorios de un tenant atados a un mismo Querier (pool o tx).
type store struct {
	products  *ProductRepo
	customers *CustomerRepo
	sales     *SaleRepo
	payments  *CreditPaymentRepo
}

func newStore(q Querier, tenantID string) *store {
	return &store{
		products:  NewProductRepository(q, tenantID),
		customers: NewCustomerRepository(q, tenantID),
		sales:     NewSaleRepository(q, tenantID),
		payments:  NewCreditPaymentRepository(q, tenantID),
	}
}

func (s *store) Products() repository.ProductRepository             { return s.products }
func (s *store) Customers() repository.CustomerRepository           { return s.customers }
func (s *store) Sales() repository.SaleRepository                   { return s.sales }
func (s *store) CreditPayments() repository.CreditPaymentRepository { return s.payments }

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL y fabrica Stores por tenant.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// ForTenant repositorios del tenant sobre el pool (una sentencia por llamada).
func (r *TxRunner) ForTenant(tenantID string) repository.Store {
	return newStore(r.pool, tenantID)
}

// RunInTx inicia una transacción READ COMMITTED, ejecuta fn con repos atados a la tx y hace
// Commit; cualquier error de fn (o un panic) deja la tx en Rollback.
func (r *TxRunner) RunInTx(ctx context.Context, tenantID string, fn func(repository.Store) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(newStore(tx, tenantID)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
