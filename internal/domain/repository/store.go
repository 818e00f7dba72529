package repository

import "context"

// Store agrupa los repositorios de un tenant, atados a un pool o a una transacción.
type Store interface {
	Products() ProductRepository
	Customers() CustomerRepository
	Sales() SaleRepository
	CreditPayments() CreditPaymentRepository
}

// StoreFactory crea Stores acotados a un tenant. Es la única forma de obtener repositorios de
// tablas con tenant_id, de modo que ningún caso de uso puede consultar sin alcance.
type StoreFactory interface {
	ForTenant(tenantID string) Store
	// RunInTx ejecuta fn en una transacción: commit si fn devuelve nil, rollback en otro caso.
	RunInTx(ctx context.Context, tenantID string, fn func(Store) error) error
}
