// Package memory implementa los puertos de repositorio en memoria. Sirve para desarrollo local
// (STORAGE_DRIVER=memory) y para probar casos de uso sin PostgreSQL. Respeta las mismas reglas
// de aislamiento que el Gateway: todo acceso va acotado al tenant del Store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
	"github.com/jhoicas/tienda-pos-api/internal/domain/repository"
)

var _ repository.StoreFactory = (*DB)(nil)

type seqKey struct {
	tenantID string
	prefix   string
	day      string
}

type state struct {
	tenants   map[string]entity.Tenant
	products  map[string]entity.Product
	customers map[string]entity.Customer
	sales     map[string]entity.Sale
	items     map[string][]entity.SaleItem // por sale_id
	payments  []entity.CreditPayment
	seq       map[seqKey]int64
}

func newState() *state {
	return &state{
		tenants:   map[string]entity.Tenant{},
		products:  map[string]entity.Product{},
		customers: map[string]entity.Customer{},
		sales:     map[string]entity.Sale{},
		items:     map[string][]entity.SaleItem{},
		seq:       map[seqKey]int64{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.tenants {
		c.tenants[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]entity.SaleItem(nil), v...)
	}
	c.payments = append([]entity.CreditPayment(nil), s.payments...)
	for k, v := range s.seq {
		c.seq[k] = v
	}
	return c
}

// DB base de datos en memoria. Las transacciones son serializables: RunInTx toma el lock
// durante todo fn y restaura la foto previa si fn falla.
type DB struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

// New crea una base vacía.
func New() *DB {
	return &DB{st: newState(), now: time.Now}
}

// store repositorios de un tenant. inTx indica que el lock ya lo tiene RunInTx.
type store struct {
	db       *DB
	tenantID string
	inTx     bool
}

func (s *store) do(fn func(st *state) error) error {
	if !s.inTx {
		s.db.mu.Lock()
		defer s.db.mu.Unlock()
	}
	return fn(s.db.st)
}

func (s *store) Products() repository.ProductRepository             { return &productRepo{s} }
func (s *store) Customers() repository.CustomerRepository           { return &customerRepo{s} }
func (s *store) Sales() repository.SaleRepository                   { return &saleRepo{s} }
func (s *store) CreditPayments() repository.CreditPaymentRepository { return &paymentRepo{s} }

// ForTenant repositorios del tenant fuera de transacción.
func (db *DB) ForTenant(tenantID string) repository.Store {
	return &store{db: db, tenantID: tenantID}
}

// RunInTx ejecuta fn de forma atómica: si devuelve error (o entra en pánico) no queda ningún cambio.
func (db *DB) RunInTx(ctx context.Context, tenantID string, fn func(repository.Store) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	snapshot := db.st.clone()
	committed := false
	defer func() {
		if !committed {
			db.st = snapshot
		}
	}()

	if err := fn(&store{db: db, tenantID: tenantID, inTx: true}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	committed = true
	return nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
