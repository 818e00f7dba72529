package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos-api/internal/domain"
	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
	"github.com/jhoicas/tienda-pos-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	gw *Gateway
}

// NewCustomerRepository construye el adaptador para los clientes de un tenant.
func NewCustomerRepository(q Querier, tenantID string) *CustomerRepo {
	return &CustomerRepo{gw: NewGateway(q, customersTable, tenantID)}
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.Document, &c.Email, &c.Phone, &c.LoyaltyPoints,
		&c.CreditLimit, &c.CurrentDebt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectCustomers(list *[]*entity.Customer) func(pgx.Row) error {
	return func(row pgx.Row) error {
		c, err := scanCustomer(row)
		if err != nil {
			return err
		}
		*list = append(*list, c)
		return nil
	}
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	return r.gw.Insert(ctx, Values{
		"id":             c.ID,
		"name":           c.Name,
		"document":       c.Document,
		"email":          c.Email,
		"phone":          c.Phone,
		"loyalty_points": c.LoyaltyPoints,
		"credit_limit":   c.CreditLimit,
		"current_debt":   c.CurrentDebt,
		"created_at":     c.CreatedAt,
		"updated_at":     c.UpdatedAt,
	})
}

func (r *CustomerRepo) get(ctx context.Context, id string, lock bool) (*entity.Customer, error) {
	var c *entity.Customer
	scan := func(row pgx.Row) error {
		var err error
		c, err = scanCustomer(row)
		return err
	}
	var err error
	if lock {
		err = r.gw.GetForUpdate(ctx, id, scan)
	} else {
		err = r.gw.Get(ctx, id, scan)
	}
	return c, err
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate obtiene y bloquea el cliente (SELECT ... FOR UPDATE).
func (r *CustomerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return r.get(ctx, id, true)
}

// List lista clientes por nombre con paginación y total.
func (r *CustomerRepo) List(ctx context.Context, limit, offset int) ([]*entity.Customer, int64, error) {
	list := []*entity.Customer{}
	total, err := r.gw.Paginate(ctx, ListQuery{Limit: limit, Offset: offset}, collectCustomers(&list))
	return list, total, err
}

// Search busca por nombre, documento o email.
func (r *CustomerRepo) Search(ctx context.Context, term string, limit int) ([]*entity.Customer, error) {
	list := []*entity.Customer{}
	err := r.gw.Search(ctx, term, limit, collectCustomers(&list))
	return list, err
}

// Update aplica los campos presentes del patch.
func (r *CustomerRepo) Update(ctx context.Context, id string, patch entity.CustomerPatch) (int64, error) {
	v := Values{}
	if patch.Name != nil {
		v["name"] = *patch.Name
	}
	if patch.Document != nil {
		v["document"] = *patch.Document
	}
	if patch.Email != nil {
		v["email"] = *patch.Email
	}
	if patch.Phone != nil {
		v["phone"] = *patch.Phone
	}
	if patch.CreditLimit != nil {
		v["credit_limit"] = *patch.CreditLimit
	}
	return r.gw.Update(ctx, id, v)
}

// Delete elimina un cliente por ID.
func (r *CustomerRepo) Delete(ctx context.Context, id string) (int64, error) {
	return r.gw.Delete(ctx, id)
}

// SetBalances fija deuda y puntos del cliente.
func (r *CustomerRepo) SetBalances(ctx context.Context, id string, debt decimal.Decimal, points int64) error {
	n, err := r.gw.Update(ctx, id, Values{"current_debt": debt, "loyalty_points": points})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound("cliente")
	}
	return nil
}
