package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos-api/internal/domain"
	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
	"github.com/jhoicas/tienda-pos-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas, líneas y consecutivos de un tenant (usable con pool o tx).
type SaleRepo struct {
	sales *Gateway
	items *Gateway
	seq   *Gateway
}

// NewSaleRepository construye el adaptador para las ventas de un tenant.
func NewSaleRepository(q Querier, tenantID string) *SaleRepo {
	return &SaleRepo{
		sales: NewGateway(q, salesTable, tenantID),
		items: NewGateway(q, saleItemsTable, tenantID),
		seq:   NewGateway(q, saleSequencesTable, tenantID),
	}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.TenantID, &s.SaleNumber, &s.CustomerID, &s.CashierID, &s.Total, &s.PaymentMethod,
		&s.Status, &s.PaymentStatus, &s.AmountPaid, &s.AmountPending, &s.DueDate, &s.PointsEarned,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectSales(list *[]*entity.Sale) func(pgx.Row) error {
	return func(row pgx.Row) error {
		s, err := scanSale(row)
		if err != nil {
			return err
		}
		*list = append(*list, s)
		return nil
	}
}

// NextNumber reserva el siguiente consecutivo del día con un upsert atómico.
func (r *SaleRepo) NextNumber(ctx context.Context, prefix string, day time.Time) (int64, error) {
	return r.seq.NextCounter(ctx, Values{"prefix": prefix, "day": entity.StartOfDay(day)}, "last_value")
}

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	return r.sales.Insert(ctx, Values{
		"id":             s.ID,
		"sale_number":    s.SaleNumber,
		"customer_id":    s.CustomerID,
		"cashier_id":     s.CashierID,
		"total":          s.Total,
		"payment_method": s.PaymentMethod,
		"status":         s.Status,
		"payment_status": s.PaymentStatus,
		"amount_paid":    s.AmountPaid,
		"amount_pending": s.AmountPending,
		"due_date":       s.DueDate,
		"points_earned":  s.PointsEarned,
		"created_at":     s.CreatedAt,
		"updated_at":     s.UpdatedAt,
	})
}

// CreateItems inserta todas las líneas en un solo INSERT.
func (r *SaleRepo) CreateItems(ctx context.Context, items []*entity.SaleItem) error {
	rows := make([]Values, len(items))
	for i, it := range items {
		rows[i] = Values{
			"id":         it.ID,
			"sale_id":    it.SaleID,
			"product_id": it.ProductID,
			"quantity":   it.Quantity,
			"unit_price": it.UnitPrice,
			"subtotal":   it.Subtotal,
		}
	}
	return r.items.BatchInsert(ctx, rows)
}

func (r *SaleRepo) get(ctx context.Context, id string, lock bool) (*entity.Sale, error) {
	var s *entity.Sale
	scan := func(row pgx.Row) error {
		var err error
		s, err = scanSale(row)
		return err
	}
	var err error
	if lock {
		err = r.sales.GetForUpdate(ctx, id, scan)
	} else {
		err = r.sales.Get(ctx, id, scan)
	}
	return s, err
}

// GetByID obtiene la cabecera de una venta.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate obtiene y bloquea la venta.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, id, true)
}

// ListItems líneas de una venta.
func (r *SaleRepo) ListItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error) {
	items := []*entity.SaleItem{}
	err := r.items.List(ctx, ListQuery{Filters: []Filter{Eq("sale_id", saleID)}}, func(row pgx.Row) error {
		var it entity.SaleItem
		if err := row.Scan(&it.ID, &it.SaleID, &it.TenantID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return err
		}
		items = append(items, &it)
		return nil
	})
	return items, err
}

// List ventas más recientes primero, con total.
func (r *SaleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sale, int64, error) {
	list := []*entity.Sale{}
	total, err := r.sales.Paginate(ctx, ListQuery{Limit: limit, Offset: offset}, collectSales(&list))
	return list, total, err
}

func (r *SaleRepo) mustUpdate(ctx context.Context, id string, v Values) error {
	n, err := r.sales.Update(ctx, id, v)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound("venta")
	}
	return nil
}

// UpdatePayment actualiza abonado, pendiente y estado de pago.
func (r *SaleRepo) UpdatePayment(ctx context.Context, id string, paid, pending decimal.Decimal, status string) error {
	return r.mustUpdate(ctx, id, Values{"amount_paid": paid, "amount_pending": pending, "payment_status": status})
}

// UpdateStatus cambia el estado de la venta (completada/anulada).
func (r *SaleRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.mustUpdate(ctx, id, Values{"status": status})
}

// ListPurchases ventas completadas con cliente desde since.
func (r *SaleRepo) ListPurchases(ctx context.Context, since time.Time) ([]entity.SalePurchase, error) {
	var out []entity.SalePurchase
	err := r.sales.List(ctx, ListQuery{
		Filters: []Filter{
			Eq("status", entity.SaleStatusCompleted),
			{Column: "customer_id", Op: "IS NOT NULL"},
			{Column: "created_at", Op: ">=", Value: since},
		},
		Order: &Order{Column: "created_at"},
	}, func(row pgx.Row) error {
		s, err := scanSale(row)
		if err != nil {
			return err
		}
		out = append(out, entity.SalePurchase{CustomerID: *s.CustomerID, Total: s.Total, CreatedAt: s.CreatedAt})
		return nil
	})
	return out, err
}

// ListOpenCredit ventas a crédito vigentes del cliente con saldo pendiente.
func (r *SaleRepo) ListOpenCredit(ctx context.Context, customerID string) ([]*entity.Sale, error) {
	list := []*entity.Sale{}
	err := r.sales.List(ctx, ListQuery{
		Filters: []Filter{
			Eq("customer_id", customerID),
			Eq("payment_method", entity.PaymentCredit),
			Eq("status", entity.SaleStatusCompleted),
			{Column: "amount_pending", Op: ">", Value: decimal.Zero},
		},
		Order: &Order{Column: "created_at"},
	}, collectSales(&list))
	return list, err
}
