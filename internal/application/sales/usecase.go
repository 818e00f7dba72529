// Package sales registra ventas: numeración, líneas, descuento de inventario, crédito y puntos
// en una sola transacción.
package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos-api/internal/application/dto"
	"github.com/jhoicas/tienda-pos-api/internal/application/tenant"
	"github.com/jhoicas/tienda-pos-api/internal/domain"
	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
	"github.com/jhoicas/tienda-pos-api/internal/domain/loyalty"
	"github.com/jhoicas/tienda-pos-api/internal/domain/repository"
)

// Config numeración y tabla de puntos.
type Config struct {
	NumberPrefix string
	Tiers        loyalty.Tiers // nil = loyalty.DefaultTiers()
}

// UseCase motor de ventas.
type UseCase struct {
	stores repository.StoreFactory
	prefix string
	tiers  loyalty.Tiers
	log    zerolog.Logger
	now    func() time.Time
}

// NewUseCase construye el caso de uso. Falla si la tabla de puntos no es contigua.
func NewUseCase(stores repository.StoreFactory, cfg Config, log zerolog.Logger) (*UseCase, error) {
	if cfg.NumberPrefix == "" {
		cfg.NumberPrefix = "VTA"
	}
	if cfg.Tiers == nil {
		cfg.Tiers = loyalty.DefaultTiers()
	}
	if err := cfg.Tiers.Validate(); err != nil {
		return nil, err
	}
	return &UseCase{stores: stores, prefix: cfg.NumberPrefix, tiers: cfg.Tiers, log: log, now: time.Now}, nil
}

// SetClock reemplaza el reloj (pruebas).
func (uc *UseCase) SetClock(now func() time.Time) { uc.now = now }

// Tiers tabla de puntos vigente.
func (uc *UseCase) Tiers() loyalty.Tiers { return uc.tiers }

// validateItems revisa todas las líneas y reporta la primera inválida con su índice.
func validateItems(in []dto.SaleItemRequest) error {
	if len(in) == 0 {
		return domain.Errorf(domain.ErrValidation, "la venta debe tener al menos una línea")
	}
	for i, it := range in {
		switch {
		case it.ProductID == "":
			return domain.ItemError(i, "product_id es obligatorio")
		case it.Quantity == nil:
			return domain.ItemError(i, "quantity es obligatorio")
		case !it.Quantity.IsPositive():
			return domain.ItemError(i, "quantity debe ser mayor que 0")
		case it.UnitPrice == nil:
			return domain.ItemError(i, "unit_price es obligatorio")
		case it.UnitPrice.IsNegative():
			return domain.ItemError(i, "unit_price no puede ser negativo")
		case it.Subtotal == nil:
			return domain.ItemError(i, "subtotal es obligatorio")
		case it.Subtotal.IsNegative():
			return domain.ItemError(i, "subtotal no puede ser negativo")
		}
	}
	return nil
}

func validateSale(in dto.CreateSaleRequest) error {
	if err := validateItems(in.Items); err != nil {
		return err
	}
	if !in.Total.IsPositive() {
		return domain.Errorf(domain.ErrValidation, "total debe ser mayor que 0")
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return domain.Errorf(domain.ErrValidation, "medio de pago inválido: %q", in.PaymentMethod)
	}
	if in.PaymentMethod == entity.PaymentCredit && (in.CustomerID == nil || *in.CustomerID == "") {
		return domain.Errorf(domain.ErrValidation, "una venta a crédito requiere customer_id")
	}
	return nil
}

// stockOrder devuelve los índices de items ordenados por product_id. Todas las
// transacciones que tocan inventario bloquean productos en este orden, después de la
// venta y del cliente, para que dos ventas concurrentes no se esperen en ciclo.
func stockOrder(items []*entity.SaleItem) []int {
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return items[idx[a]].ProductID < items[idx[b]].ProductID
	})
	return idx
}

// CreateSale registra la venta completa o nada.
func (uc *UseCase) CreateSale(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	tenantID, err := tenant.IDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateSale(in); err != nil {
		return nil, err
	}
	if in.CustomerID != nil && *in.CustomerID == "" {
		in.CustomerID = nil
	}

	now := uc.now()
	sale := &entity.Sale{
		ID:            uuid.NewString(),
		CustomerID:    in.CustomerID,
		CashierID:     in.CashierID,
		Total:         in.Total,
		PaymentMethod: in.PaymentMethod,
		Status:        entity.SaleStatusCompleted,
		AmountPaid:    in.Total,
		AmountPending: decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if sale.IsCredit() {
		status := entity.PaymentStatusPending
		sale.PaymentStatus = &status
		sale.AmountPaid = decimal.Zero
		sale.AmountPending = in.Total
		sale.DueDate = in.DueDate
	}
	items := make([]*entity.SaleItem, len(in.Items))
	for i, it := range in.Items {
		items[i] = &entity.SaleItem{
			ID:        uuid.NewString(),
			SaleID:    sale.ID,
			ProductID: it.ProductID,
			Quantity:  *it.Quantity,
			UnitPrice: *it.UnitPrice,
			Subtotal:  *it.Subtotal,
		}
	}

	err = uc.stores.RunInTx(ctx, tenantID, func(s repository.Store) error {
		var customer *entity.Customer
		if sale.CustomerID != nil {
			c, err := s.Customers().GetForUpdate(ctx, *sale.CustomerID)
			if err != nil {
				return err
			}
			customer = c
			if sale.IsCredit() && !customer.CanTakeCredit(sale.Total) {
				return domain.Errorf(domain.ErrConflict, "el cliente supera su cupo de crédito")
			}
			sale.PointsEarned = uc.tiers.Points(sale.Total)
		}

		seq, err := s.Sales().NextNumber(ctx, uc.prefix, now)
		if err != nil {
			return err
		}
		sale.SaleNumber = fmt.Sprintf("%s-%s-%06d", uc.prefix, now.Format("20060102"), seq)

		if err := s.Sales().Create(ctx, sale); err != nil {
			return err
		}
		if err := s.Sales().CreateItems(ctx, items); err != nil {
			return err
		}
		for _, i := range stockOrder(items) {
			it := items[i]
			left, err := s.Products().AdjustStock(ctx, it.ProductID, it.Quantity.Neg())
			if err != nil {
				return err
			}
			if left.IsNegative() {
				return &domain.Error{
					Kind:      domain.ErrConflict,
					Message:   fmt.Sprintf("item %d: stock insuficiente", i),
					ItemIndex: i,
				}
			}
		}

		if customer != nil {
			debt := customer.CurrentDebt
			if sale.IsCredit() {
				debt = debt.Add(sale.Total)
			}
			if err := s.Customers().SetBalances(ctx, customer.ID, debt, customer.LoyaltyPoints+sale.PointsEarned); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("tenant_id", tenantID).Str("sale_id", sale.ID).Str("sale_number", sale.SaleNumber).
		Str("payment_method", sale.PaymentMethod).Str("total", sale.Total.String()).Msg("venta registrada")
	sale.TenantID = tenantID
	out := dto.NewSaleResponse(sale, items)
	return &out, nil
}

// GetSale venta con sus líneas.
func (uc *UseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	tenantID, err := tenant.IDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	s := uc.stores.ForTenant(tenantID)
	sale, err := s.Sales().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.Sales().ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewSaleResponse(sale, items)
	return &out, nil
}

// ListSales ventas más recientes primero.
func (uc *UseCase) ListSales(ctx context.Context, page dto.PageRequest) (*dto.SaleListResponse, error) {
	tenantID, err := tenant.IDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, total, err := uc.stores.ForTenant(tenantID).Sales().List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{
		Items: make([]dto.SaleResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, s := range list {
		out.Items = append(out.Items, dto.NewSaleResponse(s, nil))
	}
	return out, nil
}

// CancelSale anula una venta sin abonos: devuelve inventario y revierte deuda y puntos.
func (uc *UseCase) CancelSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	tenantID, err := tenant.IDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var (
		sale  *entity.Sale
		items []*entity.SaleItem
	)
	err = uc.stores.RunInTx(ctx, tenantID, func(s repository.Store) error {
		got, err := s.Sales().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		sale = got
		if sale.Status == entity.SaleStatusCanceled {
			return domain.Errorf(domain.ErrConflict, "la venta ya está anulada")
		}
		if sale.IsCredit() {
			n, err := s.CreditPayments().CountBySale(ctx, id)
			if err != nil {
				return err
			}
			if n > 0 {
				return domain.Errorf(domain.ErrConflict, "la venta tiene abonos registrados")
			}
		}

		if items, err = s.Sales().ListItems(ctx, id); err != nil {
			return err
		}
		if sale.CustomerID != nil {
			c, err := s.Customers().GetForUpdate(ctx, *sale.CustomerID)
			if err != nil {
				return err
			}
			debt := c.CurrentDebt
			if sale.IsCredit() {
				debt = decimal.Max(decimal.Zero, debt.Sub(sale.AmountPending))
			}
			points := c.LoyaltyPoints - sale.PointsEarned
			if points < 0 {
				points = 0
			}
			if err := s.Customers().SetBalances(ctx, c.ID, debt, points); err != nil {
				return err
			}
		}

		for _, i := range stockOrder(items) {
			if _, err := s.Products().AdjustStock(ctx, items[i].ProductID, items[i].Quantity); err != nil {
				return err
			}
		}
		if err := s.Sales().UpdateStatus(ctx, id, entity.SaleStatusCanceled); err != nil {
			return err
		}
		sale.Status = entity.SaleStatusCanceled
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("tenant_id", tenantID).Str("sale_id", id).Msg("venta anulada")
	out := dto.NewSaleResponse(sale, items)
	return &out, nil
}
