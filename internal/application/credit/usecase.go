// Package credit lleva el ledger de abonos de las ventas a crédito.
package credit

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos-api/internal/application/dto"
	"github.com/jhoicas/tienda-pos-api/internal/application/tenant"
	"github.com/jhoicas/tienda-pos-api/internal/domain"
	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
	"github.com/jhoicas/tienda-pos-api/internal/domain/repository"
)

// UseCase abonos y estado de cuenta.
type UseCase struct {
	stores repository.StoreFactory
	log    zerolog.Logger
	now    func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(stores repository.StoreFactory, log zerolog.Logger) *UseCase {
	return &UseCase{stores: stores, log: log, now: time.Now}
}

// SetClock reemplaza el reloj (pruebas).
func (uc *UseCase) SetClock(now func() time.Time) { uc.now = now }

func validatePayment(in dto.RegisterPaymentRequest) error {
	switch {
	case in.SaleID == "":
		return domain.Errorf(domain.ErrValidation, "sale_id es obligatorio")
	case in.CustomerID == "":
		return domain.Errorf(domain.ErrValidation, "customer_id es obligatorio")
	case !in.Amount.IsPositive():
		return domain.Errorf(domain.ErrValidation, "amount debe ser mayor que 0")
	case in.PaymentMethod == entity.PaymentCredit || !entity.ValidPaymentMethod(in.PaymentMethod):
		return domain.Errorf(domain.ErrValidation, "medio de pago inválido para un abono: %q", in.PaymentMethod)
	}
	return nil
}

// RegisterPayment registra un abono. Venta y cliente quedan bloqueados hasta el commit, así dos
// abonos simultáneos a la misma venta se aplican uno detrás del otro.
// Los saldos de la venta no se recortan: un sobreabono deja amount_pending negativo.
// La deuda del cliente sí se recorta en cero.
func (uc *UseCase) RegisterPayment(ctx context.Context, in dto.RegisterPaymentRequest) (*dto.RegisterPaymentResponse, error) {
	tenantID, err := tenant.IDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := validatePayment(in); err != nil {
		return nil, err
	}
	if in.Notes != nil && strings.TrimSpace(*in.Notes) == "" {
		in.Notes = nil
	}

	var (
		payment *entity.CreditPayment
		sale    *entity.Sale
	)
	err = uc.stores.RunInTx(ctx, tenantID, func(s repository.Store) error {
		got, err := s.Sales().GetForUpdate(ctx, in.SaleID)
		if err != nil {
			return err
		}
		sale = got
		if !sale.IsCredit() {
			return domain.Errorf(domain.ErrValidation, "la venta no es a crédito")
		}
		if sale.CustomerID == nil || *sale.CustomerID != in.CustomerID {
			return domain.Errorf(domain.ErrValidation, "la venta no pertenece al cliente indicado")
		}
		if sale.Status == entity.SaleStatusCanceled {
			return domain.Errorf(domain.ErrConflict, "la venta está anulada")
		}
		if sale.PaymentStatus != nil && *sale.PaymentStatus == entity.PaymentStatusPaid {
			return domain.Errorf(domain.ErrConflict, "la venta ya está pagada")
		}

		paid := sale.AmountPaid.Add(in.Amount)
		pending := sale.Total.Sub(paid)
		status := entity.DerivePaymentStatus(sale.Total, paid)

		now := uc.now()
		payment = &entity.CreditPayment{
			ID:            uuid.NewString(),
			SaleID:        sale.ID,
			CustomerID:    in.CustomerID,
			Amount:        in.Amount,
			PaymentMethod: in.PaymentMethod,
			CashierID:     in.CashierID,
			Notes:         in.Notes,
			CreatedAt:     now,
		}
		if err := s.CreditPayments().Create(ctx, payment); err != nil {
			return err
		}
		if err := s.Sales().UpdatePayment(ctx, sale.ID, paid, pending, status); err != nil {
			return err
		}
		sale.AmountPaid, sale.AmountPending, sale.PaymentStatus = paid, pending, &status

		c, err := s.Customers().GetForUpdate(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		debt := decimal.Max(decimal.Zero, c.CurrentDebt.Sub(in.Amount))
		return s.Customers().SetBalances(ctx, c.ID, debt, c.LoyaltyPoints)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("tenant_id", tenantID).Str("sale_id", sale.ID).Str("payment_id", payment.ID).
		Str("amount", payment.Amount.String()).Str("payment_status", *sale.PaymentStatus).Msg("abono registrado")
	return &dto.RegisterPaymentResponse{
		Payment:       dto.NewCreditPaymentResponse(payment),
		AmountPaid:    sale.AmountPaid,
		AmountPending: sale.AmountPending,
		PaymentStatus: *sale.PaymentStatus,
	}, nil
}

// ListPayments abonos de una venta en orden de registro.
func (uc *UseCase) ListPayments(ctx context.Context, saleID string) ([]dto.CreditPaymentResponse, error) {
	tenantID, err := tenant.IDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	s := uc.stores.ForTenant(tenantID)
	if _, err := s.Sales().GetByID(ctx, saleID); err != nil {
		return nil, err
	}
	list, err := s.CreditPayments().ListBySale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CreditPaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.NewCreditPaymentResponse(p))
	}
	return out, nil
}

// CustomerStatement deuda, cupo y ventas a crédito abiertas de un cliente.
func (uc *UseCase) CustomerStatement(ctx context.Context, customerID string) (*dto.CustomerStatementResponse, error) {
	tenantID, err := tenant.IDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	s := uc.stores.ForTenant(tenantID)
	c, err := s.Customers().GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	open, err := s.Sales().ListOpenCredit(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := &dto.CustomerStatementResponse{
		Customer:     dto.NewCustomerResponse(c),
		OpenSales:    make([]dto.SaleResponse, 0, len(open)),
		TotalPending: decimal.Zero,
	}
	for _, sale := range open {
		out.OpenSales = append(out.OpenSales, dto.NewSaleResponse(sale, nil))
		out.TotalPending = out.TotalPending.Add(sale.AmountPending)
	}
	return out, nil
}
