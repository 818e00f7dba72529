package sales

import (
	"context"
	"errors"

	"github.com/jhoicas/tienda-pos-api/internal/application/tenant"
	"github.com/jhoicas/tienda-pos-api/internal/domain"
	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
	"github.com/jhoicas/tienda-pos-api/internal/domain/repository"
)

// ReceiptLine línea del comprobante con el nombre del producto resuelto.
type ReceiptLine struct {
	Item        *entity.SaleItem
	ProductName string
}

// Receipt datos del comprobante de venta.
type Receipt struct {
	Tenant   *entity.Tenant
	Sale     *entity.Sale
	Customer *entity.Customer // nil en ventas de mostrador
	Lines    []ReceiptLine
	Payments []*entity.CreditPayment
}

// ReceiptGenerator puerto de salida: genera el documento del comprobante.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, r Receipt) ([]byte, error)
}

// ReceiptUseCase arma y genera el comprobante de una venta.
type ReceiptUseCase struct {
	stores repository.StoreFactory
	gen    ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(stores repository.StoreFactory, gen ReceiptGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{stores: stores, gen: gen}
}

// Build arma los datos del comprobante.
func (uc *ReceiptUseCase) Build(ctx context.Context, saleID string) (*Receipt, error) {
	t, ok := tenant.FromContext(ctx)
	if !ok {
		return nil, domain.Errorf(domain.ErrUnauthenticated, "tenant no resuelto")
	}
	s := uc.stores.ForTenant(t.ID)

	sale, err := s.Sales().GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	items, err := s.Sales().ListItems(ctx, saleID)
	if err != nil {
		return nil, err
	}
	r := &Receipt{Tenant: t, Sale: sale, Lines: make([]ReceiptLine, 0, len(items))}
	for _, it := range items {
		name := it.ProductID
		p, err := s.Products().GetByID(ctx, it.ProductID)
		switch {
		case err == nil:
			name = p.Name
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
		r.Lines = append(r.Lines, ReceiptLine{Item: it, ProductName: name})
	}
	if sale.CustomerID != nil {
		if r.Customer, err = s.Customers().GetByID(ctx, *sale.CustomerID); err != nil {
			return nil, err
		}
	}
	if sale.IsCredit() {
		if r.Payments, err = s.CreditPayments().ListBySale(ctx, saleID); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Generate devuelve el comprobante en PDF.
func (uc *ReceiptUseCase) Generate(ctx context.Context, saleID string) ([]byte, error) {
	r, err := uc.Build(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return uc.gen.GenerateReceipt(ctx, *r)
}
