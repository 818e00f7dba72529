package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
)

// SaleRepository puerto de persistencia para ventas y sus líneas, acotado a un tenant.
type SaleRepository interface {
	// NextNumber reserva el siguiente consecutivo del día para el prefijo (contador atómico).
	NextNumber(ctx context.Context, prefix string, day time.Time) (int64, error)
	Create(ctx context.Context, s *entity.Sale) error
	CreateItems(ctx context.Context, items []*entity.SaleItem) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	ListItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Sale, int64, error)
	UpdatePayment(ctx context.Context, id string, paid, pending decimal.Decimal, status string) error
	UpdateStatus(ctx context.Context, id, status string) error
	// ListPurchases ventas completadas con cliente desde since (para RFM).
	ListPurchases(ctx context.Context, since time.Time) ([]entity.SalePurchase, error)
	// ListOpenCredit ventas a crédito del cliente con saldo pendiente.
	ListOpenCredit(ctx context.Context, customerID string) ([]*entity.Sale, error)
}
