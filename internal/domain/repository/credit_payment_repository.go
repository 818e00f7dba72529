package repository

import (
	"context"

	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
)

// CreditPaymentRepository ledger append-only de abonos: no hay Update ni Delete.
type CreditPaymentRepository interface {
	Create(ctx context.Context, p *entity.CreditPayment) error
	ListBySale(ctx context.Context, saleID string) ([]*entity.CreditPayment, error)
	CountBySale(ctx context.Context, saleID string) (int64, error)
}
