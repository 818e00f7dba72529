package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tienda-pos-api/internal/application/dto"
	"github.com/jhoicas/tienda-pos-api/internal/application/tenant"
	"github.com/jhoicas/tienda-pos-api/internal/domain"
	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
	"github.com/jhoicas/tienda-pos-api/internal/domain/inventory"
	"github.com/jhoicas/tienda-pos-api/internal/domain/repository"
)

const maxSearch = 50

// ProductUseCase casos de uso del catálogo. Stock solo se mueve con ventas y recepciones.
type ProductUseCase struct {
	stores repository.StoreFactory
	now    func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(stores repository.StoreFactory) *ProductUseCase {
	return &ProductUseCase{stores: stores, now: time.Now}
}

func (uc *ProductUseCase) repo(ctx context.Context) (repository.ProductRepository, error) {
	tenantID, err := tenant.IDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return uc.stores.ForTenant(tenantID).Products(), nil
}

// Create crea un producto con su inventario inicial.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	repo, err := uc.repo(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Errorf(domain.ErrValidation, "name es obligatorio")
	}
	if in.CostPrice.IsNegative() || in.SalePrice.IsNegative() || in.Stock.IsNegative() || in.MinStock.IsNegative() {
		return nil, domain.Errorf(domain.ErrValidation, "precios y cantidades no pueden ser negativos")
	}
	now := uc.now()
	p := &entity.Product{
		ID:        uuid.NewString(),
		SKU:       strings.TrimSpace(in.SKU),
		Name:      name,
		CostPrice: in.CostPrice,
		SalePrice: in.SalePrice,
		Stock:     in.Stock,
		MinStock:  in.MinStock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, p); err != nil {
		return nil, err
	}
	out := dto.NewProductResponse(p)
	return &out, nil
}

// GetByID obtiene un producto del tenant.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	repo, err := uc.repo(ctx)
	if err != nil {
		return nil, err
	}
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewProductResponse(p)
	return &out, nil
}

// List lista productos por nombre; con term filtra por nombre o SKU.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest, term string) (*dto.ProductListResponse, error) {
	repo, err := uc.repo(ctx)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()

	var (
		list  []*entity.Product
		total int64
	)
	if term = strings.TrimSpace(term); term != "" {
		list, err = repo.Search(ctx, term, min(page.Limit, maxSearch))
		total = int64(len(list))
		page.Offset = 0
	} else {
		list, total, err = repo.List(ctx, page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	return productList(list, dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total}), nil
}

// LowStock productos con stock <= stock mínimo, los más críticos primero.
func (uc *ProductUseCase) LowStock(ctx context.Context, limit int) (*dto.ProductListResponse, error) {
	repo, err := uc.repo(ctx)
	if err != nil {
		return nil, err
	}
	page := dto.PageRequest{Limit: limit}
	page.DefaultPage()
	list, err := repo.ListLowStock(ctx, page.Limit)
	if err != nil {
		return nil, err
	}
	return productList(list, dto.PageResponse{Limit: page.Limit, Total: int64(len(list))}), nil
}

// Update aplica solo los campos presentes.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	repo, err := uc.repo(ctx)
	if err != nil {
		return nil, err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Errorf(domain.ErrValidation, "name no puede quedar vacío")
	}
	n, err := repo.Update(ctx, id, entity.ProductPatch{
		SKU:       in.SKU,
		Name:      in.Name,
		CostPrice: in.CostPrice,
		SalePrice: in.SalePrice,
		MinStock:  in.MinStock,
	})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.NotFound("producto")
	}
	return uc.GetByID(ctx, id)
}

// Delete elimina un producto sin ventas asociadas.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	repo, err := uc.repo(ctx)
	if err != nil {
		return err
	}
	n, err := repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound("producto")
	}
	return nil
}

// ReceiveStock suma mercancía recibida y, con costo unitario, recalcula el costo promedio ponderado.
func (uc *ProductUseCase) ReceiveStock(ctx context.Context, id string, in dto.ReceiveStockRequest) (*dto.ProductResponse, error) {
	tenantID, err := tenant.IDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.Errorf(domain.ErrValidation, "quantity debe ser mayor que 0")
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, domain.Errorf(domain.ErrValidation, "unit_cost no puede ser negativo")
	}

	var p *entity.Product
	err = uc.stores.RunInTx(ctx, tenantID, func(s repository.Store) error {
		// el UPDATE bloquea la fila: el costo leído después ya es el vigente
		stock, err := s.Products().AdjustStock(ctx, id, in.Quantity)
		if err != nil {
			return err
		}
		if p, err = s.Products().GetByID(ctx, id); err != nil {
			return err
		}
		if in.UnitCost == nil {
			return nil
		}
		prev := stock.Sub(in.Quantity)
		cost := inventory.WeightedAverageCost(prev, p.CostPrice, in.Quantity, *in.UnitCost)
		if err := s.Products().SetCost(ctx, id, cost); err != nil {
			return err
		}
		p.CostPrice = cost
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewProductResponse(p)
	return &out, nil
}

func productList(list []*entity.Product, page dto.PageResponse) *dto.ProductListResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.NewProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Page: page}
}
