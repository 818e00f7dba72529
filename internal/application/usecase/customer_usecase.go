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
	"github.com/jhoicas/tienda-pos-api/internal/domain/repository"
)

// CustomerUseCase casos de uso de clientes. Deuda y puntos solo los mueven ventas y abonos.
type CustomerUseCase struct {
	stores repository.StoreFactory
	now    func() time.Time
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(stores repository.StoreFactory) *CustomerUseCase {
	return &CustomerUseCase{stores: stores, now: time.Now}
}

func (uc *CustomerUseCase) repo(ctx context.Context) (repository.CustomerRepository, error) {
	tenantID, err := tenant.IDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return uc.stores.ForTenant(tenantID).Customers(), nil
}

// Create registra un cliente. Sin cupo (0) el crédito es ilimitado.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	repo, err := uc.repo(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Errorf(domain.ErrValidation, "name es obligatorio")
	}
	if in.CreditLimit.IsNegative() {
		return nil, domain.Errorf(domain.ErrValidation, "credit_limit no puede ser negativo")
	}
	now := uc.now()
	c := &entity.Customer{
		ID:          uuid.NewString(),
		Name:        name,
		Document:    strings.TrimSpace(in.Document),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		CreditLimit: in.CreditLimit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repo.Create(ctx, c); err != nil {
		return nil, err
	}
	out := dto.NewCustomerResponse(c)
	return &out, nil
}

// GetByID obtiene un cliente del tenant.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	repo, err := uc.repo(ctx)
	if err != nil {
		return nil, err
	}
	c, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewCustomerResponse(c)
	return &out, nil
}

// List lista clientes; con term busca por nombre, documento o email.
func (uc *CustomerUseCase) List(ctx context.Context, page dto.PageRequest, term string) (*dto.CustomerListResponse, error) {
	repo, err := uc.repo(ctx)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()

	var (
		list  []*entity.Customer
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
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.NewCustomerResponse(c))
	}
	return &dto.CustomerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update aplica solo los campos presentes.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	repo, err := uc.repo(ctx)
	if err != nil {
		return nil, err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Errorf(domain.ErrValidation, "name no puede quedar vacío")
	}
	n, err := repo.Update(ctx, id, entity.CustomerPatch{
		Name:        in.Name,
		Document:    in.Document,
		Email:       in.Email,
		Phone:       in.Phone,
		CreditLimit: in.CreditLimit,
	})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.NotFound("cliente")
	}
	return uc.GetByID(ctx, id)
}

// Delete elimina un cliente sin ventas.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	repo, err := uc.repo(ctx)
	if err != nil {
		return err
	}
	n, err := repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound("cliente")
	}
	return nil
}
