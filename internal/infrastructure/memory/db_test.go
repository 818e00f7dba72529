package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos-api/internal/domain"
	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
	"github.com/jhoicas/tienda-pos-api/internal/domain/repository"
)

func seedProduct(t *testing.T, db *DB, tenantID, id string, stock int64) {
	t.Helper()
	require.NoError(t, db.ForTenant(tenantID).Products().Create(context.Background(), &entity.Product{
		ID: id, Name: "Producto " + id, Stock: decimal.NewFromInt(stock), MinStock: decimal.NewFromInt(2),
	}))
}

func TestAislamiento_OtroTenantNoVeNiModifica(t *testing.T) {
	ctx := context.Background()
	db := New()
	seedProduct(t, db, "B", "p-b", 10)

	a := db.ForTenant("A").Products()

	_, err := a.GetByID(ctx, "p-b")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	name := "hackeado"
	n, err := a.Update(ctx, "p-b", entity.ProductPatch{Name: &name})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = a.Delete(ctx, "p-b")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = a.AdjustStock(ctx, "p-b", decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, total, err := a.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)

	p, err := db.ForTenant("B").Products().GetByID(ctx, "p-b")
	require.NoError(t, err)
	assert.Equal(t, "Producto p-b", p.Name)
	assert.True(t, p.Stock.Equal(decimal.NewFromInt(10)))
}

func TestRunInTx_RollbackDeshaceTodo(t *testing.T) {
	ctx := context.Background()
	db := New()
	seedProduct(t, db, "A", "p1", 10)

	boom := errors.New("falla a mitad de la venta")
	err := db.RunInTx(ctx, "A", func(s repository.Store) error {
		if _, err := s.Products().AdjustStock(ctx, "p1", decimal.NewFromInt(-3)); err != nil {
			return err
		}
		if _, err := s.Sales().NextNumber(ctx, "VTA", time.Now()); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := db.ForTenant("A").Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p.Stock.Equal(decimal.NewFromInt(10)))

	n, err := db.ForTenant("A").Sales().NextNumber(ctx, "VTA", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "el consecutivo consumido en la tx fallida también se revierte")
}

func TestRunInTx_PanicRestauraEstado(t *testing.T) {
	ctx := context.Background()
	db := New()
	seedProduct(t, db, "A", "p1", 5)

	assert.Panics(t, func() {
		_ = db.RunInTx(ctx, "A", func(s repository.Store) error {
			_, _ = s.Products().AdjustStock(ctx, "p1", decimal.NewFromInt(-5))
			panic("boom")
		})
	})

	p, err := db.ForTenant("A").Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p.Stock.Equal(decimal.NewFromInt(5)))
}

func TestNextNumber_ConcurrenteSinDuplicados(t *testing.T) {
	ctx := context.Background()
	db := New()
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	const n = 50
	got := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := db.ForTenant("A").Sales().NextNumber(ctx, "VTA", day)
			assert.NoError(t, err)
			got <- v
		}()
	}
	wg.Wait()
	close(got)

	seen := map[int64]bool{}
	for v := range got {
		assert.False(t, seen[v], "consecutivo repetido %d", v)
		seen[v] = true
	}
	assert.Len(t, seen, n)

	// otro tenant y otro día arrancan en 1
	v, err := db.ForTenant("B").Sales().NextNumber(ctx, "VTA", day)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	v, err = db.ForTenant("A").Sales().NextNumber(ctx, "VTA", day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestTenantRepo_CreateIdempotente(t *testing.T) {
	ctx := context.Background()
	repo := NewTenantRepository(New())

	first, created, err := repo.Create(ctx, &entity.Tenant{ID: "t1", ExternalID: "ext", Email: "a@b.co"})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repo.Create(ctx, &entity.Tenant{ID: "t2", ExternalID: "ext", Email: "a@b.co"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	_, _, err = repo.Create(ctx, &entity.Tenant{ID: "t3", ExternalID: "otro", Email: "a@b.co"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyRegistered)
}

func TestProductRepo_ListLowStock(t *testing.T) {
	ctx := context.Background()
	db := New()
	seedProduct(t, db, "A", "p1", 10)
	seedProduct(t, db, "A", "p2", 1)
	seedProduct(t, db, "A", "p3", 2)
	seedProduct(t, db, "B", "p4", 0)

	low, err := db.ForTenant("A").Products().ListLowStock(ctx, 10)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "p2", low[0].ID)
	assert.Equal(t, "p3", low[1].ID)
}
