package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos-api/internal/application/analytics"
	"github.com/jhoicas/tienda-pos-api/internal/application/credit"
	"github.com/jhoicas/tienda-pos-api/internal/application/dto"
	"github.com/jhoicas/tienda-pos-api/internal/application/identity"
	"github.com/jhoicas/tienda-pos-api/internal/application/sales"
	"github.com/jhoicas/tienda-pos-api/internal/application/tenant"
	"github.com/jhoicas/tienda-pos-api/internal/application/usecase"
	"github.com/jhoicas/tienda-pos-api/internal/domain"
	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
	"github.com/jhoicas/tienda-pos-api/internal/domain/loyalty"
	"github.com/jhoicas/tienda-pos-api/internal/infrastructure/memory"
	"github.com/jhoicas/tienda-pos-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/tienda-pos-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/tienda-pos-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testSecret     = "test-secret-key-for-unit-tests"
	testIssuer     = "tienda-pos-test"
	testSuperadmin = "dueno@plataforma.co"
)

type testEnv struct {
	app     *fiber.App
	tenants *memory.TenantRepo
	prov    *tenant.Provisioner
}

// newTestEnv arma la API completa sobre el almacenamiento en memoria.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := memory.New()
	tenants := memory.NewTenantRepository(db)
	prov := tenant.NewProvisioner(tenants, nil, tenant.Config{SuperadminEmails: []string{testSuperadmin}}, zerolog.Nop())

	salesUC, err := sales.NewUseCase(db, sales.Config{NumberPrefix: "VTA", Tiers: loyalty.DefaultTiers()}, zerolog.Nop())
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Resolver:    identity.NewResolver(identity.HMACVerifier{Secret: testSecret, Issuer: testIssuer}),
		Provisioner: prov,
		ProductUC:   usecase.NewProductUseCase(db),
		CustomerUC:  usecase.NewCustomerUseCase(db),
		SalesUC:     salesUC,
		ReceiptUC:   sales.NewReceiptUseCase(db, pdf.NewReceiptGenerator()),
		CreditUC:    credit.NewUseCase(db, zerolog.Nop()),
		LoyaltyUC:   analytics.NewLoyaltyUseCase(db, loyalty.DefaultTiers(), 90),
		Log:         zerolog.Nop(),

		RequestTimeout: 5 * time.Second,
	})
	return &testEnv{app: app, tenants: tenants, prov: prov}
}

// bearer genera un token válido para la identidad externa dada.
func bearer(t *testing.T, subject, email string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testSecret, subject, email, testIssuer, 60)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func (e *testEnv) do(t *testing.T, method, path, auth string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *testEnv) createProduct(t *testing.T, auth string, stock int64) dto.ProductResponse {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/products", auth, dto.CreateProductRequest{
		SKU:       "ARZ-500",
		Name:      "Arroz 500g",
		SalePrice: decimal.NewFromInt(2500),
		Stock:     decimal.NewFromInt(stock),
		MinStock:  decimal.NewFromInt(2),
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decode[dto.ProductResponse](t, resp)
}

func saleBody(productID string, qty, price int64) map[string]any {
	total := qty * price
	return map[string]any{
		"total":          total,
		"payment_method": entity.PaymentCash,
		"items": []map[string]any{
			{"product_id": productID, "quantity": qty, "unit_price": price, "subtotal": total},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// TenantMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestTenantMiddleware_SinHeader401(t *testing.T) {
	e := newTestEnv(t)
	resp := e.do(t, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, domain.CodeUnauthenticated, body.Code)
}

func TestTenantMiddleware_FormatoInvalido401(t *testing.T) {
	e := newTestEnv(t)
	tok, err := pkgjwt.Generate(testSecret, "ext-1", "a@tienda.co", testIssuer, 60)
	require.NoError(t, err)

	resp := e.do(t, http.MethodGet, "/api/me", "Token "+tok, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestTenantMiddleware_FirmaIncorrecta401(t *testing.T) {
	e := newTestEnv(t)
	tok, err := pkgjwt.Generate("otra-clave", "ext-1", "a@tienda.co", testIssuer, 60)
	require.NoError(t, err)

	resp := e.do(t, http.MethodGet, "/api/me", "Bearer "+tok, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	_, err = e.tenants.GetByExternalID(context.Background(), "ext-1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "un token rechazado no aprovisiona tenant")
}

func TestTenantMiddleware_PrimeraPeticionCreaTrial(t *testing.T) {
	e := newTestEnv(t)
	auth := bearer(t, "ext-1", "a@tienda.co")

	resp := e.do(t, http.MethodGet, "/api/me", auth, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	me := decode[dto.TenantResponse](t, resp)
	assert.Equal(t, entity.SubscriptionTrial, me.SubscriptionStatus)
	assert.Equal(t, "a@tienda.co", me.Email)
	assert.InDelta(t, 15, me.DaysRemaining, 1)
	assert.False(t, me.IsSuperadmin)

	again := decode[dto.TenantResponse](t, e.do(t, http.MethodGet, "/api/me", auth, nil))
	assert.Equal(t, me.ID, again.ID, "la misma identidad resuelve siempre al mismo tenant")
}

func TestTenantMiddleware_EmailDeOtraIdentidad409(t *testing.T) {
	e := newTestEnv(t)
	require.Equal(t, fiber.StatusOK, e.do(t, http.MethodGet, "/api/me", bearer(t, "ext-1", "a@tienda.co"), nil).StatusCode)

	resp := e.do(t, http.MethodGet, "/api/me", bearer(t, "ext-2", "A@Tienda.co"), nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, domain.CodeEmailAlreadyRegistered, decode[dto.ErrorResponse](t, resp).Code)
}

func TestTenantMiddleware_SuscripcionVencida402(t *testing.T) {
	e := newTestEnv(t)
	auth := bearer(t, "ext-1", "a@tienda.co")
	me := decode[dto.TenantResponse](t, e.do(t, http.MethodGet, "/api/me", auth, nil))

	_, err := e.prov.UpdateSubscription(context.Background(), me.ID, entity.SubscriptionCanceled, nil)
	require.NoError(t, err)

	resp := e.do(t, http.MethodGet, "/api/products", auth, nil)
	assert.Equal(t, fiber.StatusPaymentRequired, resp.StatusCode)
	assert.Equal(t, domain.CodeSubscriptionRequired, decode[dto.ErrorResponse](t, resp).Code)
}

func TestTenantMiddleware_ContextoConPlazoYCancelacion(t *testing.T) {
	e := newTestEnv(t)
	resolver := identity.NewResolver(identity.HMACVerifier{Secret: testSecret, Issuer: testIssuer})
	auth := bearer(t, "ext-1", "a@tienda.co")

	var reqCtx context.Context
	app := fiber.New()
	app.Get("/plazo", apphttp.TenantMiddleware(resolver, e.prov, zerolog.Nop(), 2*time.Second), func(c *fiber.Ctx) error {
		reqCtx = c.UserContext()
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/plazo", nil)
	req.Header.Set("Authorization", auth)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	require.NotNil(t, reqCtx)
	deadline, ok := reqCtx.Deadline()
	require.True(t, ok, "el contexto que reciben los casos de uso tiene plazo")
	assert.WithinDuration(t, time.Now().Add(2*time.Second), deadline, 2*time.Second)
	_, hasTenant := tenant.FromContext(reqCtx)
	assert.True(t, hasTenant)
	assert.ErrorIs(t, reqCtx.Err(), context.Canceled, "al terminar la petición el contexto se cancela")
}

func TestTenantMiddleware_SinPlazoConfigurado(t *testing.T) {
	e := newTestEnv(t)
	resolver := identity.NewResolver(identity.HMACVerifier{Secret: testSecret, Issuer: testIssuer})

	var hasDeadline bool
	app := fiber.New()
	app.Get("/plazo", apphttp.TenantMiddleware(resolver, e.prov, zerolog.Nop(), 0), func(c *fiber.Ctx) error {
		_, hasDeadline = c.UserContext().Deadline()
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/plazo", nil)
	req.Header.Set("Authorization", bearer(t, "ext-1", "a@tienda.co"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.False(t, hasDeadline)
}

// ──────────────────────────────────────────────────────────────────────────────
// Admin
// ──────────────────────────────────────────────────────────────────────────────

func TestAdmin_TenantNormalNoAccede403(t *testing.T) {
	e := newTestEnv(t)
	auth := bearer(t, "ext-1", "a@tienda.co")
	me := decode[dto.TenantResponse](t, e.do(t, http.MethodGet, "/api/me", auth, nil))

	resp := e.do(t, http.MethodPut, "/api/admin/tenants/"+me.ID+"/subscription", auth,
		dto.UpdateSubscriptionRequest{Status: entity.SubscriptionActive})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdmin_SuperadminActivaSuscripcion(t *testing.T) {
	e := newTestEnv(t)
	shop := decode[dto.TenantResponse](t, e.do(t, http.MethodGet, "/api/me", bearer(t, "ext-1", "a@tienda.co"), nil))
	admin := bearer(t, "ext-admin", "Dueno@Plataforma.co")

	resp := e.do(t, http.MethodPut, "/api/admin/tenants/"+shop.ID+"/subscription", admin,
		dto.UpdateSubscriptionRequest{Status: entity.SubscriptionActive})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.SubscriptionActive, decode[dto.TenantResponse](t, resp).SubscriptionStatus)

	resp = e.do(t, http.MethodPut, "/api/admin/tenants/"+shop.ID+"/subscription", admin,
		dto.UpdateSubscriptionRequest{Status: "gratis"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos y aislamiento
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_AislamientoEntreTenants(t *testing.T) {
	e := newTestEnv(t)
	authA := bearer(t, "ext-a", "a@tienda.co")
	authB := bearer(t, "ext-b", "b@tienda.co")
	p := e.createProduct(t, authA, 10)

	assert.Equal(t, fiber.StatusOK, e.do(t, http.MethodGet, "/api/products/"+p.ID, authA, nil).StatusCode)

	resp := e.do(t, http.MethodGet, "/api/products/"+p.ID, authB, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, domain.CodeNotFound, decode[dto.ErrorResponse](t, resp).Code)

	list := decode[dto.ProductListResponse](t, e.do(t, http.MethodGet, "/api/products", authB, nil))
	assert.Empty(t, list.Items)
	assert.Equal(t, fiber.StatusNotFound, e.do(t, http.MethodDelete, "/api/products/"+p.ID, authB, nil).StatusCode)
}

func TestProducts_CuerpoInvalido(t *testing.T) {
	e := newTestEnv(t)
	auth := bearer(t, "ext-1", "a@tienda.co")

	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = e.do(t, http.MethodPost, "/api/products", auth, map[string]any{"name": "", "stock": -1})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, domain.CodeValidation, decode[dto.ErrorResponse](t, resp).Code)
}

func TestProducts_EntradaYStockBajo(t *testing.T) {
	e := newTestEnv(t)
	auth := bearer(t, "ext-1", "a@tienda.co")
	p := e.createProduct(t, auth, 1)

	low := decode[dto.ProductListResponse](t, e.do(t, http.MethodGet, "/api/products/low-stock", auth, nil))
	require.Len(t, low.Items, 1)
	assert.Equal(t, p.ID, low.Items[0].ID)

	resp := e.do(t, http.MethodPost, "/api/products/"+p.ID+"/receive", auth, map[string]any{"quantity": 9})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decode[dto.ProductResponse](t, resp)
	assert.True(t, got.Stock.Equal(decimal.NewFromInt(10)))
	assert.False(t, got.LowStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestSales_VentaDeContadoYComprobante(t *testing.T) {
	e := newTestEnv(t)
	auth := bearer(t, "ext-1", "a@tienda.co")
	p := e.createProduct(t, auth, 10)

	resp := e.do(t, http.MethodPost, "/api/sales", auth, saleBody(p.ID, 2, 2500))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	sale := decode[dto.SaleResponse](t, resp)
	assert.Equal(t, entity.SaleStatusCompleted, sale.Status)
	assert.Regexp(t, `^VTA-\d{8}-000001$`, sale.SaleNumber)

	got := decode[dto.ProductResponse](t, e.do(t, http.MethodGet, "/api/products/"+p.ID, auth, nil))
	assert.True(t, got.Stock.Equal(decimal.NewFromInt(8)))

	resp = e.do(t, http.MethodGet, "/api/sales/"+sale.ID+"/receipt", auth, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestSales_SobreventaDevuelveItemIndex(t *testing.T) {
	e := newTestEnv(t)
	auth := bearer(t, "ext-1", "a@tienda.co")
	p := e.createProduct(t, auth, 1)

	resp := e.do(t, http.MethodPost, "/api/sales", auth, saleBody(p.ID, 3, 2500))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, domain.CodeConflict, body.Code)
	require.NotNil(t, body.ItemIndex)
	assert.Equal(t, 0, *body.ItemIndex)

	got := decode[dto.ProductResponse](t, e.do(t, http.MethodGet, "/api/products/"+p.ID, auth, nil))
	assert.True(t, got.Stock.Equal(decimal.NewFromInt(1)), "la venta fallida no toca el stock")
}

func TestSales_ItemInvalido422(t *testing.T) {
	e := newTestEnv(t)
	auth := bearer(t, "ext-1", "a@tienda.co")
	p := e.createProduct(t, auth, 10)

	body := saleBody(p.ID, 1, 2500)
	body["items"] = append(body["items"].([]map[string]any), map[string]any{"product_id": p.ID, "quantity": 0, "unit_price": 100, "subtotal": 0})
	resp := e.do(t, http.MethodPost, "/api/sales", auth, body)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	out := decode[dto.ErrorResponse](t, resp)
	require.NotNil(t, out.ItemIndex)
	assert.Equal(t, 1, *out.ItemIndex)
}

func TestSales_LineaInvalidaSeReportaAntesQueElTotal(t *testing.T) {
	e := newTestEnv(t)
	auth := bearer(t, "ext-1", "a@tienda.co")
	p := e.createProduct(t, auth, 10)

	body := map[string]any{
		"total":          0,
		"payment_method": "bitcoin",
		"items": []map[string]any{
			{"product_id": p.ID, "quantity": 0, "unit_price": 100, "subtotal": 0},
		},
	}
	resp := e.do(t, http.MethodPost, "/api/sales", auth, body)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	out := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, domain.CodeValidation, out.Code)
	require.NotNil(t, out.ItemIndex, "la línea inválida se reporta con su índice aunque el total también sea inválido")
	assert.Equal(t, 0, *out.ItemIndex)
}

func TestSales_NoEncontradaSinItemIndex(t *testing.T) {
	e := newTestEnv(t)
	auth := bearer(t, "ext-1", "a@tienda.co")

	resp := e.do(t, http.MethodGet, "/api/sales/no-existe", auth, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Nil(t, decode[dto.ErrorResponse](t, resp).ItemIndex)
}

// ──────────────────────────────────────────────────────────────────────────────
// Crédito
// ──────────────────────────────────────────────────────────────────────────────

func TestCredit_VentaACreditoYAbono(t *testing.T) {
	e := newTestEnv(t)
	auth := bearer(t, "ext-1", "a@tienda.co")
	p := e.createProduct(t, auth, 10)

	resp := e.do(t, http.MethodPost, "/api/customers", auth, dto.CreateCustomerRequest{Name: "Ana Gómez"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	customer := decode[dto.CustomerResponse](t, resp)

	body := saleBody(p.ID, 4, 2500)
	body["payment_method"] = entity.PaymentCredit
	body["customer_id"] = customer.ID
	resp = e.do(t, http.MethodPost, "/api/sales", auth, body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	sale := decode[dto.SaleResponse](t, resp)

	resp = e.do(t, http.MethodPost, "/api/credit/payments", auth, map[string]any{
		"sale_id": sale.ID, "customer_id": customer.ID, "amount": 4000, "payment_method": entity.PaymentCash,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	paid := decode[dto.RegisterPaymentResponse](t, resp)
	assert.Equal(t, entity.PaymentStatusPartial, paid.PaymentStatus)
	assert.True(t, paid.AmountPending.Equal(decimal.NewFromInt(6000)))

	st := decode[dto.CustomerStatementResponse](t, e.do(t, http.MethodGet, "/api/customers/"+customer.ID+"/statement", auth, nil))
	assert.True(t, st.Customer.CurrentDebt.Equal(decimal.NewFromInt(6000)))
	require.Len(t, st.OpenSales, 1)

	payments := decode[[]dto.CreditPaymentResponse](t, e.do(t, http.MethodGet, "/api/sales/"+sale.ID+"/payments", auth, nil))
	assert.Len(t, payments, 1)

	resp = e.do(t, http.MethodPost, "/api/sales/"+sale.ID+"/cancel", auth, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode, "no se anula una venta con abonos")
}

// ──────────────────────────────────────────────────────────────────────────────
// Fidelización
// ──────────────────────────────────────────────────────────────────────────────

func TestLoyalty_PuntosYSegmentos(t *testing.T) {
	e := newTestEnv(t)
	auth := bearer(t, "ext-1", "a@tienda.co")

	resp := e.do(t, http.MethodGet, "/api/loyalty/tiers/points?amount=abc", auth, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/loyalty/tiers/points?amount=100000", auth, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/loyalty/segments?window_days=1000", auth, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/loyalty/segments", auth, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	seg := decode[dto.SegmentsResponse](t, resp)
	assert.Equal(t, 90, seg.WindowDays)
	assert.Empty(t, seg.Customers)
}
