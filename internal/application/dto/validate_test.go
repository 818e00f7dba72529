package dto

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tienda-pos-api/internal/domain"
)

func TestValidate_VentaValida(t *testing.T) {
	in := CreateSaleRequest{Total: decimal.NewFromInt(100000), PaymentMethod: "credito"}
	assert.NoError(t, Validate(in))
}

func TestValidate_UsaNombreJSONEnElMensaje(t *testing.T) {
	err := Validate(CreateSaleRequest{Total: decimal.Zero, PaymentMethod: "efectivo"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "total: debe ser mayor que 0", domain.Message(err))

	err = Validate(CreateSaleRequest{Total: decimal.NewFromInt(1), PaymentMethod: "bitcoin"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, domain.Message(err), "payment_method")
}

func TestValidate_AbonoNoPuedeSerACredito(t *testing.T) {
	err := Validate(RegisterPaymentRequest{
		SaleID: "s1", CustomerID: "c1", Amount: decimal.NewFromInt(1), PaymentMethod: "credito",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidate_DecimalOpcional(t *testing.T) {
	neg := decimal.NewFromInt(-1)
	assert.Error(t, Validate(UpdateProductRequest{SalePrice: &neg}))
	assert.NoError(t, Validate(UpdateProductRequest{}))
}

func TestPageRequest_DefaultPage(t *testing.T) {
	p := PageRequest{}
	p.DefaultPage()
	assert.Equal(t, 20, p.Limit)

	p = PageRequest{Limit: 500, Offset: -3}
	p.DefaultPage()
	assert.Equal(t, 100, p.Limit)
	assert.Equal(t, 0, p.Offset)
}
