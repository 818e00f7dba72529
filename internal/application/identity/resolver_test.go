package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos-api/internal/domain"
	"github.com/jhoicas/tienda-pos-api/pkg/jwt"
)

const secret = "clave-compartida"

func TestResolve_TokenValido(t *testing.T) {
	tok, err := jwt.Generate(secret, "auth0|42", "caja@tienda.co", "", 10)
	require.NoError(t, err)

	for name, v := range map[string]Verifier{
		"hmac":          HMACVerifier{Secret: secret},
		"sin-verificar": UnverifiedDecoder{},
	} {
		t.Run(name, func(t *testing.T) {
			id, err := NewResolver(v).Resolve(context.Background(), tok)
			require.NoError(t, err)
			assert.Equal(t, "auth0|42", id.ExternalID)
			assert.Equal(t, "caja@tienda.co", id.Email)
		})
	}
}

func TestResolve_RechazaSegmentosIncorrectos(t *testing.T) {
	r := NewResolver(UnverifiedDecoder{})
	for _, tok := range []string{"", "   ", "abc", "a.b", "a.b.c.d"} {
		_, err := r.Resolve(context.Background(), tok)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated, "token %q", tok)
	}
}

func TestResolve_FirmaInvalidaEsUnauthenticated(t *testing.T) {
	tok, err := jwt.Generate("otra-clave", "auth0|42", "", "", 10)
	require.NoError(t, err)

	_, err = NewResolver(HMACVerifier{Secret: secret}).Resolve(context.Background(), tok)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestResolve_BasuraConTresSegmentos(t *testing.T) {
	_, err := NewResolver(UnverifiedDecoder{}).Resolve(context.Background(), "x.y.z")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
