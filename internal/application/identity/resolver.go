package identity

import (
	"context"
	"strings"

	"github.com/jhoicas/tienda-pos-api/internal/domain"
	"github.com/jhoicas/tienda-pos-api/pkg/jwt"
)

// Identity sujeto autenticado por el proveedor externo.
type Identity struct {
	ExternalID string
	Email      string
}

// Verifier valida (o solo decodifica) un token con formato correcto. Cambiar de verificador
// no cambia la interfaz del Resolver.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// Resolver convierte un bearer token en una identidad externa.
type Resolver struct {
	verifier Verifier
}

// NewResolver construye el resolver con el verificador dado.
func NewResolver(v Verifier) *Resolver {
	return &Resolver{verifier: v}
}

// Resolve rechaza con Unauthenticated tokens vacíos, con un número de segmentos distinto de
// tres o que el verificador no acepte.
func (r *Resolver) Resolve(ctx context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, domain.Errorf(domain.ErrUnauthenticated, "token ausente")
	}
	if strings.Count(token, ".") != 2 {
		return Identity{}, domain.Errorf(domain.ErrUnauthenticated, "token mal formado")
	}
	id, err := r.verifier.Verify(ctx, token)
	if err != nil {
		return Identity{}, domain.Errorf(domain.ErrUnauthenticated, "token inválido: %v", err)
	}
	if id.ExternalID == "" {
		return Identity{}, domain.Errorf(domain.ErrUnauthenticated, "token sin sujeto")
	}
	return id, nil
}

// HMACVerifier verifica firma HS256, expiración e issuer con la clave compartida.
type HMACVerifier struct {
	Secret string
	Issuer string
}

func (v HMACVerifier) Verify(_ context.Context, token string) (Identity, error) {
	claims, err := jwt.Parse(v.Secret, v.Issuer, token)
	if err != nil {
		return Identity{}, err
	}
	return Identity{ExternalID: claims.Subject, Email: claims.Email}, nil
}

// UnverifiedDecoder solo decodifica los claims; la firma la verificó un colaborador previo
// (p. ej. el API gateway). Sí rechaza tokens expirados.
type UnverifiedDecoder struct{}

func (UnverifiedDecoder) Verify(_ context.Context, token string) (Identity, error) {
	claims, err := jwt.ParseUnverified(token)
	if err != nil {
		return Identity{}, err
	}
	return Identity{ExternalID: claims.Subject, Email: claims.Email}, nil
}
