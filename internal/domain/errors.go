package domain

import (
	"errors"
	"fmt"
)

// Tipos de error de dominio (sin dependencias externas).
// Cada error devuelto por el núcleo envuelve exactamente uno de estos sentinelas.
var (
	ErrUnauthenticated        = errors.New("credencial ausente o inválida")
	ErrSubscriptionRequired   = errors.New("suscripción vencida o cancelada")
	ErrEmailAlreadyRegistered = errors.New("el email ya está registrado con otra identidad")
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrValidation             = errors.New("entrada inválida")
	ErrConflict               = errors.New("conflicto con el estado actual")
)

// Códigos estables expuestos a los clientes.
const (
	CodeUnauthenticated        = "UNAUTHENTICATED"
	CodeSubscriptionRequired   = "SUBSCRIPTION_REQUIRED"
	CodeEmailAlreadyRegistered = "EMAIL_ALREADY_REGISTERED"
	CodeNotFound               = "NOT_FOUND"
	CodeValidation             = "VALIDATION_FAILED"
	CodeConflict               = "CONFLICT"
	CodeInternal               = "INTERNAL"
)

// Error es un error de dominio con tipo estable y mensaje legible.
// ItemIndex identifica la línea de venta ofensora (-1 si no aplica).
type Error struct {
	Kind      error
	Message   string
	ItemIndex int
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

// Unwrap permite errors.Is(err, domain.ErrNotFound).
func (e *Error) Unwrap() error { return e.Kind }

// Errorf construye un error de dominio del tipo indicado.
func Errorf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), ItemIndex: -1}
}

// ItemError construye un ErrValidation asociado a una línea de la venta.
func ItemError(index int, format string, args ...any) *Error {
	return &Error{
		Kind:      ErrValidation,
		Message:   fmt.Sprintf("item %d: %s", index, fmt.Sprintf(format, args...)),
		ItemIndex: index,
	}
}

// NotFound es un atajo para recursos inexistentes o de otro tenant (indistinguibles).
func NotFound(resource string) *Error {
	return Errorf(ErrNotFound, "%s no encontrado", resource)
}

// Code devuelve el código estable del error (INTERNAL si no es de dominio).
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthenticated):
		return CodeUnauthenticated
	case errors.Is(err, ErrSubscriptionRequired):
		return CodeSubscriptionRequired
	case errors.Is(err, ErrEmailAlreadyRegistered):
		return CodeEmailAlreadyRegistered
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrConflict):
		return CodeConflict
	default:
		return CodeInternal
	}
}

// Message devuelve el mensaje legible; los errores internos no filtran detalles.
func Message(err error) string {
	if Code(err) == CodeInternal {
		return "error interno"
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Error()
	}
	return err.Error()
}
