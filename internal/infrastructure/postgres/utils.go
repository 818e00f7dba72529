package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/tienda-pos-api/internal/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgInvalidTextRepr     = "22P02"
	pgSerializationFail   = "40001"
	pgDeadlockDetected    = "40P01"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == pgUniqueViolation
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// translate convierte errores del driver en errores de dominio; el resto se envuelve con op.
func translate(err error, op, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFound(resource)
	}
	switch pgCode(err) {
	case pgUniqueViolation:
		return domain.Errorf(domain.ErrConflict, "%s duplicado", resource)
	case pgForeignKeyViolation:
		return domain.Errorf(domain.ErrNotFound, "%s: referencia inexistente", resource)
	case pgNotNullViolation, pgCheckViolation:
		return domain.Errorf(domain.ErrValidation, "%s: datos inválidos", resource)
	case pgInvalidTextRepr:
		// un id que no es UUID no puede existir en la tabla
		return domain.NotFound(resource)
	case pgSerializationFail, pgDeadlockDetected:
		return domain.Errorf(domain.ErrConflict, "%s: operación concurrente, reintente", resource)
	}
	return fmt.Errorf("%s: %w", op, err)
}
