package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/productos-api/internal/domain"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
	codeNumericRange    = "22003"
)

// translateError convierte errores de pgx en errores de dominio. Es el único punto
// donde se interpretan códigos del motor; op describe la operación para el resto.
func translateError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.WrapError(domain.ErrNotFound, err, "No se encontró el registro (Producto).")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return domain.WrapError(domain.ErrConflict, err, "Ya existe un registro duplicado (Producto).")
		case codeCheckViolation:
			return domain.WrapError(domain.ErrInvalidInput, err, "El valor viola una restricción del producto (%s).", pgErr.ConstraintName)
		case codeNumericRange:
			return domain.WrapError(domain.ErrInvalidInput, err, "Valor numérico fuera de rango.")
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
