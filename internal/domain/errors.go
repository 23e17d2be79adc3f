package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Son las clases de fallo que
// conoce la capa HTTP; los adaptadores traducen sus códigos propios a estas.
var (
	ErrInvalidInput = errors.New("entrada inválida")
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrUpstream     = errors.New("fallo en servicio externo")
)

// Error es un error de dominio con mensaje legible para el cliente.
// Unwrap devuelve la clase (ErrNotFound, ErrConflict, ...) para usar errors.Is.
type Error struct {
	Kind    error
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

// Unwrap expone la clase y, si existe, la causa original.
func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Kind, e.cause}
	}
	return []error{e.Kind}
}

// NewError construye un error de la clase kind con mensaje formateado.
func NewError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError igual que NewError pero conserva la causa en la cadena de errores.
func WrapError(kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

// Atajos por clase.

func InvalidInput(format string, args ...any) *Error { return NewError(ErrInvalidInput, format, args...) }
func NotFound(format string, args ...any) *Error     { return NewError(ErrNotFound, format, args...) }
func Conflict(format string, args ...any) *Error     { return NewError(ErrConflict, format, args...) }

// Upstream envuelve un fallo de un colaborador externo (ej. Telegram).
func Upstream(cause error, format string, args ...any) *Error {
	return WrapError(ErrUpstream, cause, format, args...)
}
