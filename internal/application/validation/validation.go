// Package validation envuelve go-playground/validator con mensajes en español
// y nombres de campo tomados del tag json.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	v10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/productos-api/internal/domain"
)

// FieldError error de un campo concreto.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

var validate = newValidator()

func newValidator() *v10.Validate {
	v := v10.New(v10.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	// decimal.Decimal se valida como número (gte, lte, required).
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Struct valida v y devuelve un *domain.Error de clase ErrInvalidInput con todos los problemas.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	fields := FieldErrors(err)
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f.Message)
	}
	return domain.WrapError(domain.ErrInvalidInput, err, "%s", strings.Join(msgs, "; "))
}

// FieldErrors convierte validator.ValidationErrors en []FieldError.
func FieldErrors(err error) []FieldError {
	var ve v10.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Code: "INVALID", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, f := range ve {
		code := "INVALID_" + strings.ToUpper(f.Tag())
		if f.Param() != "" {
			code += "|" + f.Param()
		}
		out = append(out, FieldError{
			Field:   f.Field(),
			Code:    code,
			Message: fmt.Sprintf("%s: %s", f.Field(), mensaje(f)),
		})
	}
	return out
}

func mensaje(f v10.FieldError) string {
	esTexto := f.Kind() == reflect.String
	switch f.Tag() {
	case "required":
		return "es obligatorio"
	case "min":
		if esTexto {
			return fmt.Sprintf("debe tener al menos %s caracteres", f.Param())
		}
		return fmt.Sprintf("debe ser mayor o igual a %s", f.Param())
	case "max":
		if esTexto {
			return fmt.Sprintf("no puede exceder los %s caracteres", f.Param())
		}
		return fmt.Sprintf("debe ser menor o igual a %s", f.Param())
	case "gte":
		if f.Param() == "0" {
			return "no puede ser negativo"
		}
		return fmt.Sprintf("debe ser mayor o igual a %s", f.Param())
	default:
		return "no es válido"
	}
}

// NormalizeText recorta espacios y lleva el texto a forma NFC, de modo que
// "Café" compuesto y descompuesto se comparen como iguales.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
