package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estado del producto en el catálogo (borrado lógico).
type Estado string

const (
	EstadoActivo   Estado = "activo"
	EstadoInactivo Estado = "inactivo"
)

// EstadoDesdeActivo convierte la columna booleana `activo` en Estado.
func EstadoDesdeActivo(activo bool) Estado {
	if activo {
		return EstadoActivo
	}
	return EstadoInactivo
}

// Activo indica si el estado corresponde a un producto visible/vendible.
func (e Estado) Activo() bool { return e == EstadoActivo }

// Producto representa un registro del catálogo.
// Stock y StockMinimo solo cambian por los ajustes de stock; Estado solo por desactivar/restaurar.
type Producto struct {
	ID          int64
	Nombre      string // único entre activos e inactivos
	Descripcion *string
	Precio      decimal.Decimal
	Stock       int
	StockMinimo int // umbral de alerta de stock bajo
	Estado      Estado
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NuevoProducto datos para insertar un producto; el ID y las fechas los asigna el almacenamiento.
type NuevoProducto struct {
	Nombre      string
	Descripcion *string
	Precio      decimal.Decimal
	Stock       int
	StockMinimo int
}

// CambiosProducto campos editables por la actualización genérica (nil = sin cambio).
type CambiosProducto struct {
	Nombre      *string
	Descripcion *string
	Precio      *decimal.Decimal
}

// Vacio indica que no hay ningún campo a modificar.
func (c CambiosProducto) Vacio() bool {
	return c.Nombre == nil && c.Descripcion == nil && c.Precio == nil
}
