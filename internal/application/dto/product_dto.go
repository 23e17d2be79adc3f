package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Nombre      string          `json:"nombre" validate:"required,min=2,max=30"`
	Descripcion *string         `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio" validate:"required,gte=1"`
	Stock       *int            `json:"stock" validate:"omitnil,gte=0"`
	StockMinimo *int            `json:"stockMinimo" validate:"omitnil,gte=0"`
}

// UpdateProductRequest entrada para actualizar un producto (parcial).
// Stock, StockMinimo y Activo se aceptan en el JSON solo para rechazarlos con un mensaje claro.
type UpdateProductRequest struct {
	Nombre      *string          `json:"nombre" validate:"omitnil,min=2,max=30"`
	Descripcion *string          `json:"descripcion"`
	Precio      *decimal.Decimal `json:"precio" validate:"omitnil,gte=1"`
	Stock       *int             `json:"stock"`
	StockMinimo *int             `json:"stockMinimo"`
	Activo      *bool            `json:"activo"`
}

// ListProductsRequest parámetros de búsqueda paginada (ya parseados por el handler).
type ListProductsRequest struct {
	Pagina     *int // nil = no enviado
	Limite     *int
	Buscar     string
	Activo     *bool // nil = solo activos
	OrdenarPor string
	Orden      string
}

// StockAdjustmentRequest cantidad a sumar o restar; se trunca a entero.
type StockAdjustmentRequest struct {
	Cantidad decimal.Decimal `json:"cantidad"`
}

// ProductResponse salida de un producto. El ID viaja como string.
type ProductResponse struct {
	ID          int64           `json:"id,string"`
	Nombre      string          `json:"nombre"`
	Descripcion *string         `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	StockMinimo int             `json:"stockMinimo"`
	Activo      bool            `json:"activo"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductListResponse lista paginada de productos. Mensaje solo viene cuando no hay resultados.
type ProductListResponse struct {
	Total        int               `json:"total"`
	Pagina       int               `json:"pagina"`
	Limite       int               `json:"limite"`
	TotalPaginas int               `json:"totalPaginas"`
	Datos        []ProductResponse `json:"datos"`
	Mensaje      string            `json:"mensaje,omitempty"`
}

// CreateManyResponse resultado de la carga masiva.
type CreateManyResponse struct {
	Creados int    `json:"creados"`
	Mensaje string `json:"mensaje"`
}

// LowStockResponse productos activos en o bajo su stock mínimo.
type LowStockResponse struct {
	Total int               `json:"total"`
	Datos []ProductResponse `json:"datos"`
}
