package repository

import (
	"context"
	"fmt"

	"github.com/jhoicas/productos-api/internal/domain"
	"github.com/jhoicas/productos-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Producto (DIP).
// Los adaptadores devuelven domain.ErrNotFound / domain.ErrConflict (vía *domain.Error)
// en lugar de códigos propios del motor.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Producto, error)
	// GetByNombre busca por nombre exacto sin importar el estado; (nil, nil) si no existe.
	GetByNombre(ctx context.Context, nombre string) (*entity.Producto, error)
	// ExistingNombres devuelve el subconjunto de nombres que ya están registrados.
	ExistingNombres(ctx context.Context, nombres []string) ([]string, error)
	List(ctx context.Context, filter ProductFilter, sort ProductSort, limit, offset int) ([]*entity.Producto, error)
	Count(ctx context.Context, filter ProductFilter) (int, error)
	Create(ctx context.Context, p entity.NuevoProducto) (*entity.Producto, error)
	// CreateMany inserta en una sola sentencia; con skipDuplicates omite nombres ya existentes.
	CreateMany(ctx context.Context, items []entity.NuevoProducto, skipDuplicates bool) (int, error)
	Update(ctx context.Context, id int64, cambios entity.CambiosProducto) (*entity.Producto, error)
	// AdjustStock suma delta al stock de forma atómica. Si el resultado fuese negativo
	// devuelve ErrStockInsuficiente sin modificar el registro.
	AdjustStock(ctx context.Context, id int64, delta int) (*entity.Producto, error)
	SetEstado(ctx context.Context, id int64, estado entity.Estado) (*entity.Producto, error)
	// ListLowStock productos activos con stock <= stock_minimo, de menor a mayor stock.
	ListLowStock(ctx context.Context) ([]*entity.Producto, error)
}

// ErrStockInsuficiente lo devuelve AdjustStock cuando la resta dejaría el stock negativo.
var ErrStockInsuficiente = domain.InvalidInput("Stock insuficiente para realizar la operación.")

// ProductFilter predicado común para List y Count.
type ProductFilter struct {
	Estado entity.Estado
	Nombre string // subcadena, sin distinguir mayúsculas; vacío = sin filtro
}

// SortField campo de ordenamiento permitido (conjunto cerrado).
type SortField int

const (
	SortByNombre SortField = iota
	SortByID
	SortByPrecio
	SortByStock
	SortByCreatedAt
	SortByUpdatedAt
)

var sortFieldNames = map[string]SortField{
	"id":        SortByID,
	"nombre":    SortByNombre,
	"precio":    SortByPrecio,
	"stock":     SortByStock,
	"createdAt": SortByCreatedAt,
	"updatedAt": SortByUpdatedAt,
}

// ParseSortField traduce el parámetro `ordenarPor`; vacío = nombre.
func ParseSortField(s string) (SortField, error) {
	if s == "" {
		return SortByNombre, nil
	}
	f, ok := sortFieldNames[s]
	if !ok {
		return 0, domain.InvalidInput("ordenarPor debe ser uno de: id, nombre, precio, stock, createdAt, updatedAt")
	}
	return f, nil
}

func (f SortField) String() string {
	for name, v := range sortFieldNames {
		if v == f {
			return name
		}
	}
	return fmt.Sprintf("SortField(%d)", int(f))
}

// SortDirection dirección de ordenamiento.
type SortDirection int

const (
	Asc SortDirection = iota
	Desc
)

// ParseSortDirection traduce el parámetro `orden`; vacío = asc.
func ParseSortDirection(s string) (SortDirection, error) {
	switch s {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return 0, domain.InvalidInput("orden debe ser 'asc' o 'desc'")
	}
}

// ProductSort criterio de ordenamiento de List.
type ProductSort struct {
	Field     SortField
	Direction SortDirection
}
