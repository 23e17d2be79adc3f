// Package memory implementa los puertos de persistencia en memoria (STORAGE=memory y tests).
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/productos-api/internal/domain"
	"github.com/jhoicas/productos-api/internal/domain/entity"
	"github.com/jhoicas/productos-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository con las mismas
// señales que el adaptador PostgreSQL (nombre único, stock no negativo).
type ProductRepo struct {
	mu       sync.RWMutex
	products map[int64]entity.Producto
	nextID   int64
	now      func() time.Time
}

// NewProductRepository crea un repositorio vacío.
func NewProductRepository() *ProductRepo {
	return &ProductRepo{
		products: make(map[int64]entity.Producto),
		now:      time.Now,
	}
}

func notFound() error {
	return domain.NotFound("No se encontró el registro (Producto).")
}

func duplicate() error {
	return domain.Conflict("Ya existe un registro duplicado (Producto).")
}

// GetByID devuelve una copia del producto.
func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Producto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, notFound()
	}
	return clone(p), nil
}

func (r *ProductRepo) GetByNombre(_ context.Context, nombre string) (*entity.Producto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.Nombre == nombre {
			return clone(p), nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) ExistingNombres(_ context.Context, nombres []string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for _, n := range nombres {
		if r.nombreTaken(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter, sort repository.ProductSort, limit, offset int) ([]*entity.Producto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.filter(filter)
	slices.SortFunc(matched, func(a, b *entity.Producto) int {
		c := compareBy(sort.Field, a, b)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if sort.Direction == repository.Desc {
			return -c
		}
		return c
	})
	if offset >= len(matched) {
		return []*entity.Producto{}, nil
	}
	end := min(offset+limit, len(matched))
	return matched[offset:end], nil
}

func (r *ProductRepo) Count(_ context.Context, filter repository.ProductFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.filter(filter)), nil
}

func (r *ProductRepo) Create(_ context.Context, np entity.NuevoProducto) (*entity.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nombreTaken(np.Nombre) {
		return nil, duplicate()
	}
	return clone(r.insert(np)), nil
}

func (r *ProductRepo) CreateMany(_ context.Context, items []entity.NuevoProducto, skipDuplicates bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !skipDuplicates {
		seen := make(map[string]bool, len(items))
		for _, np := range items {
			if seen[np.Nombre] || r.nombreTaken(np.Nombre) {
				return 0, duplicate()
			}
			seen[np.Nombre] = true
		}
	}
	created := 0
	for _, np := range items {
		if r.nombreTaken(np.Nombre) {
			continue
		}
		r.insert(np)
		created++
	}
	return created, nil
}

func (r *ProductRepo) Update(_ context.Context, id int64, cambios entity.CambiosProducto) (*entity.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, notFound()
	}
	if cambios.Nombre != nil {
		for otherID, other := range r.products {
			if otherID != id && other.Nombre == *cambios.Nombre {
				return nil, duplicate()
			}
		}
		p.Nombre = *cambios.Nombre
	}
	if cambios.Descripcion != nil {
		p.Descripcion = copyString(cambios.Descripcion)
	}
	if cambios.Precio != nil {
		p.Precio = *cambios.Precio
	}
	p.UpdatedAt = r.now()
	r.products[id] = p
	return clone(p), nil
}

func (r *ProductRepo) AdjustStock(_ context.Context, id int64, delta int) (*entity.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, notFound()
	}
	if p.Stock+delta < 0 {
		return nil, repository.ErrStockInsuficiente
	}
	p.Stock += delta
	p.UpdatedAt = r.now()
	r.products[id] = p
	return clone(p), nil
}

func (r *ProductRepo) SetEstado(_ context.Context, id int64, estado entity.Estado) (*entity.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, notFound()
	}
	p.Estado = estado
	p.UpdatedAt = r.now()
	r.products[id] = p
	return clone(p), nil
}

func (r *ProductRepo) ListLowStock(_ context.Context) ([]*entity.Producto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.Producto
	for _, p := range r.products {
		if p.Estado == entity.EstadoActivo && p.Stock <= p.StockMinimo {
			out = append(out, clone(p))
		}
	}
	slices.SortFunc(out, func(a, b *entity.Producto) int {
		return cmp.Or(cmp.Compare(a.Stock, b.Stock), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

// insert requiere r.mu tomado en escritura.
func (r *ProductRepo) insert(np entity.NuevoProducto) entity.Producto {
	r.nextID++
	now := r.now()
	p := entity.Producto{
		ID:          r.nextID,
		Nombre:      np.Nombre,
		Descripcion: copyString(np.Descripcion),
		Precio:      np.Precio,
		Stock:       np.Stock,
		StockMinimo: np.StockMinimo,
		Estado:      entity.EstadoActivo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.products[p.ID] = p
	return p
}

func (r *ProductRepo) nombreTaken(nombre string) bool {
	for _, p := range r.products {
		if p.Nombre == nombre {
			return true
		}
	}
	return false
}

func (r *ProductRepo) filter(f repository.ProductFilter) []*entity.Producto {
	needle := strings.ToLower(f.Nombre)
	out := make([]*entity.Producto, 0, len(r.products))
	for _, p := range r.products {
		if p.Estado != f.Estado {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Nombre), needle) {
			continue
		}
		out = append(out, clone(p))
	}
	return out
}

func compareBy(f repository.SortField, a, b *entity.Producto) int {
	switch f {
	case repository.SortByID:
		return cmp.Compare(a.ID, b.ID)
	case repository.SortByPrecio:
		return a.Precio.Cmp(b.Precio)
	case repository.SortByStock:
		return cmp.Compare(a.Stock, b.Stock)
	case repository.SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case repository.SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return cmp.Compare(a.Nombre, b.Nombre)
	}
}

// clone devuelve una copia que no comparte la descripción con el mapa.
func clone(p entity.Producto) *entity.Producto {
	p.Descripcion = copyString(p.Descripcion)
	return &p
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
