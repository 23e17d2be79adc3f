package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/productos-api/internal/application/dto"
	"github.com/jhoicas/productos-api/internal/application/ports"
	"github.com/jhoicas/productos-api/internal/application/validation"
	"github.com/jhoicas/productos-api/internal/domain"
	"github.com/jhoicas/productos-api/internal/domain/entity"
	"github.com/jhoicas/productos-api/internal/domain/repository"
	"github.com/jhoicas/productos-api/pkg/logger"
)

// MaxBatchSize máximo de productos por carga masiva.
const MaxBatchSize = 100

// ProductConfig límites de paginación aplicados por el caso de uso.
type ProductConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// ProductUseCase reglas de negocio del catálogo: listados, CRUD, borrado lógico y stock.
// Stock y StockMinimo solo cambian vía DecreaseStock / IncreaseStock.
type ProductUseCase struct {
	repo     repository.ProductRepository
	notifier ports.Notifier
	report   ports.StockReportGenerator
	cfg      ProductConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	notifier ports.Notifier,
	report ports.StockReportGenerator,
	cfg ProductConfig,
	log *logger.Logger,
) *ProductUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{
		repo:     repo,
		notifier: notifier,
		report:   report,
		cfg:      cfg,
		log:      log.Named("productos"),
		now:      time.Now,
	}
}

// List devuelve una página de productos. Sin resultados no es un error: la respuesta
// trae Datos vacío y un Mensaje informativo.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ListProductsRequest) (*dto.ProductListResponse, error) {
	page := dto.PageRequest{Pagina: in.Pagina, Limite: in.Limite}.Normalize(uc.cfg.DefaultPageSize, uc.cfg.MaxPageSize)

	buscar := validation.NormalizeText(in.Buscar)
	if buscar != "" && utf8.RuneCountInString(buscar) < 2 {
		return nil, domain.InvalidInput("El término de búsqueda debe tener al menos 2 caracteres")
	}
	field, err := repository.ParseSortField(in.OrdenarPor)
	if err != nil {
		return nil, err
	}
	dir, err := repository.ParseSortDirection(in.Orden)
	if err != nil {
		return nil, err
	}

	filter := repository.ProductFilter{Estado: entity.EstadoActivo, Nombre: buscar}
	if in.Activo != nil {
		filter.Estado = entity.EstadoDesdeActivo(*in.Activo)
	}
	sort := repository.ProductSort{Field: field, Direction: dir}

	var (
		productos []*entity.Producto
		total     int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		productos, err = uc.repo.List(gctx, filter, sort, page.Limite, page.Offset())
		return err
	})
	g.Go(func() error {
		var err error
		total, err = uc.repo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.ProductListResponse{
		Total:        total,
		Pagina:       page.Pagina,
		Limite:       page.Limite,
		TotalPaginas: dto.TotalPaginas(total, page.Limite),
		Datos:        toProductResponses(productos),
	}
	if total == 0 {
		out.Mensaje = mensajeSinResultados(filter)
	}
	return out, nil
}

// ListInactive igual que List pero sobre los productos desactivados.
func (uc *ProductUseCase) ListInactive(ctx context.Context, in dto.ListProductsRequest) (*dto.ProductListResponse, error) {
	inactivo := false
	in.Activo = &inactivo
	return uc.List(ctx, in)
}

func mensajeSinResultados(f repository.ProductFilter) string {
	if f.Nombre != "" {
		return fmt.Sprintf("No se encontraron productos que coincidan con '%s'.", f.Nombre)
	}
	if f.Estado == entity.EstadoInactivo {
		return "No hay productos inactivos registrados."
	}
	return "No hay productos activos registrados."
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	p, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Create crea un producto activo. El nombre no puede repetirse, ni siquiera con un inactivo.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	nuevo, err := prepareNuevo(in)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByNombre(ctx, nuevo.Nombre)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("El producto '%s' ya existe.", nuevo.Nombre)
	}
	p, err := uc.repo.Create(ctx, nuevo)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("producto_id", p.ID).Str("nombre", p.Nombre).Msg("producto creado")
	return toProductResponse(p), nil
}

// CreateMany carga varios productos en una sola inserción tras validar el lote completo.
func (uc *ProductUseCase) CreateMany(ctx context.Context, items []dto.CreateProductRequest) (*dto.CreateManyResponse, error) {
	if len(items) == 0 {
		return nil, domain.InvalidInput("Debe enviar al menos un producto.")
	}
	if len(items) > MaxBatchSize {
		return nil, domain.InvalidInput("No se pueden crear más de %d productos por solicitud (recibidos %d).", MaxBatchSize, len(items))
	}

	nuevos := make([]entity.NuevoProducto, 0, len(items))
	nombres := make([]string, 0, len(items))
	posicion := make(map[string]int, len(items))
	for i, in := range items {
		nuevo, err := prepareNuevo(in)
		if err != nil {
			return nil, domain.WrapError(domain.ErrInvalidInput, err, "producto[%d]: %s", i, err.Error())
		}
		if j, dup := posicion[nuevo.Nombre]; dup {
			return nil, domain.InvalidInput("El nombre '%s' está repetido en la solicitud (posiciones %d y %d).", nuevo.Nombre, j, i)
		}
		posicion[nuevo.Nombre] = i
		nuevos = append(nuevos, nuevo)
		nombres = append(nombres, nuevo.Nombre)
	}

	existentes, err := uc.repo.ExistingNombres(ctx, nombres)
	if err != nil {
		return nil, err
	}
	if len(existentes) > 0 {
		return nil, domain.Conflict("Ya existen productos con los nombres: %s.", strings.Join(existentes, ", "))
	}

	creados, err := uc.repo.CreateMany(ctx, nuevos, true)
	if err != nil {
		return nil, err
	}
	if omitidos := len(nuevos) - creados; omitidos > 0 {
		uc.log.Warn().Int("omitidos", omitidos).Msg("carga masiva omitió nombres duplicados")
	}
	uc.log.Info().Int("creados", creados).Msg("carga masiva de productos")
	return &dto.CreateManyResponse{
		Creados: creados,
		Mensaje: fmt.Sprintf("Se crearon %d productos.", creados),
	}, nil
}

// Update aplica cambios parciales. Stock, stock mínimo y estado tienen operaciones propias.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if in.Stock != nil || in.StockMinimo != nil {
		return nil, domain.InvalidInput("El stock y el stock mínimo solo se modifican con las operaciones de ajuste de stock.")
	}
	if in.Activo != nil {
		return nil, domain.InvalidInput("El estado solo se modifica con las operaciones de eliminar y restaurar.")
	}
	if in.Nombre != nil {
		nombre := validation.NormalizeText(*in.Nombre)
		in.Nombre = &nombre
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	current, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	cambios := entity.CambiosProducto{Nombre: in.Nombre, Descripcion: in.Descripcion, Precio: in.Precio}
	if cambios.Vacio() {
		return toProductResponse(current), nil
	}
	if cambios.Nombre != nil && *cambios.Nombre != current.Nombre {
		other, err := uc.repo.GetByNombre(ctx, *cambios.Nombre)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, domain.Conflict("El producto '%s' ya existe.", *cambios.Nombre)
		}
	}

	p, err := uc.repo.Update(ctx, id, cambios)
	if err != nil {
		return nil, notFoundByID(err, id)
	}
	return toProductResponse(p), nil
}

// Deactivate borrado lógico. Falla si el producto ya está inactivo.
func (uc *ProductUseCase) Deactivate(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	current, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	switch current.Estado {
	case entity.EstadoInactivo:
		return nil, domain.InvalidInput("El producto con ID %d ya está inactivo.", id)
	case entity.EstadoActivo:
	default:
		return nil, fmt.Errorf("producto %d: estado desconocido %q", id, current.Estado)
	}
	p, err := uc.repo.SetEstado(ctx, id, entity.EstadoInactivo)
	if err != nil {
		return nil, notFoundByID(err, id)
	}
	uc.log.Info().Int64("producto_id", id).Msg("producto eliminado")
	return toProductResponse(p), nil
}

// Restore reactiva un producto. Falla si ya está activo.
func (uc *ProductUseCase) Restore(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	current, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	switch current.Estado {
	case entity.EstadoActivo:
		return nil, domain.InvalidInput("El producto con ID %d ya está activo.", id)
	case entity.EstadoInactivo:
	default:
		return nil, fmt.Errorf("producto %d: estado desconocido %q", id, current.Estado)
	}
	p, err := uc.repo.SetEstado(ctx, id, entity.EstadoActivo)
	if err != nil {
		return nil, notFoundByID(err, id)
	}
	uc.log.Info().Int64("producto_id", id).Msg("producto restaurado")
	return toProductResponse(p), nil
}

// find valida el ID y busca el producto; NotFound con mensaje por ID.
func (uc *ProductUseCase) find(ctx context.Context, id int64) (*entity.Producto, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundByID(err, id)
	}
	return p, nil
}

func checkID(id int64) error {
	if id <= 0 {
		return domain.InvalidInput("El ID debe ser un número válido y mayor que 0")
	}
	return nil
}

func notFoundByID(err error, id int64) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.WrapError(domain.ErrNotFound, err, "Producto con ID %d no encontrado", id)
	}
	return err
}

func prepareNuevo(in dto.CreateProductRequest) (entity.NuevoProducto, error) {
	in.Nombre = validation.NormalizeText(in.Nombre)
	if err := validation.Struct(in); err != nil {
		return entity.NuevoProducto{}, err
	}
	nuevo := entity.NuevoProducto{
		Nombre:      in.Nombre,
		Descripcion: in.Descripcion,
		Precio:      in.Precio,
	}
	if in.Stock != nil {
		nuevo.Stock = *in.Stock
	}
	if in.StockMinimo != nil {
		nuevo.StockMinimo = *in.StockMinimo
	}
	return nuevo, nil
}

func toProductResponse(p *entity.Producto) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Precio:      p.Precio,
		Stock:       p.Stock,
		StockMinimo: p.StockMinimo,
		Activo:      p.Estado.Activo(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductResponses(list []*entity.Producto) []dto.ProductResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items
}
