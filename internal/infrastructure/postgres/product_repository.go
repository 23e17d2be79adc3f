package postgres

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/productos-api/internal/domain"
	"github.com/jhoicas/productos-api/internal/domain/entity"
	"github.com/jhoicas/productos-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productosTable = "productos"

var productColumns = []string{
	"id", "nombre", "descripcion", "precio", "stock", "stock_minimo", "activo", "created_at", "updated_at",
}

// sortColumns mapa cerrado SortField -> columna; nunca se interpola texto del cliente.
var sortColumns = map[repository.SortField]string{
	repository.SortByID:        "id",
	repository.SortByNombre:    "nombre",
	repository.SortByPrecio:    "precio",
	repository.SortByStock:     "stock",
	repository.SortByCreatedAt: "created_at",
	repository.SortByUpdatedAt: "updated_at",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Producto, error) {
	return r.getOne(ctx, psql.Select(productColumns...).From(productosTable).Where(sq.Eq{"id": id}), "get product")
}

// GetByNombre devuelve nil, nil si no existe.
func (r *ProductRepo) GetByNombre(ctx context.Context, nombre string) (*entity.Producto, error) {
	p, err := r.getOne(ctx, psql.Select(productColumns...).From(productosTable).Where(sq.Eq{"nombre": nombre}), "get product by nombre")
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

func (r *ProductRepo) ExistingNombres(ctx context.Context, nombres []string) ([]string, error) {
	if len(nombres) == 0 {
		return nil, nil
	}
	query, args, err := psql.Select("nombre").From(productosTable).
		Where(sq.Eq{"nombre": nombres}).
		OrderBy("nombre").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "existing nombres")
	}
	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, translateError(err, "existing nombres")
	}
	return out, nil
}

func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter, sort repository.ProductSort, limit, offset int) ([]*entity.Producto, error) {
	query, args, err := listQuery(filter, sort, limit, offset).ToSql()
	if err != nil {
		return nil, err
	}
	return r.getMany(ctx, query, args, "list products")
}

func (r *ProductRepo) Count(ctx context.Context, filter repository.ProductFilter) (int, error) {
	query, args, err := applyFilter(psql.Select("COUNT(*)").From(productosTable), filter).ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, translateError(err, "count products")
	}
	return n, nil
}

func (r *ProductRepo) Create(ctx context.Context, np entity.NuevoProducto) (*entity.Producto, error) {
	query, args, err := insertQuery([]entity.NuevoProducto{np}, false).
		Suffix("RETURNING " + strings.Join(productColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	p, err := scanProducto(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err, "insert product")
	}
	return p, nil
}

// CreateMany inserta en una sola sentencia. Con skipDuplicates los nombres ya
// existentes se omiten (ON CONFLICT DO NOTHING) y no cuentan como creados.
func (r *ProductRepo) CreateMany(ctx context.Context, items []entity.NuevoProducto, skipDuplicates bool) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	query, args, err := insertQuery(items, skipDuplicates).ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, translateError(err, "insert products")
	}
	return int(tag.RowsAffected()), nil
}

func (r *ProductRepo) Update(ctx context.Context, id int64, cambios entity.CambiosProducto) (*entity.Producto, error) {
	if cambios.Vacio() {
		return r.GetByID(ctx, id)
	}
	query, args, err := updateQuery(id, cambios).ToSql()
	if err != nil {
		return nil, err
	}
	p, err := scanProducto(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err, "update product")
	}
	return p, nil
}

// AdjustStock suma delta al stock en una sola sentencia condicionada a que el
// resultado no sea negativo; dos descuentos concurrentes no pueden dejarlo bajo cero.
func (r *ProductRepo) AdjustStock(ctx context.Context, id int64, delta int) (*entity.Producto, error) {
	query, args, err := adjustStockQuery(id, delta).ToSql()
	if err != nil {
		return nil, err
	}
	p, err := scanProducto(r.q.QueryRow(ctx, query, args...))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, translateError(err, "adjust stock")
	}
	// Sin fila: o no existe o la condición de stock falló.
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, repository.ErrStockInsuficiente
}

func (r *ProductRepo) SetEstado(ctx context.Context, id int64, estado entity.Estado) (*entity.Producto, error) {
	query, args, err := psql.Update(productosTable).
		Set("activo", estado.Activo()).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(productColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	p, err := scanProducto(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err, "set estado")
	}
	return p, nil
}

func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Producto, error) {
	query, args, err := lowStockQuery().ToSql()
	if err != nil {
		return nil, err
	}
	return r.getMany(ctx, query, args, "list low stock")
}

func (r *ProductRepo) getOne(ctx context.Context, b sq.SelectBuilder, op string) (*entity.Producto, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	p, err := scanProducto(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err, op)
	}
	return p, nil
}

func (r *ProductRepo) getMany(ctx context.Context, query string, args []any, op string) ([]*entity.Producto, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, op)
	}
	defer rows.Close()

	list := make([]*entity.Producto, 0)
	for rows.Next() {
		p, err := scanProducto(rows)
		if err != nil {
			return nil, translateError(err, op)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, op)
	}
	return list, nil
}

func scanProducto(row pgx.Row) (*entity.Producto, error) {
	var (
		p      entity.Producto
		activo bool
	)
	if err := row.Scan(&p.ID, &p.Nombre, &p.Descripcion, &p.Precio, &p.Stock, &p.StockMinimo,
		&activo, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Estado = entity.EstadoDesdeActivo(activo)
	return &p, nil
}

// Constructores de sentencias; separados para poder verificar el SQL sin base de datos.

func applyFilter(b sq.SelectBuilder, f repository.ProductFilter) sq.SelectBuilder {
	b = b.Where(sq.Eq{"activo": f.Estado.Activo()})
	if f.Nombre != "" {
		b = b.Where(sq.ILike{"nombre": "%" + escapeLike(f.Nombre) + "%"})
	}
	return b
}

func listQuery(f repository.ProductFilter, s repository.ProductSort, limit, offset int) sq.SelectBuilder {
	col, ok := sortColumns[s.Field]
	if !ok {
		col = "nombre"
	}
	dir := "ASC"
	if s.Direction == repository.Desc {
		dir = "DESC"
	}
	b := applyFilter(psql.Select(productColumns...).From(productosTable), f).
		OrderBy(col + " " + dir)
	if col != "id" {
		b = b.OrderBy("id ASC")
	}
	return b.Limit(uint64(limit)).Offset(uint64(offset))
}

func insertQuery(items []entity.NuevoProducto, skipDuplicates bool) sq.InsertBuilder {
	b := psql.Insert(productosTable).Columns("nombre", "descripcion", "precio", "stock", "stock_minimo")
	for _, np := range items {
		b = b.Values(np.Nombre, np.Descripcion, np.Precio, np.Stock, np.StockMinimo)
	}
	if skipDuplicates {
		b = b.Suffix("ON CONFLICT (nombre) DO NOTHING")
	}
	return b
}

func updateQuery(id int64, c entity.CambiosProducto) sq.UpdateBuilder {
	b := psql.Update(productosTable)
	if c.Nombre != nil {
		b = b.Set("nombre", *c.Nombre)
	}
	if c.Descripcion != nil {
		b = b.Set("descripcion", *c.Descripcion)
	}
	if c.Precio != nil {
		b = b.Set("precio", *c.Precio)
	}
	return b.Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(productColumns, ", "))
}

func adjustStockQuery(id int64, delta int) sq.UpdateBuilder {
	return psql.Update(productosTable).
		Set("stock", sq.Expr("stock + ?", delta)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Where(sq.Expr("stock + ? >= 0", delta)).
		Suffix("RETURNING " + strings.Join(productColumns, ", "))
}

func lowStockQuery() sq.SelectBuilder {
	return psql.Select(productColumns...).From(productosTable).
		Where(sq.Eq{"activo": true}).
		Where("stock <= stock_minimo").
		OrderBy("stock ASC", "id ASC")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
