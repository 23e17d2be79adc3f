package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/productos-api/internal/application/dto"
	"github.com/jhoicas/productos-api/internal/application/usecase"
	"github.com/jhoicas/productos-api/internal/domain"
	"github.com/jhoicas/productos-api/pkg/logger"
)

// ProductHandler maneja las peticiones HTTP de /productos.
type ProductHandler struct {
	uc  *usecase.ProductUseCase
	log *logger.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, log *logger.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar productos activos
// @Tags         productos
// @Produce      json
// @Param        pagina      query  int     false  "Página (1-100)"  default(1)
// @Param        limite      query  int     false  "Tamaño de página"  default(10)
// @Param        buscar      query  string  false  "Filtro por nombre (mín. 2 caracteres)"
// @Param        activo      query  bool    false  "true = activos, false = inactivos"
// @Param        ordenarPor  query  string  false  "id, nombre, precio, stock, createdAt, updatedAt"
// @Param        orden       query  string  false  "asc o desc"
// @Success      200  {object}  dto.ProductListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/productos [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	in, err := listParams(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListInactive godoc
// @Summary      Listar productos inactivos
// @Tags         productos
// @Produce      json
// @Param        pagina  query  int     false  "Página"
// @Param        limite  query  int     false  "Tamaño de página"
// @Param        buscar  query  string  false  "Filtro por nombre"
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/v1/productos/inactivos [get]
func (h *ProductHandler) ListInactive(c *fiber.Ctx) error {
	in, err := listParams(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.ListInactive(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         productos
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/productos/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear producto
// @Tags         productos
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/productos [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, h.log, invalidBody(err))
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateMany godoc
// @Summary      Crear varios productos
// @Tags         productos
// @Accept       json
// @Produce      json
// @Param        body  body  []dto.CreateProductRequest  true  "Hasta 100 productos"
// @Success      201   {object}  dto.CreateManyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/productos/muchos [post]
func (h *ProductHandler) CreateMany(c *fiber.Ctx) error {
	var in []dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, h.log, invalidBody(err))
	}
	out, err := h.uc.CreateMany(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Description  Solo nombre, descripcion y precio. Stock y estado tienen rutas propias.
// @Tags         productos
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/productos/{id} [patch]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, h.log, invalidBody(err))
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Eliminar producto (borrado lógico)
// @Tags         productos
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/productos/{id} [delete]
func (h *ProductHandler) Deactivate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Deactivate(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Restore godoc
// @Summary      Restaurar producto eliminado
// @Tags         productos
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/productos/restaurar/{id} [patch]
func (h *ProductHandler) Restore(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Restore(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// DecreaseStock godoc
// @Summary      Disminuir stock
// @Description  Alerta por Telegram si el stock queda en 0 o en/bajo el mínimo. 502 si la alerta falla (el descuento queda guardado).
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.StockAdjustmentRequest  true  "Cantidad"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/v1/productos/{id}/stock/disminuir [patch]
func (h *ProductHandler) DecreaseStock(c *fiber.Ctx) error {
	id, in, err := stockParams(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.DecreaseStock(c.UserContext(), id, in.Cantidad)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// IncreaseStock godoc
// @Summary      Aumentar stock
// @Description  Alerta de reposición cuando el stock supera el mínimo.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.StockAdjustmentRequest  true  "Cantidad"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/v1/productos/{id}/stock/aumentar [patch]
func (h *ProductHandler) IncreaseStock(c *fiber.Ctx) error {
	id, in, err := stockParams(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.IncreaseStock(c.UserContext(), id, in.Cantidad)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Tags         stock
// @Produce      json
// @Success      200  {object}  dto.LowStockResponse
// @Router       /api/v1/productos/stock-bajo [get]
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// LowStockReport godoc
// @Summary      Reporte PDF de stock bajo
// @Tags         stock
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/v1/productos/stock-bajo/reporte [get]
func (h *ProductHandler) LowStockReport(c *fiber.Ctx) error {
	doc, err := h.uc.LowStockReport(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="stock-bajo.pdf"`)
	return c.Send(doc)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func parseID(c *fiber.Ctx) (int64, error) {
	raw := c.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.InvalidInput("El valor '%s' no es un ID válido", raw)
	}
	return id, nil
}

// listParams lee la query. Valores numéricos no válidos cuentan como no enviados.
func listParams(c *fiber.Ctx) (dto.ListProductsRequest, error) {
	in := dto.ListProductsRequest{
		Pagina:     queryInt(c, "pagina"),
		Limite:     queryInt(c, "limite"),
		Buscar:     c.Query("buscar"),
		OrdenarPor: c.Query("ordenarPor"),
		Orden:      c.Query("orden"),
	}
	if raw := c.Query("activo"); raw != "" {
		activo, err := strconv.ParseBool(raw)
		if err != nil {
			return in, domain.InvalidInput("activo debe ser true o false")
		}
		in.Activo = &activo
	}
	return in, nil
}

// queryInt devuelve nil si el parámetro falta o no es un entero.
func queryInt(c *fiber.Ctx, key string) *int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return nil
	}
	return &n
}

func stockParams(c *fiber.Ctx) (int64, dto.StockAdjustmentRequest, error) {
	var in dto.StockAdjustmentRequest
	id, err := parseID(c)
	if err != nil {
		return 0, in, err
	}
	if err := c.BodyParser(&in); err != nil {
		return 0, in, invalidBody(err)
	}
	return id, in, nil
}

func invalidBody(err error) error {
	return domain.WrapError(domain.ErrInvalidInput, err, "Cuerpo de la solicitud inválido: %v", err)
}
