package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/productos-api/internal/application/usecase"
	"github.com/jhoicas/productos-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC *usecase.ProductUseCase
	Log       *logger.Logger
	AppName   string
	APIPrefix string // sin barras, ej. "api/v1"
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/" + deps.APIPrefix)

	// Rutas fijas antes de /:id.
	products := api.Group("/productos")
	h := NewProductHandler(deps.ProductUC, log)
	products.Get("/", h.List)
	products.Get("/inactivos", h.ListInactive)
	products.Get("/stock-bajo", h.LowStock)
	products.Get("/stock-bajo/reporte", h.LowStockReport)
	products.Post("/", h.Create)
	products.Post("/muchos", h.CreateMany)
	products.Patch("/restaurar/:id", h.Restore)
	products.Get("/:id", h.GetByID)
	products.Patch("/:id", h.Update)
	products.Delete("/:id", h.Deactivate)
	products.Patch("/:id/stock/disminuir", h.DecreaseStock)
	products.Patch("/:id/stock/aumentar", h.IncreaseStock)
}
