package ports

import (
	"context"
	"time"

	"github.com/jhoicas/productos-api/internal/domain/entity"
)

// Notifier puerto de salida para las alertas de stock (Telegram, cola, mock).
// Send no reintenta: un error se reporta tal cual al caso de uso.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// StockReportGenerator genera el reporte de productos con stock bajo (PDF u otro formato binario).
type StockReportGenerator interface {
	GenerateLowStockReport(ctx context.Context, productos []*entity.Producto, generado time.Time) ([]byte, error)
}
