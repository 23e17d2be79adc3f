package usecase

import (
	"context"
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/productos-api/internal/application/dto"
	"github.com/jhoicas/productos-api/internal/domain"
	"github.com/jhoicas/productos-api/internal/domain/entity"
	"github.com/jhoicas/productos-api/internal/domain/inventory"
)

// DecreaseStock descuenta cantidad (parte entera) del stock y envía como máximo una alerta:
// sin stock si llega a 0, stock bajo si queda en o bajo el mínimo.
// Si la alerta falla el descuento ya quedó guardado y se devuelve ErrUpstream.
func (uc *ProductUseCase) DecreaseStock(ctx context.Context, id int64, cantidad decimal.Decimal) (*dto.ProductResponse, error) {
	current, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	n, err := checkCantidad(cantidad)
	if err != nil {
		return nil, err
	}
	if n > current.Stock {
		return nil, domain.InvalidInput("Stock insuficiente: disponible %d, solicitado %d.", current.Stock, n)
	}

	updated, err := uc.repo.AdjustStock(ctx, id, -n)
	if err != nil {
		return nil, notFoundByID(err, id)
	}
	uc.log.Info().Int64("producto_id", id).Int("cantidad", n).Int("stock", updated.Stock).Msg("stock descontado")

	if err := uc.alertar(ctx, inventory.AlertaPorDisminucion(updated.Stock, updated.StockMinimo), updated); err != nil {
		return nil, err
	}
	return toProductResponse(updated), nil
}

// IncreaseStock suma cantidad (parte entera) al stock. Alerta de reposición solo
// cuando el stock pasa de estar en o bajo el mínimo a quedar por encima.
func (uc *ProductUseCase) IncreaseStock(ctx context.Context, id int64, cantidad decimal.Decimal) (*dto.ProductResponse, error) {
	n, err := checkCantidad(cantidad)
	if err != nil {
		return nil, err
	}
	if _, err := uc.find(ctx, id); err != nil {
		return nil, err
	}

	updated, err := uc.repo.AdjustStock(ctx, id, n)
	if err != nil {
		return nil, notFoundByID(err, id)
	}
	anterior := updated.Stock - n
	uc.log.Info().Int64("producto_id", id).Int("cantidad", n).Int("stock", updated.Stock).Msg("stock aumentado")

	if err := uc.alertar(ctx, inventory.AlertaPorAumento(anterior, updated.Stock, updated.StockMinimo), updated); err != nil {
		return nil, err
	}
	return toProductResponse(updated), nil
}

// LowStock productos activos en o bajo su stock mínimo.
func (uc *ProductUseCase) LowStock(ctx context.Context) (*dto.LowStockResponse, error) {
	list, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.LowStockResponse{Total: len(list), Datos: toProductResponses(list)}, nil
}

// LowStockReport genera el reporte PDF de LowStock.
func (uc *ProductUseCase) LowStockReport(ctx context.Context) ([]byte, error) {
	list, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return uc.report.GenerateLowStockReport(ctx, list, uc.now())
}

func (uc *ProductUseCase) alertar(ctx context.Context, tipo inventory.TipoAlerta, p *entity.Producto) error {
	if tipo == inventory.SinAlerta {
		return nil
	}
	if err := uc.notifier.Send(ctx, inventory.MensajeAlerta(tipo, p)); err != nil {
		uc.log.Error().Err(err).
			Int64("producto_id", p.ID).
			Str("alerta", tipo.String()).
			Msg("no se pudo enviar la alerta de stock")
		return domain.Upstream(err, "El stock del producto %d se actualizó a %d, pero no se pudo enviar la alerta (%s).", p.ID, p.Stock, tipo)
	}
	uc.log.Info().Int64("producto_id", p.ID).Str("alerta", tipo.String()).Msg("alerta de stock enviada")
	return nil
}

// checkCantidad trunca a entero y exige un valor positivo que quepa en la columna de stock.
func checkCantidad(cantidad decimal.Decimal) (int, error) {
	n := cantidad.IntPart()
	if n <= 0 {
		return 0, domain.InvalidInput("La cantidad debe ser un número mayor que 0.")
	}
	if n > math.MaxInt32 {
		return 0, domain.InvalidInput("La cantidad excede el máximo permitido (%d).", math.MaxInt32)
	}
	return int(n), nil
}
