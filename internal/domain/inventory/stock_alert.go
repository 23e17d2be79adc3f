package inventory

import (
	"fmt"

	"github.com/jhoicas/productos-api/internal/domain/entity"
)

// TipoAlerta clasifica la notificación que dispara un ajuste de stock.
type TipoAlerta int

const (
	SinAlerta TipoAlerta = iota
	AlertaSinStock
	AlertaStockBajo
	AlertaRepuesto
)

func (t TipoAlerta) String() string {
	switch t {
	case AlertaSinStock:
		return "sin_stock"
	case AlertaStockBajo:
		return "stock_bajo"
	case AlertaRepuesto:
		return "repuesto"
	default:
		return "ninguna"
	}
}

// AlertaPorDisminucion política tras descontar stock (servicio de dominio).
// Sin stock tiene prioridad sobre stock bajo; como máximo una alerta.
func AlertaPorDisminucion(nuevoStock, stockMinimo int) TipoAlerta {
	switch {
	case nuevoStock == 0:
		return AlertaSinStock
	case nuevoStock <= stockMinimo:
		return AlertaStockBajo
	default:
		return SinAlerta
	}
}

// AlertaPorAumento solo alerta cuando el stock cruza hacia arriba el umbral:
// anterior <= mínimo y nuevo > mínimo.
func AlertaPorAumento(stockAnterior, nuevoStock, stockMinimo int) TipoAlerta {
	if stockAnterior <= stockMinimo && nuevoStock > stockMinimo {
		return AlertaRepuesto
	}
	return SinAlerta
}

// MensajeAlerta texto enviado al canal de notificaciones.
func MensajeAlerta(t TipoAlerta, p *entity.Producto) string {
	switch t {
	case AlertaSinStock:
		return fmt.Sprintf("🚨 Sin stock: el producto '%s' (ID %d) se quedó sin unidades.", p.Nombre, p.ID)
	case AlertaStockBajo:
		return fmt.Sprintf("⚠️ Stock bajo: el producto '%s' (ID %d) tiene %d unidades (mínimo %d).",
			p.Nombre, p.ID, p.Stock, p.StockMinimo)
	case AlertaRepuesto:
		return fmt.Sprintf("✅ Stock repuesto: el producto '%s' (ID %d) tiene %d unidades (mínimo %d).",
			p.Nombre, p.ID, p.Stock, p.StockMinimo)
	default:
		return ""
	}
}
