package dto

import "github.com/shopspring/decimal"

type AjustarStockRequest struct {
	Delta  decimal.Decimal `json:"delta"  validate:"required"`
	Motivo string          `json:"motivo" validate:"required,min=3"`
}

type StockResponse struct {
	SucursalID string          `json:"sucursal_id"`
	ProductoID string          `json:"producto_id"`
	Producto   string          `json:"producto"`
	Cantidad   decimal.Decimal `json:"cantidad"`
}

type StockFilter struct {
	Buscar string `form:"buscar"`
	Paginacion
}

// MovimientoFilter is bound from GET /v1/sucursales/:id/movimientos.
type MovimientoFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	Tipo       string `form:"tipo"        validate:"omitempty,oneof=venta compra ajuste_manual restore_anulacion"`
	Paginacion
}

type MovimientoStockResponse struct {
	ID            string          `json:"id"`
	SucursalID    string          `json:"sucursal_id"`
	ProductoID    string          `json:"producto_id"`
	Tipo          string          `json:"tipo"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	StockAnterior decimal.Decimal `json:"stock_anterior"`
	StockNuevo    decimal.Decimal `json:"stock_nuevo"`
	Motivo        string          `json:"motivo"`
	ReferenciaID  *string         `json:"referencia_id"`
	CreatedAt     string          `json:"created_at"`
}
