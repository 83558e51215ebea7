package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// TransaccionFilter is bound from the query string of GET /v1/ventas and /v1/cuentas.
type TransaccionFilter struct {
	SucursalID string `form:"sucursal_id"`
	TerceroID  string `form:"tercero_id"` // cliente_id for ventas, proveedor_id for cuentas
	Estado     string `form:"estado"`     // pendiente | pagada | anulada | "" = all
	Desde      string `form:"desde"`      // YYYY-MM-DD
	Hasta      string `form:"hasta"`      // YYYY-MM-DD
	Paginacion
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemRequest struct {
	ProductoID    string          `json:"producto_id"     validate:"required,uuid"`
	Cantidad      decimal.Decimal `json:"cantidad"        validate:"gt=0"`
	UnidadVentaID *string         `json:"unidad_venta_id" validate:"omitempty,uuid"`
	// PrecioUnitario is only honoured for cuentas (purchase cost); sale prices
	// are always computed server side.
	PrecioUnitario *decimal.Decimal `json:"precio_unitario"`
}

type CrearVentaRequest struct {
	SucursalID string        `json:"sucursal_id" validate:"required,uuid"`
	ClienteID  string        `json:"cliente_id"  validate:"required,uuid"`
	Items      []ItemRequest `json:"items"       validate:"required,min=1,dive"`
}

type CrearCuentaRequest struct {
	SucursalID  string        `json:"sucursal_id"  validate:"required,uuid"`
	ProveedorID string        `json:"proveedor_id" validate:"required,uuid"`
	Items       []ItemRequest `json:"items"        validate:"required,min=1,dive"`
}

type RegistrarPagoRequest struct {
	Moneda       string          `json:"moneda"         validate:"required,oneof=USD VES"`
	Monto        decimal.Decimal `json:"monto"          validate:"gt=0"`
	MetodoPago   string          `json:"metodo_pago"    validate:"required,oneof=efectivo transferencia pago_movil punto zelle"`
	DescuentoPct decimal.Decimal `json:"descuento_pct"  validate:"gte=0,lt=100"`
	TasaCambioID *string         `json:"tasa_cambio_id" validate:"omitempty,uuid"`
}

type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleResponse struct {
	ProductoID       string          `json:"producto_id"`
	Producto         string          `json:"producto"`
	UnidadVentaID    *string         `json:"unidad_venta_id"`
	UnidadVenta      *string         `json:"unidad_venta"`
	Cantidad         decimal.Decimal `json:"cantidad"`
	FactorConversion decimal.Decimal `json:"factor_conversion"`
	PrecioUnitario   decimal.Decimal `json:"precio_unitario"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

type PagoResponse struct {
	ID           string           `json:"id"`
	Moneda       string           `json:"moneda"`
	Monto        decimal.Decimal  `json:"monto"`
	MontoUSD     decimal.Decimal  `json:"monto_usd"`
	MetodoPago   string           `json:"metodo_pago"`
	DescuentoPct decimal.Decimal  `json:"descuento_pct"`
	TasaCambioID *string          `json:"tasa_cambio_id"`
	TasaBCV      *decimal.Decimal `json:"tasa_bcv,omitempty"`
	CreatedAt    string           `json:"created_at"`
}

// TransaccionResponse is shared by ventas and cuentas. TerceroID is the
// cliente (ventas) or proveedor (cuentas).
type TransaccionResponse struct {
	ID             string            `json:"id"`
	Numero         int               `json:"numero"`
	SucursalID     string            `json:"sucursal_id"`
	TerceroID      string            `json:"tercero_id"`
	Tercero        string            `json:"tercero"`
	TotalUSD       decimal.Decimal   `json:"total_amount_usd"`
	TotalPagadoUSD decimal.Decimal   `json:"total_paid_usd"`
	PendienteUSD   decimal.Decimal   `json:"pending_usd"`
	Sobrepago      bool              `json:"sobrepago"`
	Estado         string            `json:"estado"`
	Detalles       []DetalleResponse `json:"detalles,omitempty"`
	Pagos          []PagoResponse    `json:"pagos,omitempty"`
	CreatedAt      string            `json:"created_at"`
}
