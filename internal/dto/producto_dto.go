package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Codigo         string          `json:"codigo"           validate:"required,min=1,max=40"`
	Nombre         string          `json:"nombre"           validate:"required,min=2,max=120"`
	Descripcion    *string         `json:"descripcion"`
	PrecioCosto    decimal.Decimal `json:"precio_costo"     validate:"gte=0"`
	MargenPct      decimal.Decimal `json:"margen_pct"       validate:"gte=0"`
	IVA            bool            `json:"iva"`
	UnidadMedidaID string          `json:"unidad_medida_id" validate:"required,uuid"`
	ProveedorID    *string         `json:"proveedor_id"     validate:"omitempty,uuid"`
}

type ActualizarProductoRequest struct {
	Nombre         *string          `json:"nombre"           validate:"omitempty,min=2,max=120"`
	Descripcion    *string          `json:"descripcion"`
	PrecioCosto    *decimal.Decimal `json:"precio_costo"`
	MargenPct      *decimal.Decimal `json:"margen_pct"`
	IVA            *bool            `json:"iva"`
	UnidadMedidaID *string          `json:"unidad_medida_id" validate:"omitempty,uuid"`
	ProveedorID    *string          `json:"proveedor_id"     validate:"omitempty,uuid"`
}

type UnidadMedidaRequest struct {
	Nombre           string `json:"nombre"            validate:"required,min=1,max=40"`
	Abreviatura      string `json:"abreviatura"       validate:"required,min=1,max=10"`
	PermiteDecimales bool   `json:"permite_decimales"`
}

type UnidadVentaRequest struct {
	Nombre           string          `json:"nombre"            validate:"required,min=1,max=40"`
	FactorConversion decimal.Decimal `json:"factor_conversion" validate:"gt=0"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Buscar      string `form:"buscar"` // code or name
	ProveedorID string `form:"proveedor_id"`
	SucursalID  string `form:"sucursal_id"` // when set, responses include branch stock
	Activo      string `form:"activo"`      // "false" | "all" | default activos
	Paginacion
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UnidadMedidaResponse struct {
	ID               string `json:"id"`
	Nombre           string `json:"nombre"`
	Abreviatura      string `json:"abreviatura"`
	PermiteDecimales bool   `json:"permite_decimales"`
}

type UnidadVentaResponse struct {
	ID               string          `json:"id"`
	Nombre           string          `json:"nombre"`
	FactorConversion decimal.Decimal `json:"factor_conversion"`
}

type ProductoResponse struct {
	ID             string           `json:"id"`
	Codigo         string           `json:"codigo"`
	Nombre         string           `json:"nombre"`
	Descripcion    *string          `json:"descripcion"`
	PrecioCosto    decimal.Decimal  `json:"precio_costo"`
	MargenPct      decimal.Decimal  `json:"margen_pct"`
	IVA            bool             `json:"iva"`
	PrecioVenta    decimal.Decimal  `json:"precio_venta"`
	UnidadMedidaID string           `json:"unidad_medida_id"`
	ProveedorID    *string          `json:"proveedor_id"`
	Stock          *decimal.Decimal `json:"stock,omitempty"`
	Activo         bool             `json:"activo"`
}

// ProductoDetalleResponse is what a cart fetches after adding a product.
type ProductoDetalleResponse struct {
	ProductoID    string                `json:"producto_id"`
	UnidadMedida  UnidadMedidaResponse  `json:"unidad_medida"`
	UnidadesVenta []UnidadVentaResponse `json:"unidades_venta"`
	Stock         *decimal.Decimal      `json:"stock,omitempty"`
}
