package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovVenta     = "venta"
	MovCompra    = "compra"
	MovAjuste    = "ajuste_manual"
	MovAnulacion = "restore_anulacion"
)

// MovimientoStock is one ledger entry of a branch's stock. Cantidad is signed
// (positive in, negative out) and always expressed in base units.
type MovimientoStock struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_mov_sucursal_producto"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_mov_sucursal_producto"`
	Tipo          string          `gorm:"type:varchar(20);not null"`
	Cantidad      decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	StockAnterior decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	StockNuevo    decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	Motivo        string
	ReferenciaID  *uuid.UUID `gorm:"type:uuid"` // venta or cuenta
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (MovimientoStock) TableName() string { return "movimientos_stock" }
