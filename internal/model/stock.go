package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockSucursal is the available quantity of a product in one branch,
// expressed in the product's base measurement unit.
type StockSucursal struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_stock_sucursal_producto;not null"`
	ProductoID uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_stock_sucursal_producto;not null"`
	Cantidad   decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	UpdatedAt  time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (StockSucursal) TableName() string { return "stock_sucursales" }
