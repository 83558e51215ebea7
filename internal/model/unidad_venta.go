package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnidadVenta is an alternate unit a product can be sold in (caja, bulto…).
// One UnidadVenta equals FactorConversion base units of the product.
type UnidadVenta struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID       uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_producto_unidad;not null"`
	Nombre           string          `gorm:"uniqueIndex:idx_producto_unidad;not null"`
	FactorConversion decimal.Decimal `gorm:"type:decimal(12,3);not null"`
}

func (UnidadVenta) TableName() string { return "unidades_venta" }
