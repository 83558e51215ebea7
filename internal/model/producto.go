package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is priced from its cost: PrecioCosto × (1 + MargenPct/100), plus VAT
// when IVA is set. The selling price is never stored.
type Producto struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo         string    `gorm:"uniqueIndex;not null"`
	Nombre         string    `gorm:"index;not null"`
	Descripcion    *string
	PrecioCosto    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MargenPct      decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`
	IVA            bool            `gorm:"column:iva;not null;default:false"`
	UnidadMedidaID uuid.UUID       `gorm:"type:uuid;not null"`
	ProveedorID    *uuid.UUID      `gorm:"type:uuid;index"`
	Activo         bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	UnidadMedida  *UnidadMedida `gorm:"foreignKey:UnidadMedidaID"`
	Proveedor     *Proveedor    `gorm:"foreignKey:ProveedorID"`
	UnidadesVenta []UnidadVenta `gorm:"foreignKey:ProductoID"`
}
