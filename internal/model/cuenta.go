package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cuenta is a payable against a Proveedor (a purchase). Amounts are in USD.
// Creating a Cuenta adds its lines to branch stock.
type Cuenta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero         int             `gorm:"uniqueIndex;not null"`
	SucursalID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProveedorID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	UsuarioID      uuid.UUID       `gorm:"type:uuid;not null"`
	TotalUSD       decimal.Decimal `gorm:"column:total_amount_usd;type:decimal(14,2);not null"`
	TotalPagadoUSD decimal.Decimal `gorm:"column:total_paid_usd;type:decimal(14,2);not null;default:0"`
	Estado         string          `gorm:"type:varchar(20);not null;default:'pendiente'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Proveedor *Proveedor      `gorm:"foreignKey:ProveedorID"`
	Detalles  []CuentaDetalle `gorm:"foreignKey:CuentaID"`
	Pagos     []CuentaPago    `gorm:"foreignKey:CuentaID"`
}

func (c *Cuenta) Pendiente() decimal.Decimal { return c.TotalUSD.Sub(c.TotalPagadoUSD) }

type CuentaDetalle struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CuentaID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoID       uuid.UUID       `gorm:"type:uuid;not null"`
	UnidadVentaID    *uuid.UUID      `gorm:"type:uuid"`
	Cantidad         decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	FactorConversion decimal.Decimal `gorm:"type:decimal(12,3);not null;default:1"`
	PrecioUnitario   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(14,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

type CuentaPago struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CuentaID uuid.UUID `gorm:"type:uuid;index;not null"`
	Pago     `gorm:"embedded"`

	TasaCambio *TasaCambio `gorm:"foreignKey:TasaCambioID"`
}
