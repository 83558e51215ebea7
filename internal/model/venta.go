package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados shared by Venta and Cuenta.
const (
	EstadoPendiente = "pendiente"
	EstadoPagada    = "pagada"
	EstadoAnulada   = "anulada"
)

// Venta is a receivable against a Cliente. Amounts are in USD.
type Venta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero         int             `gorm:"uniqueIndex;not null"`
	SucursalID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	ClienteID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	UsuarioID      uuid.UUID       `gorm:"type:uuid;not null"`
	TotalUSD       decimal.Decimal `gorm:"column:total_amount_usd;type:decimal(14,2);not null"`
	TotalPagadoUSD decimal.Decimal `gorm:"column:total_paid_usd;type:decimal(14,2);not null;default:0"`
	Estado         string          `gorm:"type:varchar(20);not null;default:'pendiente'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Cliente  *Cliente       `gorm:"foreignKey:ClienteID"`
	Sucursal *Sucursal      `gorm:"foreignKey:SucursalID"`
	Usuario  *Usuario       `gorm:"foreignKey:UsuarioID"`
	Detalles []VentaDetalle `gorm:"foreignKey:VentaID"`
	Pagos    []VentaPago    `gorm:"foreignKey:VentaID"`
}

// Pendiente is total − paid. It may be negative (overpayment); callers surface that.
func (v *Venta) Pendiente() decimal.Decimal { return v.TotalUSD.Sub(v.TotalPagadoUSD) }

// VentaDetalle is one priced line. PrecioUnitario is per base unit and already
// includes margin and VAT; Subtotal = PrecioUnitario × Cantidad × FactorConversion.
type VentaDetalle struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID          uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoID       uuid.UUID       `gorm:"type:uuid;not null"`
	UnidadVentaID    *uuid.UUID      `gorm:"type:uuid"`
	Cantidad         decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	FactorConversion decimal.Decimal `gorm:"type:decimal(12,3);not null;default:1"`
	PrecioUnitario   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(14,2);not null"`

	Producto    *Producto    `gorm:"foreignKey:ProductoID"`
	UnidadVenta *UnidadVenta `gorm:"foreignKey:UnidadVentaID"`
}

// Pago holds the fields shared by sale and account payments.
// Payment rows are immutable once created.
type Pago struct {
	Moneda       string          `gorm:"type:varchar(3);not null"` // USD | VES
	Monto        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	MontoUSD     decimal.Decimal `gorm:"column:monto_usd;type:decimal(14,2);not null"`
	MetodoPago   string          `gorm:"type:varchar(20);not null"`
	DescuentoPct decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TasaCambioID *uuid.UUID      `gorm:"type:uuid"`
	UsuarioID    uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt    time.Time
}

// VentaPago is a payment registered against a Venta.
type VentaPago struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID uuid.UUID `gorm:"type:uuid;index;not null"`
	Pago    `gorm:"embedded"`

	TasaCambio *TasaCambio `gorm:"foreignKey:TasaCambioID"`
}
