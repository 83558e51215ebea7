package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistorialPrecio registra cada cambio de costo, margen o IVA de un producto.
// Los registros son inmutables; nunca se eliminan ni modifican.
type HistorialPrecio struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID     *uuid.UUID      `gorm:"type:uuid"`
	CostoAntes    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostoDespues  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MargenAntes   decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	MargenDespues decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	PrecioAntes   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioDespues decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Motivo        string          `gorm:"not null;default:'manual'"`
	CreatedAt     time.Time
}

func (HistorialPrecio) TableName() string { return "historial_precios" }
