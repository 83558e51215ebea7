package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TasaCambio is the daily snapshot of the official (BCV) and parallel
// VES-per-USD rates. Payments reference it by id for historical display.
type TasaCambio struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Fecha        time.Time       `gorm:"type:date;uniqueIndex;not null"`
	TasaBCV      decimal.Decimal `gorm:"column:tasa_bcv;type:decimal(14,4);not null"`
	TasaParalelo decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	Fuente       string          `gorm:"type:varchar(20);not null;default:'manual'"` // manual | automatica
	CreatedAt    time.Time
}

func (TasaCambio) TableName() string { return "tasas_cambio" }
