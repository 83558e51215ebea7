package model

import "github.com/google/uuid"

// UnidadMedida is the base measurement unit of a product (kg, litro, unidad…).
// PermiteDecimales governs whether quantities may be fractional.
type UnidadMedida struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre           string    `gorm:"uniqueIndex;not null"`
	Abreviatura      string    `gorm:"type:varchar(10);not null"`
	PermiteDecimales bool      `gorm:"not null;default:false"`
}

func (UnidadMedida) TableName() string { return "unidades_medida" }
