package model

import (
	"time"

	"github.com/google/uuid"
)

// Empresa holds the company settings shown on receipts and the settings screen.
// There is exactly one row per deployment.
type Empresa struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	RIF       string    `gorm:"column:rif;not null"`
	Direccion *string
	Telefono  *string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Empresa) TableName() string { return "empresas" }
