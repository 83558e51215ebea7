package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is the customer side of a Venta (receivable).
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"index;not null"`
	Documento string    `gorm:"uniqueIndex;not null"` // cédula or RIF
	Telefono  *string
	Email     *string
	Direccion *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
