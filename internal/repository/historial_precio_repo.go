package repository

import (
	"context"

	"rackpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistorialPrecioRepository stores one row per cost, margin or VAT change.
type HistorialPrecioRepository interface {
	CreateTx(tx *gorm.DB, h *model.HistorialPrecio) error
	ListByProducto(ctx context.Context, productoID uuid.UUID, offset, limit int) ([]model.HistorialPrecio, int64, error)
}

type historialPrecioRepo struct{ db *gorm.DB }

func NewHistorialPrecioRepository(db *gorm.DB) HistorialPrecioRepository {
	return &historialPrecioRepo{db: db}
}

func (r *historialPrecioRepo) CreateTx(tx *gorm.DB, h *model.HistorialPrecio) error {
	return tx.Create(h).Error
}

func (r *historialPrecioRepo) ListByProducto(ctx context.Context, productoID uuid.UUID, offset, limit int) ([]model.HistorialPrecio, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.HistorialPrecio{}).Where("producto_id = ?", productoID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.HistorialPrecio
	err := base.Scopes(recientes, paginar(offset, limit)).Find(&rows).Error
	return rows, total, err
}
