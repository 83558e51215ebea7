package repository

import (
	"context"

	"rackpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimientoStockFilter narrows the stock ledger of one branch.
type MovimientoStockFilter struct {
	SucursalID uuid.UUID
	ProductoID *uuid.UUID
	Tipo       string // see model.Mov* constants
	Offset     int
	Limit      int
}

func (f MovimientoStockFilter) scope(db *gorm.DB) *gorm.DB {
	db = db.Where("sucursal_id = ?", f.SucursalID)
	if f.ProductoID != nil {
		db = db.Where("producto_id = ?", *f.ProductoID)
	}
	if f.Tipo != "" {
		db = db.Where("tipo = ?", f.Tipo)
	}
	return db
}

// MovimientoStockRepository is append-only: movements are never edited.
type MovimientoStockRepository interface {
	CreateTx(tx *gorm.DB, m *model.MovimientoStock) error
	List(ctx context.Context, filter MovimientoStockFilter) ([]model.MovimientoStock, int64, error)
}

type movimientoStockRepo struct{ db *gorm.DB }

func NewMovimientoStockRepository(db *gorm.DB) MovimientoStockRepository {
	return &movimientoStockRepo{db: db}
}

func (r *movimientoStockRepo) CreateTx(tx *gorm.DB, m *model.MovimientoStock) error {
	return tx.Create(m).Error
}

func (r *movimientoStockRepo) List(ctx context.Context, filter MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.MovimientoStock{}).Scopes(filter.scope)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var movs []model.MovimientoStock
	err := base.Scopes(recientes, paginar(filter.Offset, filter.Limit)).Find(&movs).Error
	return movs, total, err
}
