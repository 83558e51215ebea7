package repository

import (
	"context"
	"errors"
	"time"

	"rackpos/internal/dto"
	"rackpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepository tracks per-branch quantities. A missing row means zero.
type StockRepository interface {
	Get(ctx context.Context, sucursalID, productoID uuid.UUID) (decimal.Decimal, error)
	GetMany(ctx context.Context, sucursalID uuid.UUID, productoIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	List(ctx context.Context, sucursalID uuid.UUID, filter dto.StockFilter) ([]model.StockSucursal, int64, error)

	// LockTx reads the quantity with SELECT … FOR UPDATE. Callers must be inside a tx.
	LockTx(tx *gorm.DB, sucursalID, productoID uuid.UUID) (decimal.Decimal, error)
	// SetTx upserts the quantity.
	SetTx(tx *gorm.DB, sucursalID, productoID uuid.UUID, cantidad decimal.Decimal) error

	DB() *gorm.DB
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) DB() *gorm.DB { return r.db }

func (r *stockRepo) Get(ctx context.Context, sucursalID, productoID uuid.UUID) (decimal.Decimal, error) {
	var s model.StockSucursal
	err := r.db.WithContext(ctx).
		Where("sucursal_id = ? AND producto_id = ?", sucursalID, productoID).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	return s.Cantidad, err
}

func (r *stockRepo) GetMany(ctx context.Context, sucursalID uuid.UUID, productoIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	out := make(map[uuid.UUID]decimal.Decimal, len(productoIDs))
	if len(productoIDs) == 0 {
		return out, nil
	}
	var rows []model.StockSucursal
	err := r.db.WithContext(ctx).
		Where("sucursal_id = ? AND producto_id IN ?", sucursalID, productoIDs).
		Find(&rows).Error
	for _, s := range rows {
		out[s.ProductoID] = s.Cantidad
	}
	return out, err
}

func (r *stockRepo) List(ctx context.Context, sucursalID uuid.UUID, filter dto.StockFilter) ([]model.StockSucursal, int64, error) {
	var rows []model.StockSucursal
	var total int64

	q := r.db.WithContext(ctx).Model(&model.StockSucursal{}).
		Joins("JOIN productos ON productos.id = stock_sucursales.producto_id").
		Where("stock_sucursales.sucursal_id = ? AND productos.activo = true", sucursalID)
	if filter.Buscar != "" {
		q = q.Where("productos.nombre ILIKE ? OR productos.codigo = ?", "%"+filter.Buscar+"%", filter.Buscar)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Producto").Order("productos.nombre ASC").
		Offset(filter.Offset()).Limit(filter.Limit).Find(&rows).Error
	return rows, total, err
}

func (r *stockRepo) LockTx(tx *gorm.DB, sucursalID, productoID uuid.UUID) (decimal.Decimal, error) {
	var s model.StockSucursal
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("sucursal_id = ? AND producto_id = ?", sucursalID, productoID).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	return s.Cantidad, err
}

func (r *stockRepo) SetTx(tx *gorm.DB, sucursalID, productoID uuid.UUID, cantidad decimal.Decimal) error {
	row := model.StockSucursal{SucursalID: sucursalID, ProductoID: productoID, Cantidad: cantidad}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sucursal_id"}, {Name: "producto_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"cantidad":   cantidad,
			"updated_at": time.Now(),
		}),
	}).Create(&row).Error
}
