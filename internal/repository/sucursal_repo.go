package repository

import (
	"context"

	"rackpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SucursalRepository interface {
	Create(ctx context.Context, s *model.Sucursal) error
	CreateTx(tx *gorm.DB, s *model.Sucursal) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sucursal, error)
	List(ctx context.Context, offset, limit int) ([]model.Sucursal, int64, error)
	Update(ctx context.Context, s *model.Sucursal) error
}

type sucursalRepo struct{ db *gorm.DB }

func NewSucursalRepository(db *gorm.DB) SucursalRepository { return &sucursalRepo{db: db} }

func (r *sucursalRepo) Create(ctx context.Context, s *model.Sucursal) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sucursalRepo) CreateTx(tx *gorm.DB, s *model.Sucursal) error {
	return tx.Create(s).Error
}

func (r *sucursalRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sucursal, error) {
	var s model.Sucursal
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	return &s, err
}

func (r *sucursalRepo) List(ctx context.Context, offset, limit int) ([]model.Sucursal, int64, error) {
	var sucursales []model.Sucursal
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Sucursal{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("nombre ASC").Offset(offset).Limit(limit).Find(&sucursales).Error
	return sucursales, total, err
}

func (r *sucursalRepo) Update(ctx context.Context, s *model.Sucursal) error {
	return r.db.WithContext(ctx).Save(s).Error
}
