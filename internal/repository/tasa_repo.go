package repository

import (
	"context"
	"time"

	"rackpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TasaRepository interface {
	Create(ctx context.Context, t *model.TasaCambio) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TasaCambio, error)
	FindByFecha(ctx context.Context, fecha time.Time) (*model.TasaCambio, error)
	// Latest returns the newest snapshot dated on or before fecha.
	Latest(ctx context.Context, fecha time.Time) (*model.TasaCambio, error)
	List(ctx context.Context, offset, limit int) ([]model.TasaCambio, int64, error)
}

type tasaRepo struct{ db *gorm.DB }

func NewTasaRepository(db *gorm.DB) TasaRepository { return &tasaRepo{db: db} }

func (r *tasaRepo) Create(ctx context.Context, t *model.TasaCambio) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tasaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TasaCambio, error) {
	var t model.TasaCambio
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	return &t, err
}

func (r *tasaRepo) FindByFecha(ctx context.Context, fecha time.Time) (*model.TasaCambio, error) {
	var t model.TasaCambio
	err := r.db.WithContext(ctx).Where("fecha = ?", fecha.Format("2006-01-02")).First(&t).Error
	return &t, err
}

func (r *tasaRepo) Latest(ctx context.Context, fecha time.Time) (*model.TasaCambio, error) {
	var t model.TasaCambio
	err := r.db.WithContext(ctx).Where("fecha <= ?", fecha.Format("2006-01-02")).
		Order("fecha DESC").First(&t).Error
	return &t, err
}

func (r *tasaRepo) List(ctx context.Context, offset, limit int) ([]model.TasaCambio, int64, error) {
	var tasas []model.TasaCambio
	var total int64
	q := r.db.WithContext(ctx).Model(&model.TasaCambio{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("fecha DESC").Offset(offset).Limit(limit).Find(&tasas).Error
	return tasas, total, err
}
