package repository

import (
	"context"

	"rackpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UnidadMedidaRepository interface {
	Create(ctx context.Context, u *model.UnidadMedida) error
	CreateTx(tx *gorm.DB, u *model.UnidadMedida) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.UnidadMedida, error)
	List(ctx context.Context) ([]model.UnidadMedida, error)
}

type unidadMedidaRepo struct{ db *gorm.DB }

func NewUnidadMedidaRepository(db *gorm.DB) UnidadMedidaRepository {
	return &unidadMedidaRepo{db: db}
}

func (r *unidadMedidaRepo) Create(ctx context.Context, u *model.UnidadMedida) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *unidadMedidaRepo) CreateTx(tx *gorm.DB, u *model.UnidadMedida) error {
	return tx.Create(u).Error
}

func (r *unidadMedidaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.UnidadMedida, error) {
	var u model.UnidadMedida
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	return &u, err
}

func (r *unidadMedidaRepo) List(ctx context.Context) ([]model.UnidadMedida, error) {
	var unidades []model.UnidadMedida
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&unidades).Error
	return unidades, err
}
