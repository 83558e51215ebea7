package repository

import (
	"context"

	"rackpos/internal/model"

	"gorm.io/gorm"
)

// EmpresaRepository reads and writes the single company-settings row.
type EmpresaRepository interface {
	Get(ctx context.Context) (*model.Empresa, error)
	Save(ctx context.Context, e *model.Empresa) error
	CreateTx(tx *gorm.DB, e *model.Empresa) error
}

type empresaRepo struct{ db *gorm.DB }

func NewEmpresaRepository(db *gorm.DB) EmpresaRepository { return &empresaRepo{db: db} }

func (r *empresaRepo) Get(ctx context.Context) (*model.Empresa, error) {
	var e model.Empresa
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&e).Error
	return &e, err
}

func (r *empresaRepo) Save(ctx context.Context, e *model.Empresa) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *empresaRepo) CreateTx(tx *gorm.DB, e *model.Empresa) error {
	return tx.Create(e).Error
}
