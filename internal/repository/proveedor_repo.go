package repository

import (
	"context"

	"rackpos/internal/dto"
	"rackpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProveedorRepository persists suppliers. Deletion only deactivates, since
// cuentas keep referencing the row.
type ProveedorRepository interface {
	Create(ctx context.Context, p *model.Proveedor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error)
	List(ctx context.Context, filter dto.ProveedorFilter) ([]model.Proveedor, int64, error)
	Update(ctx context.Context, p *model.Proveedor) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type proveedorRepo struct{ db *gorm.DB }

func NewProveedorRepository(db *gorm.DB) ProveedorRepository { return &proveedorRepo{db: db} }

func (r *proveedorRepo) Create(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *proveedorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error) {
	var p model.Proveedor
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proveedorRepo) List(ctx context.Context, filter dto.ProveedorFilter) ([]model.Proveedor, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Proveedor{}).
		Scopes(activos, buscar(filter.Buscar, "razon_social", "rif"))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var proveedores []model.Proveedor
	err := q.Order("razon_social ASC").Scopes(paginar(filter.Offset(), filter.Limit)).Find(&proveedores).Error
	return proveedores, total, err
}

func (r *proveedorRepo) Update(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *proveedorRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Proveedor{}).Where("id = ?", id).Update("activo", false).Error
}
