package repository

import (
	"context"

	"rackpos/internal/dto"
	"rackpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for products and their
// selling units. Services depend on this interface, not on the concrete GORM
// implementation.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	UpdateTx(tx *gorm.DB, p *model.Producto) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// FindManyTx loads products with their measurement unit and selling units.
	FindManyTx(tx *gorm.DB, ids []uuid.UUID) ([]model.Producto, error)

	CreateUnidadVenta(ctx context.Context, u *model.UnidadVenta) error
	ListUnidadesVenta(ctx context.Context, productoID uuid.UUID) ([]model.UnidadVenta, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Preload("UnidadMedida").
		Preload("UnidadesVenta", func(db *gorm.DB) *gorm.DB { return db.Order("factor_conversion ASC") }).
		Where("id = ?", id).First(&p).Error
	return &p, err
}

func (r *productoRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("codigo = ? AND activo = true", codigo).First(&p).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})

	// Activo filter: "false" = inactivos, "all" = todos, anything else = activos (default)
	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
	default:
		q = q.Where("activo = true")
	}

	if filter.Buscar != "" {
		like := "%" + filter.Buscar + "%"
		q = q.Where("codigo = ? OR nombre ILIKE ?", filter.Buscar, like)
	}
	if filter.ProveedorID != "" {
		q = q.Where("proveedor_id = ?", filter.ProveedorID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(filter.Offset()).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) UpdateTx(tx *gorm.DB, p *model.Producto) error {
	return tx.Omit("UnidadMedida", "Proveedor", "UnidadesVenta").Save(p).Error
}

func (r *productoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *productoRepo) FindManyTx(tx *gorm.DB, ids []uuid.UUID) ([]model.Producto, error) {
	var productos []model.Producto
	err := tx.Preload("UnidadMedida").Preload("UnidadesVenta").
		Where("id IN ?", ids).Find(&productos).Error
	return productos, err
}

func (r *productoRepo) CreateUnidadVenta(ctx context.Context, u *model.UnidadVenta) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *productoRepo) ListUnidadesVenta(ctx context.Context, productoID uuid.UUID) ([]model.UnidadVenta, error) {
	var unidades []model.UnidadVenta
	err := r.db.WithContext(ctx).Where("producto_id = ?", productoID).
		Order("factor_conversion ASC").Find(&unidades).Error
	return unidades, err
}
