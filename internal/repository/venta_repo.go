package repository

import (
	"context"

	"rackpos/internal/dto"
	"rackpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	NextNumeroTx(tx *gorm.DB) (int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	// FindForUpdateTx locks the sale row for the rest of the tx.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error)
	UpdateSaldoTx(tx *gorm.DB, v *model.Venta) error
	CreatePagoTx(tx *gorm.DB, p *model.VentaPago) error
	ListPagos(ctx context.Context, ventaID uuid.UUID) ([]model.VentaPago, error)
	ListDetalles(ctx context.Context, ventaID uuid.UUID) ([]model.VentaDetalle, error)
	List(ctx context.Context, filter dto.TransaccionFilter) ([]model.Venta, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

// CreateTx inserts the sale and its Detalles in one statement batch.
func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Omit("Cliente", "Sucursal", "Usuario", "Pagos", "Detalles.Producto", "Detalles.UnidadVenta").Create(v).Error
}

func (r *ventaRepo) NextNumeroTx(tx *gorm.DB) (int, error) {
	var num int
	err := tx.Raw("SELECT nextval('ventas_numero_seq')").Scan(&num).Error
	return num, err
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Detalles.Producto").Preload("Detalles.UnidadVenta").
		Preload("Pagos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Pagos.TasaCambio").
		Where("id = ?", id).First(&v).Error
	return &v, err
}

func (r *ventaRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&v).Error
	return &v, err
}

func (r *ventaRepo) UpdateSaldoTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Model(&model.Venta{}).Where("id = ?", v.ID).Updates(map[string]interface{}{
		"total_paid_usd": v.TotalPagadoUSD,
		"estado":         v.Estado,
	}).Error
}

func (r *ventaRepo) CreatePagoTx(tx *gorm.DB, p *model.VentaPago) error {
	return tx.Omit("TasaCambio").Create(p).Error
}

func (r *ventaRepo) ListPagos(ctx context.Context, ventaID uuid.UUID) ([]model.VentaPago, error) {
	var pagos []model.VentaPago
	err := r.db.WithContext(ctx).Preload("TasaCambio").
		Where("venta_id = ?", ventaID).Order("created_at ASC").Find(&pagos).Error
	return pagos, err
}

func (r *ventaRepo) ListDetalles(ctx context.Context, ventaID uuid.UUID) ([]model.VentaDetalle, error) {
	var detalles []model.VentaDetalle
	err := r.db.WithContext(ctx).Preload("Producto").Preload("UnidadVenta").
		Where("venta_id = ?", ventaID).Find(&detalles).Error
	return detalles, err
}

func (r *ventaRepo) List(ctx context.Context, filter dto.TransaccionFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	q := applyTransaccionFilter(r.db.WithContext(ctx).Model(&model.Venta{}), filter, "cliente_id")
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Cliente").
		Order("created_at DESC").
		Offset(filter.Offset()).Limit(filter.Limit).
		Find(&ventas).Error
	return ventas, total, err
}

// applyTransaccionFilter is shared by ventas and cuentas; terceroCol names the
// counterparty column.
func applyTransaccionFilter(q *gorm.DB, filter dto.TransaccionFilter, terceroCol string) *gorm.DB {
	if filter.SucursalID != "" {
		q = q.Where("sucursal_id = ?", filter.SucursalID)
	}
	if filter.TerceroID != "" {
		q = q.Where(terceroCol+" = ?", filter.TerceroID)
	}
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Desde != "" {
		q = q.Where("DATE(created_at) >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("DATE(created_at) <= ?", filter.Hasta)
	}
	return q
}
