package repository

import (
	"context"

	"rackpos/internal/dto"
	"rackpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CuentaRepository interface {
	CreateTx(tx *gorm.DB, c *model.Cuenta) error
	NextNumeroTx(tx *gorm.DB) (int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cuenta, error)
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Cuenta, error)
	UpdateSaldoTx(tx *gorm.DB, c *model.Cuenta) error
	CreatePagoTx(tx *gorm.DB, p *model.CuentaPago) error
	ListPagos(ctx context.Context, cuentaID uuid.UUID) ([]model.CuentaPago, error)
	List(ctx context.Context, filter dto.TransaccionFilter) ([]model.Cuenta, int64, error)
	DB() *gorm.DB
}

type cuentaRepo struct{ db *gorm.DB }

func NewCuentaRepository(db *gorm.DB) CuentaRepository { return &cuentaRepo{db: db} }

func (r *cuentaRepo) DB() *gorm.DB { return r.db }

func (r *cuentaRepo) CreateTx(tx *gorm.DB, c *model.Cuenta) error {
	return tx.Omit("Proveedor", "Pagos", "Detalles.Producto").Create(c).Error
}

func (r *cuentaRepo) NextNumeroTx(tx *gorm.DB) (int, error) {
	var num int
	err := tx.Raw("SELECT nextval('cuentas_numero_seq')").Scan(&num).Error
	return num, err
}

func (r *cuentaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cuenta, error) {
	var c model.Cuenta
	err := r.db.WithContext(ctx).
		Preload("Proveedor").
		Preload("Detalles.Producto").
		Preload("Pagos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Pagos.TasaCambio").
		Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *cuentaRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Cuenta, error) {
	var c model.Cuenta
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *cuentaRepo) UpdateSaldoTx(tx *gorm.DB, c *model.Cuenta) error {
	return tx.Model(&model.Cuenta{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"total_paid_usd": c.TotalPagadoUSD,
		"estado":         c.Estado,
	}).Error
}

func (r *cuentaRepo) CreatePagoTx(tx *gorm.DB, p *model.CuentaPago) error {
	return tx.Omit("TasaCambio").Create(p).Error
}

func (r *cuentaRepo) ListPagos(ctx context.Context, cuentaID uuid.UUID) ([]model.CuentaPago, error) {
	var pagos []model.CuentaPago
	err := r.db.WithContext(ctx).Preload("TasaCambio").
		Where("cuenta_id = ?", cuentaID).Order("created_at ASC").Find(&pagos).Error
	return pagos, err
}

func (r *cuentaRepo) List(ctx context.Context, filter dto.TransaccionFilter) ([]model.Cuenta, int64, error) {
	var cuentas []model.Cuenta
	var total int64

	q := applyTransaccionFilter(r.db.WithContext(ctx).Model(&model.Cuenta{}), filter, "proveedor_id")
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Proveedor").
		Order("created_at DESC").
		Offset(filter.Offset()).Limit(filter.Limit).
		Find(&cuentas).Error
	return cuentas, total, err
}
