package infra

import (
	"fmt"

	"rackpos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the Postgres connection, runs AutoMigrate and then the
// idempotent patches GORM cannot express (sequences, partial indexes, checks).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations migrates every model and applies the schema patches.
// Integration tests call it against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.Empresa{},
		&model.Sucursal{},
		&model.Usuario{},
		&model.Cliente{},
		&model.Proveedor{},
		&model.UnidadMedida{},
		&model.Producto{},
		&model.UnidadVenta{},
		&model.StockSucursal{},
		&model.MovimientoStock{},
		&model.HistorialPrecio{},
		&model.TasaCambio{},
		&model.Venta{},
		&model.VentaDetalle{},
		&model.VentaPago{},
		&model.Cuenta{},
		&model.CuentaDetalle{},
		&model.CuentaPago{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs DDL that AutoMigrate does not handle. Every
// statement is guarded so re-running on a patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"ventas numero sequence", `CREATE SEQUENCE IF NOT EXISTS ventas_numero_seq START 1`},
		{"cuentas numero sequence", `CREATE SEQUENCE IF NOT EXISTS cuentas_numero_seq START 1`},
		{"pending ventas index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_ventas_pendientes') THEN
    CREATE INDEX idx_ventas_pendientes ON ventas (sucursal_id, created_at) WHERE estado = 'pendiente';
  END IF;
END $$`},
		{"pending cuentas index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_cuentas_pendientes') THEN
    CREATE INDEX idx_cuentas_pendientes ON cuentas (sucursal_id, created_at) WHERE estado = 'pendiente';
  END IF;
END $$`},
		{"pago moneda check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_venta_pagos_moneda') THEN
    ALTER TABLE venta_pagos ADD CONSTRAINT chk_venta_pagos_moneda CHECK (moneda IN ('USD', 'VES'));
  END IF;
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_cuenta_pagos_moneda') THEN
    ALTER TABLE cuenta_pagos ADD CONSTRAINT chk_cuenta_pagos_moneda CHECK (moneda IN ('USD', 'VES'));
  END IF;
END $$`},
		{"stock non-negative check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_stock_no_negativo') THEN
    ALTER TABLE stock_sucursales ADD CONSTRAINT chk_stock_no_negativo CHECK (cantidad >= 0);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
