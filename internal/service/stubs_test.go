package service_test

import (
	"context"
	"sort"
	"time"

	"rackpos/internal/dto"
	"rackpos/internal/model"
	"rackpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// Every stub returns gorm.ErrRecordNotFound for missing rows so services map
// it the same way they do against Postgres. DB() returns nil, which makes
// runTx call the closure directly.

type stubVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta
	pagos  []model.VentaPago
	seq    int
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	for i := range v.Detalles {
		v.Detalles[i].ID = uuid.New()
		v.Detalles[i].VentaID = v.ID
	}
	cp := *v
	cp.Detalles = append([]model.VentaDetalle(nil), v.Detalles...)
	r.ventas[v.ID] = &cp
	return nil
}

func (r *stubVentaRepo) NextNumeroTx(_ *gorm.DB) (int, error) {
	r.seq++
	return r.seq, nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *stubVentaRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubVentaRepo) UpdateSaldoTx(_ *gorm.DB, v *model.Venta) error {
	cur, ok := r.ventas[v.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cur.TotalPagadoUSD = v.TotalPagadoUSD
	cur.Estado = v.Estado
	return nil
}

func (r *stubVentaRepo) CreatePagoTx(_ *gorm.DB, p *model.VentaPago) error {
	p.ID = uuid.New()
	r.pagos = append(r.pagos, *p)
	return nil
}

func (r *stubVentaRepo) ListPagos(_ context.Context, ventaID uuid.UUID) ([]model.VentaPago, error) {
	var out []model.VentaPago
	for _, p := range r.pagos {
		if p.VentaID == ventaID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubVentaRepo) ListDetalles(_ context.Context, ventaID uuid.UUID) ([]model.VentaDetalle, error) {
	v, ok := r.ventas[ventaID]
	if !ok {
		return nil, nil
	}
	return v.Detalles, nil
}

func (r *stubVentaRepo) List(_ context.Context, filter dto.TransaccionFilter) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if filter.Estado != "" && v.Estado != filter.Estado {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Numero < out[j].Numero })
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

type stubCuentaRepo struct {
	cuentas map[uuid.UUID]*model.Cuenta
	pagos   []model.CuentaPago
	seq     int
}

func newStubCuentaRepo() *stubCuentaRepo {
	return &stubCuentaRepo{cuentas: make(map[uuid.UUID]*model.Cuenta)}
}

func (r *stubCuentaRepo) CreateTx(_ *gorm.DB, c *model.Cuenta) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.cuentas[c.ID] = &cp
	return nil
}

func (r *stubCuentaRepo) NextNumeroTx(_ *gorm.DB) (int, error) {
	r.seq++
	return r.seq, nil
}

func (r *stubCuentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cuenta, error) {
	c, ok := r.cuentas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCuentaRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Cuenta, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubCuentaRepo) UpdateSaldoTx(_ *gorm.DB, c *model.Cuenta) error {
	cur, ok := r.cuentas[c.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cur.TotalPagadoUSD = c.TotalPagadoUSD
	cur.Estado = c.Estado
	return nil
}

func (r *stubCuentaRepo) CreatePagoTx(_ *gorm.DB, p *model.CuentaPago) error {
	p.ID = uuid.New()
	r.pagos = append(r.pagos, *p)
	return nil
}

func (r *stubCuentaRepo) ListPagos(_ context.Context, cuentaID uuid.UUID) ([]model.CuentaPago, error) {
	var out []model.CuentaPago
	for _, p := range r.pagos {
		if p.CuentaID == cuentaID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubCuentaRepo) List(_ context.Context, _ dto.TransaccionFilter) ([]model.Cuenta, int64, error) {
	var out []model.Cuenta
	for _, c := range r.cuentas {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCuentaRepo) DB() *gorm.DB { return nil }

var _ repository.CuentaRepository = (*stubCuentaRepo)(nil)

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
	unidades  []model.UnidadVenta
}

func newStubProductoRepo(ps ...*model.Producto) *stubProductoRepo {
	r := &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
	for _, p := range ps {
		r.productos[p.ID] = p
	}
	return r
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) FindByCodigo(_ context.Context, codigo string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.Codigo == codigo {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) UpdateTx(_ *gorm.DB, p *model.Producto) error {
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = false
	return nil
}

func (r *stubProductoRepo) FindManyTx(_ *gorm.DB, ids []uuid.UUID) ([]model.Producto, error) {
	var out []model.Producto
	for _, id := range ids {
		if p, ok := r.productos[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) CreateUnidadVenta(_ context.Context, u *model.UnidadVenta) error {
	u.ID = uuid.New()
	r.unidades = append(r.unidades, *u)
	return nil
}

func (r *stubProductoRepo) ListUnidadesVenta(_ context.Context, productoID uuid.UUID) ([]model.UnidadVenta, error) {
	var out []model.UnidadVenta
	for _, u := range r.unidades {
		if u.ProductoID == productoID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

type stockKey struct{ sucursal, producto uuid.UUID }

type stubStockRepo struct {
	qty map[stockKey]decimal.Decimal
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{qty: make(map[stockKey]decimal.Decimal)}
}

func (r *stubStockRepo) set(sucursalID, productoID uuid.UUID, v decimal.Decimal) {
	r.qty[stockKey{sucursalID, productoID}] = v
}

func (r *stubStockRepo) Get(_ context.Context, sucursalID, productoID uuid.UUID) (decimal.Decimal, error) {
	return r.qty[stockKey{sucursalID, productoID}], nil
}

func (r *stubStockRepo) GetMany(_ context.Context, sucursalID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	out := make(map[uuid.UUID]decimal.Decimal, len(ids))
	for _, id := range ids {
		out[id] = r.qty[stockKey{sucursalID, id}]
	}
	return out, nil
}

func (r *stubStockRepo) List(_ context.Context, sucursalID uuid.UUID, _ dto.StockFilter) ([]model.StockSucursal, int64, error) {
	var out []model.StockSucursal
	for k, v := range r.qty {
		if k.sucursal == sucursalID {
			out = append(out, model.StockSucursal{SucursalID: k.sucursal, ProductoID: k.producto, Cantidad: v})
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubStockRepo) LockTx(_ *gorm.DB, sucursalID, productoID uuid.UUID) (decimal.Decimal, error) {
	return r.qty[stockKey{sucursalID, productoID}], nil
}

func (r *stubStockRepo) SetTx(_ *gorm.DB, sucursalID, productoID uuid.UUID, cantidad decimal.Decimal) error {
	r.qty[stockKey{sucursalID, productoID}] = cantidad
	return nil
}

func (r *stubStockRepo) DB() *gorm.DB { return nil }

var _ repository.StockRepository = (*stubStockRepo)(nil)

type stubMovRepo struct {
	movs []model.MovimientoStock
}

func (r *stubMovRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	m.ID = uuid.New()
	r.movs = append(r.movs, *m)
	return nil
}

func (r *stubMovRepo) List(_ context.Context, f repository.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	var out []model.MovimientoStock
	for _, m := range r.movs {
		if m.SucursalID != f.SucursalID {
			continue
		}
		if f.ProductoID != nil && m.ProductoID != *f.ProductoID {
			continue
		}
		if f.Tipo != "" && m.Tipo != f.Tipo {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

var _ repository.MovimientoStockRepository = (*stubMovRepo)(nil)

type stubHistorialRepo struct {
	rows []model.HistorialPrecio
}

func (r *stubHistorialRepo) CreateTx(_ *gorm.DB, h *model.HistorialPrecio) error {
	h.ID = uuid.New()
	r.rows = append(r.rows, *h)
	return nil
}

func (r *stubHistorialRepo) ListByProducto(_ context.Context, productoID uuid.UUID, _, _ int) ([]model.HistorialPrecio, int64, error) {
	var out []model.HistorialPrecio
	for _, h := range r.rows {
		if h.ProductoID == productoID {
			out = append(out, h)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.HistorialPrecioRepository = (*stubHistorialRepo)(nil)

type stubUnidadRepo struct {
	unidades map[uuid.UUID]*model.UnidadMedida
}

func newStubUnidadRepo(us ...*model.UnidadMedida) *stubUnidadRepo {
	r := &stubUnidadRepo{unidades: make(map[uuid.UUID]*model.UnidadMedida)}
	for _, u := range us {
		r.unidades[u.ID] = u
	}
	return r
}

func (r *stubUnidadRepo) Create(_ context.Context, u *model.UnidadMedida) error {
	u.ID = uuid.New()
	r.unidades[u.ID] = u
	return nil
}

func (r *stubUnidadRepo) CreateTx(_ *gorm.DB, u *model.UnidadMedida) error {
	return r.Create(context.Background(), u)
}

func (r *stubUnidadRepo) FindByID(_ context.Context, id uuid.UUID) (*model.UnidadMedida, error) {
	u, ok := r.unidades[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUnidadRepo) List(_ context.Context) ([]model.UnidadMedida, error) {
	var out []model.UnidadMedida
	for _, u := range r.unidades {
		out = append(out, *u)
	}
	return out, nil
}

var _ repository.UnidadMedidaRepository = (*stubUnidadRepo)(nil)

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo(cs ...*model.Cliente) *stubClienteRepo {
	r := &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
	for _, c := range cs {
		r.clientes[c.ID] = c
	}
	return r
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	c.ID = uuid.New()
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubClienteRepo) List(_ context.Context, _ dto.ClienteFilter) ([]model.Cliente, int64, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	delete(r.clientes, id)
	return nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

type stubProveedorRepo struct {
	proveedores map[uuid.UUID]*model.Proveedor
}

func (r *stubProveedorRepo) Create(_ context.Context, p *model.Proveedor) error {
	p.ID = uuid.New()
	r.proveedores[p.ID] = p
	return nil
}

func (r *stubProveedorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Proveedor, error) {
	p, ok := r.proveedores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProveedorRepo) List(_ context.Context, _ dto.ProveedorFilter) ([]model.Proveedor, int64, error) {
	var out []model.Proveedor
	for _, p := range r.proveedores {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProveedorRepo) Update(_ context.Context, p *model.Proveedor) error {
	r.proveedores[p.ID] = p
	return nil
}

func (r *stubProveedorRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	delete(r.proveedores, id)
	return nil
}

var _ repository.ProveedorRepository = (*stubProveedorRepo)(nil)

type stubSucursalRepo struct {
	sucursales map[uuid.UUID]*model.Sucursal
}

func newStubSucursalRepo(ss ...*model.Sucursal) *stubSucursalRepo {
	r := &stubSucursalRepo{sucursales: make(map[uuid.UUID]*model.Sucursal)}
	for _, s := range ss {
		r.sucursales[s.ID] = s
	}
	return r
}

func (r *stubSucursalRepo) Create(_ context.Context, s *model.Sucursal) error {
	s.ID = uuid.New()
	r.sucursales[s.ID] = s
	return nil
}

func (r *stubSucursalRepo) CreateTx(_ *gorm.DB, s *model.Sucursal) error {
	return r.Create(context.Background(), s)
}

func (r *stubSucursalRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sucursal, error) {
	s, ok := r.sucursales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSucursalRepo) List(_ context.Context, _, _ int) ([]model.Sucursal, int64, error) {
	var out []model.Sucursal
	for _, s := range r.sucursales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSucursalRepo) Update(_ context.Context, s *model.Sucursal) error {
	r.sucursales[s.ID] = s
	return nil
}

var _ repository.SucursalRepository = (*stubSucursalRepo)(nil)

type stubTasaRepo struct {
	tasas []model.TasaCambio
}

func mismoDia(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

func (r *stubTasaRepo) Create(_ context.Context, t *model.TasaCambio) error {
	t.ID = uuid.New()
	r.tasas = append(r.tasas, *t)
	return nil
}

func (r *stubTasaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.TasaCambio, error) {
	for i := range r.tasas {
		if r.tasas[i].ID == id {
			return &r.tasas[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTasaRepo) FindByFecha(_ context.Context, fecha time.Time) (*model.TasaCambio, error) {
	for i := range r.tasas {
		if mismoDia(r.tasas[i].Fecha, fecha) {
			return &r.tasas[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTasaRepo) Latest(_ context.Context, fecha time.Time) (*model.TasaCambio, error) {
	var best *model.TasaCambio
	for i := range r.tasas {
		t := &r.tasas[i]
		if t.Fecha.After(fecha) {
			continue
		}
		if best == nil || t.Fecha.After(best.Fecha) {
			best = t
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (r *stubTasaRepo) List(_ context.Context, _, _ int) ([]model.TasaCambio, int64, error) {
	return r.tasas, int64(len(r.tasas)), nil
}

var _ repository.TasaRepository = (*stubTasaRepo)(nil)

type stubUsuarioRepo struct {
	users map[string]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{users: make(map[string]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	u.ID = uuid.New()
	r.users[u.Username] = u
	return nil
}

func (r *stubUsuarioRepo) CreateTx(_ *gorm.DB, u *model.Usuario) error {
	return r.Create(context.Background(), u)
}

func (r *stubUsuarioRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	u, ok := r.users[username]
	if !ok || !u.Activo {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) List(_ context.Context, _, _ int) ([]model.Usuario, int64, error) {
	var out []model.Usuario
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.users[u.Username] = u
	return nil
}

func (r *stubUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	for _, u := range r.users {
		if u.ID == id {
			u.Activo = false
		}
	}
	return nil
}

func (r *stubUsuarioRepo) DB() *gorm.DB { return nil }

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

type stubEmpresaRepo struct {
	empresa *model.Empresa
}

func (r *stubEmpresaRepo) Get(_ context.Context) (*model.Empresa, error) {
	if r.empresa == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.empresa, nil
}

func (r *stubEmpresaRepo) Save(_ context.Context, e *model.Empresa) error {
	r.empresa = e
	return nil
}

func (r *stubEmpresaRepo) CreateTx(_ *gorm.DB, e *model.Empresa) error {
	r.empresa = e
	return nil
}

var _ repository.EmpresaRepository = (*stubEmpresaRepo)(nil)
