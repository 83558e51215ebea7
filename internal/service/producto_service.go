package service

import (
	"context"
	"fmt"
	"time"

	"rackpos/internal/cache"
	"rackpos/internal/carrito"
	"rackpos/internal/dto"
	"rackpos/internal/model"
	"rackpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoService defines the business logic contract for products, their
// measurement units, selling units and price history.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, int64, error)
	Actualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error

	// Detalle returns what a cart needs after adding a product. Stock is
	// included when sucursalID is set.
	Detalle(ctx context.Context, id uuid.UUID, sucursalID *uuid.UUID) (*dto.ProductoDetalleResponse, error)
	CrearUnidadVenta(ctx context.Context, productoID uuid.UUID, req dto.UnidadVentaRequest) (*dto.UnidadVentaResponse, error)
	ListarUnidadesVenta(ctx context.Context, productoID uuid.UUID) ([]dto.UnidadVentaResponse, error)
	Historial(ctx context.Context, productoID uuid.UUID, p dto.Paginacion) ([]dto.HistorialPrecioItem, int64, error)

	CrearUnidadMedida(ctx context.Context, req dto.UnidadMedidaRequest) (*dto.UnidadMedidaResponse, error)
	ListarUnidadesMedida(ctx context.Context) ([]dto.UnidadMedidaResponse, error)
}

type productoService struct {
	repo          repository.ProductoRepository
	unidadRepo    repository.UnidadMedidaRepository
	stockRepo     repository.StockRepository
	historialRepo repository.HistorialPrecioRepository
	cache         cache.ListCache
}

func NewProductoService(
	repo repository.ProductoRepository,
	unidadRepo repository.UnidadMedidaRepository,
	stockRepo repository.StockRepository,
	historialRepo repository.HistorialPrecioRepository,
	c cache.ListCache,
) ProductoService {
	return &productoService{
		repo:          repo,
		unidadRepo:    unidadRepo,
		stockRepo:     stockRepo,
		historialRepo: historialRepo,
		cache:         c,
	}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	unidadID, err := parseUUID(req.UnidadMedidaID, "unidad_medida_id")
	if err != nil {
		return nil, err
	}
	if _, err := s.unidadRepo.FindByID(ctx, unidadID); err != nil {
		return nil, notFound(err, "unidad de medida")
	}
	proveedorID, err := parseOptUUID(req.ProveedorID, "proveedor_id")
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByCodigo(ctx, req.Codigo); err == nil {
		return nil, fmt.Errorf("codigo %s: %w", req.Codigo, ErrDuplicado)
	}

	p := &model.Producto{
		Codigo:         req.Codigo,
		Nombre:         req.Nombre,
		Descripcion:    req.Descripcion,
		PrecioCosto:    req.PrecioCosto,
		MargenPct:      req.MargenPct,
		IVA:            req.IVA,
		UnidadMedidaID: unidadID,
		ProveedorID:    proveedorID,
		Activo:         true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, duplicado(err, "producto")
	}
	invalidate(ctx, s.cache, cache.Productos)
	return productoToResponse(p, nil), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "producto")
	}
	return productoToResponse(p, nil), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, int64, error) {
	return cachedList(ctx, s.cache, cache.Productos, filter, func() ([]dto.ProductoResponse, int64, error) {
		rows, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, 0, err
		}

		var stock map[uuid.UUID]decimal.Decimal
		if filter.SucursalID != "" {
			sucursalID, err := parseUUID(filter.SucursalID, "sucursal_id")
			if err != nil {
				return nil, 0, err
			}
			ids := make([]uuid.UUID, len(rows))
			for i := range rows {
				ids[i] = rows[i].ID
			}
			if stock, err = s.stockRepo.GetMany(ctx, sucursalID, ids); err != nil {
				return nil, 0, err
			}
		}

		out := make([]dto.ProductoResponse, len(rows))
		for i := range rows {
			var qty *decimal.Decimal
			if stock != nil {
				q := stock[rows[i].ID]
				qty = &q
			}
			out[i] = *productoToResponse(&rows[i], qty)
		}
		return out, total, nil
	})
}

// Actualizar applies a partial update. A change of cost, margin or VAT flag is
// recorded in the price history in the same transaction.
func (s *productoService) Actualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "producto")
	}

	costoAntes, margenAntes := p.PrecioCosto, p.MargenPct
	precioAntes := carrito.PrecioUnitario(p.PrecioCosto, p.MargenPct, p.IVA)

	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.PrecioCosto != nil {
		if req.PrecioCosto.IsNegative() {
			return nil, fmt.Errorf("%w: precio_costo no puede ser negativo", ErrValidacion)
		}
		p.PrecioCosto = *req.PrecioCosto
	}
	if req.MargenPct != nil {
		if req.MargenPct.IsNegative() {
			return nil, fmt.Errorf("%w: margen_pct no puede ser negativo", ErrValidacion)
		}
		p.MargenPct = *req.MargenPct
	}
	if req.IVA != nil {
		p.IVA = *req.IVA
	}
	if req.UnidadMedidaID != nil {
		uid, err := parseUUID(*req.UnidadMedidaID, "unidad_medida_id")
		if err != nil {
			return nil, err
		}
		if _, err := s.unidadRepo.FindByID(ctx, uid); err != nil {
			return nil, notFound(err, "unidad de medida")
		}
		p.UnidadMedidaID = uid
		p.UnidadMedida = nil
	}
	if req.ProveedorID != nil {
		if p.ProveedorID, err = parseOptUUID(req.ProveedorID, "proveedor_id"); err != nil {
			return nil, err
		}
	}

	precioDespues := carrito.PrecioUnitario(p.PrecioCosto, p.MargenPct, p.IVA)
	cambioPrecio := !costoAntes.Equal(p.PrecioCosto) || !margenAntes.Equal(p.MargenPct) || !precioAntes.Equal(precioDespues)

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, p); err != nil {
			return err
		}
		if !cambioPrecio {
			return nil
		}
		var uid *uuid.UUID
		if usuarioID != uuid.Nil {
			uid = &usuarioID
		}
		return s.historialRepo.CreateTx(tx, &model.HistorialPrecio{
			ProductoID:    p.ID,
			UsuarioID:     uid,
			CostoAntes:    costoAntes,
			CostoDespues:  p.PrecioCosto,
			MargenAntes:   margenAntes,
			MargenDespues: p.MargenPct,
			PrecioAntes:   precioAntes,
			PrecioDespues: precioDespues,
			Motivo:        "manual",
		})
	})
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, cache.Productos)
	return productoToResponse(p, nil), nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound(err, "producto")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache, cache.Productos)
	return nil
}

func (s *productoService) Detalle(ctx context.Context, id uuid.UUID, sucursalID *uuid.UUID) (*dto.ProductoDetalleResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "producto")
	}
	resp := &dto.ProductoDetalleResponse{
		ProductoID:    p.ID.String(),
		UnidadesVenta: make([]dto.UnidadVentaResponse, len(p.UnidadesVenta)),
	}
	if p.UnidadMedida != nil {
		resp.UnidadMedida = unidadMedidaToResponse(p.UnidadMedida)
	}
	for i := range p.UnidadesVenta {
		resp.UnidadesVenta[i] = unidadVentaToResponse(&p.UnidadesVenta[i])
	}
	if sucursalID != nil {
		qty, err := s.stockRepo.Get(ctx, *sucursalID, p.ID)
		if err != nil {
			return nil, err
		}
		resp.Stock = &qty
	}
	return resp, nil
}

func (s *productoService) CrearUnidadVenta(ctx context.Context, productoID uuid.UUID, req dto.UnidadVentaRequest) (*dto.UnidadVentaResponse, error) {
	if _, err := s.repo.FindByID(ctx, productoID); err != nil {
		return nil, notFound(err, "producto")
	}
	if !req.FactorConversion.IsPositive() {
		return nil, fmt.Errorf("%w: factor_conversion debe ser mayor a cero", ErrValidacion)
	}
	u := &model.UnidadVenta{
		ProductoID:       productoID,
		Nombre:           req.Nombre,
		FactorConversion: req.FactorConversion,
	}
	if err := s.repo.CreateUnidadVenta(ctx, u); err != nil {
		return nil, duplicado(err, "unidad de venta")
	}
	resp := unidadVentaToResponse(u)
	return &resp, nil
}

func (s *productoService) ListarUnidadesVenta(ctx context.Context, productoID uuid.UUID) ([]dto.UnidadVentaResponse, error) {
	rows, err := s.repo.ListUnidadesVenta(ctx, productoID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnidadVentaResponse, len(rows))
	for i := range rows {
		out[i] = unidadVentaToResponse(&rows[i])
	}
	return out, nil
}

func (s *productoService) Historial(ctx context.Context, productoID uuid.UUID, p dto.Paginacion) ([]dto.HistorialPrecioItem, int64, error) {
	rows, total, err := s.historialRepo.ListByProducto(ctx, productoID, p.Offset(), p.Limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.HistorialPrecioItem, len(rows))
	for i, h := range rows {
		out[i] = dto.HistorialPrecioItem{
			ID:            h.ID.String(),
			ProductoID:    h.ProductoID.String(),
			UsuarioID:     optString(h.UsuarioID),
			CostoAntes:    h.CostoAntes,
			CostoDespues:  h.CostoDespues,
			MargenAntes:   h.MargenAntes,
			MargenDespues: h.MargenDespues,
			PrecioAntes:   h.PrecioAntes,
			PrecioDespues: h.PrecioDespues,
			Motivo:        h.Motivo,
			CreatedAt:     h.CreatedAt.Format(time.RFC3339),
		}
	}
	return out, total, nil
}

func (s *productoService) CrearUnidadMedida(ctx context.Context, req dto.UnidadMedidaRequest) (*dto.UnidadMedidaResponse, error) {
	u := &model.UnidadMedida{
		Nombre:           req.Nombre,
		Abreviatura:      req.Abreviatura,
		PermiteDecimales: req.PermiteDecimales,
	}
	if err := s.unidadRepo.Create(ctx, u); err != nil {
		return nil, duplicado(err, "unidad de medida")
	}
	resp := unidadMedidaToResponse(u)
	return &resp, nil
}

func (s *productoService) ListarUnidadesMedida(ctx context.Context) ([]dto.UnidadMedidaResponse, error) {
	rows, err := s.unidadRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnidadMedidaResponse, len(rows))
	for i := range rows {
		out[i] = unidadMedidaToResponse(&rows[i])
	}
	return out, nil
}

func productoToResponse(p *model.Producto, stock *decimal.Decimal) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:             p.ID.String(),
		Codigo:         p.Codigo,
		Nombre:         p.Nombre,
		Descripcion:    p.Descripcion,
		PrecioCosto:    p.PrecioCosto,
		MargenPct:      p.MargenPct,
		IVA:            p.IVA,
		PrecioVenta:    carrito.PrecioUnitario(p.PrecioCosto, p.MargenPct, p.IVA),
		UnidadMedidaID: p.UnidadMedidaID.String(),
		ProveedorID:    optString(p.ProveedorID),
		Stock:          stock,
		Activo:         p.Activo,
	}
}

func unidadMedidaToResponse(u *model.UnidadMedida) dto.UnidadMedidaResponse {
	return dto.UnidadMedidaResponse{
		ID:               u.ID.String(),
		Nombre:           u.Nombre,
		Abreviatura:      u.Abreviatura,
		PermiteDecimales: u.PermiteDecimales,
	}
}

func unidadVentaToResponse(u *model.UnidadVenta) dto.UnidadVentaResponse {
	return dto.UnidadVentaResponse{
		ID:               u.ID.String(),
		Nombre:           u.Nombre,
		FactorConversion: u.FactorConversion,
	}
}
