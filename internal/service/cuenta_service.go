package service

import (
	"context"
	"fmt"
	"time"

	"rackpos/internal/cache"
	"rackpos/internal/dto"
	"rackpos/internal/model"
	"rackpos/internal/pago"
	"rackpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CuentaService manages payables: purchases from a provider that add stock to
// a branch and are settled with one or more payments.
type CuentaService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearCuentaRequest) (*dto.TransaccionResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.TransaccionResponse, error)
	Listar(ctx context.Context, filter dto.TransaccionFilter) ([]dto.TransaccionResponse, int64, error)
	RegistrarPago(ctx context.Context, usuarioID, id uuid.UUID, req dto.RegistrarPagoRequest) (*dto.TransaccionResponse, error)
	ListarPagos(ctx context.Context, id uuid.UUID) ([]dto.PagoResponse, error)
}

type cuentaService struct {
	repo          repository.CuentaRepository
	productoRepo  repository.ProductoRepository
	proveedorRepo repository.ProveedorRepository
	sucursalRepo  repository.SucursalRepository
	stock         StockService
	tasas         TasaService
	cache         cache.ListCache
}

func NewCuentaService(
	repo repository.CuentaRepository,
	productoRepo repository.ProductoRepository,
	proveedorRepo repository.ProveedorRepository,
	sucursalRepo repository.SucursalRepository,
	stock StockService,
	tasas TasaService,
	c cache.ListCache,
) CuentaService {
	return &cuentaService{
		repo:          repo,
		productoRepo:  productoRepo,
		proveedorRepo: proveedorRepo,
		sucursalRepo:  sucursalRepo,
		stock:         stock,
		tasas:         tasas,
		cache:         c,
	}
}

func (s *cuentaService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearCuentaRequest) (*dto.TransaccionResponse, error) {
	sucursalID, err := parseUUID(req.SucursalID, "sucursal_id")
	if err != nil {
		return nil, err
	}
	proveedorID, err := parseUUID(req.ProveedorID, "proveedor_id")
	if err != nil {
		return nil, err
	}
	if _, err := s.sucursalRepo.FindByID(ctx, sucursalID); err != nil {
		return nil, notFound(err, "sucursal")
	}
	proveedor, err := s.proveedorRepo.FindByID(ctx, proveedorID)
	if err != nil {
		return nil, notFound(err, "proveedor")
	}
	ids, err := productoIDs(req.Items)
	if err != nil {
		return nil, err
	}

	var cuenta model.Cuenta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		productos, err := s.productoRepo.FindManyTx(tx, ids)
		if err != nil {
			return err
		}
		lineas, total, err := resolverLineas(productos, req.Items, true)
		if err != nil {
			return err
		}
		numero, err := s.repo.NextNumeroTx(tx)
		if err != nil {
			return err
		}
		cuenta = model.Cuenta{
			Numero:      numero,
			SucursalID:  sucursalID,
			ProveedorID: proveedorID,
			UsuarioID:   usuarioID,
			TotalUSD:    total,
			Estado:      model.EstadoPendiente,
		}
		for _, l := range lineas {
			cuenta.Detalles = append(cuenta.Detalles, model.CuentaDetalle{
				ProductoID:       l.producto.ID,
				UnidadVentaID:    l.unidadVentaID,
				Cantidad:         l.cantidad,
				FactorConversion: l.factor,
				PrecioUnitario:   l.precio,
				Subtotal:         l.subtotal,
			})
		}
		if err := s.repo.CreateTx(tx, &cuenta); err != nil {
			return err
		}

		// purchases have no stock ceiling
		ref := cuenta.ID
		for i, l := range lineas {
			if _, err := s.stock.MoverTx(tx, Movimiento{
				SucursalID:   sucursalID,
				ProductoID:   l.producto.ID,
				Delta:        l.base(),
				Tipo:         model.MovCompra,
				Motivo:       fmt.Sprintf("Cuenta #%d", numero),
				ReferenciaID: &ref,
			}); err != nil {
				return err
			}
			cuenta.Detalles[i].Producto = l.producto
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	cuenta.Proveedor = proveedor
	invalidate(ctx, s.cache, cache.Cuentas, cache.Stock, cache.Productos)

	log.Info().Int("numero", cuenta.Numero).Str("total_usd", cuenta.TotalUSD.StringFixed(2)).Msg("cuenta creada")
	return cuentaToResponse(&cuenta), nil
}

func (s *cuentaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.TransaccionResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "cuenta")
	}
	return cuentaToResponse(c), nil
}

func (s *cuentaService) Listar(ctx context.Context, filter dto.TransaccionFilter) ([]dto.TransaccionResponse, int64, error) {
	return cachedList(ctx, s.cache, cache.Cuentas, filter, func() ([]dto.TransaccionResponse, int64, error) {
		rows, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, 0, err
		}
		out := make([]dto.TransaccionResponse, len(rows))
		for i := range rows {
			out[i] = *cuentaToResponse(&rows[i])
		}
		return out, total, nil
	})
}

func (s *cuentaService) RegistrarPago(ctx context.Context, usuarioID, id uuid.UUID, req dto.RegistrarPagoRequest) (*dto.TransaccionResponse, error) {
	moneda, err := pago.ParseMoneda(req.Moneda)
	if err != nil {
		return nil, err
	}
	tasa, err := resolverTasa(ctx, s.tasas, req, moneda)
	if err != nil {
		return nil, err
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			return notFound(err, "cuenta")
		}
		if c.Estado == model.EstadoAnulada {
			return fmt.Errorf("cuenta anulada: %w", ErrEstadoInvalido)
		}
		cb, err := conciliar(c.TotalUSD, c.TotalPagadoUSD, req, moneda, tasa, usuarioID)
		if err != nil {
			return err
		}
		if err := s.repo.CreatePagoTx(tx, &model.CuentaPago{CuentaID: c.ID, Pago: cb.pago}); err != nil {
			return err
		}
		c.TotalPagadoUSD = c.TotalPagadoUSD.Add(cb.credito)
		if cb.saldada {
			c.Estado = model.EstadoPagada
		}
		return s.repo.UpdateSaldoTx(tx, c)
	})
	if txErr != nil {
		return nil, txErr
	}
	invalidate(ctx, s.cache, cache.Cuentas)
	return s.Obtener(ctx, id)
}

func (s *cuentaService) ListarPagos(ctx context.Context, id uuid.UUID) ([]dto.PagoResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFound(err, "cuenta")
	}
	rows, err := s.repo.ListPagos(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PagoResponse, len(rows))
	for i, p := range rows {
		out[i] = pagoToResponse(p.ID, p.Pago, p.TasaCambio)
	}
	return out, nil
}

func cuentaToResponse(c *model.Cuenta) *dto.TransaccionResponse {
	pendiente, sobrepago := pago.Pendiente(c.TotalUSD, c.TotalPagadoUSD)
	resp := &dto.TransaccionResponse{
		ID:             c.ID.String(),
		Numero:         c.Numero,
		SucursalID:     c.SucursalID.String(),
		TerceroID:      c.ProveedorID.String(),
		TotalUSD:       c.TotalUSD,
		TotalPagadoUSD: c.TotalPagadoUSD,
		PendienteUSD:   pendiente,
		Sobrepago:      sobrepago,
		Estado:         c.Estado,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}
	if c.Proveedor != nil {
		resp.Tercero = c.Proveedor.RazonSocial
	}
	for _, d := range c.Detalles {
		det := dto.DetalleResponse{
			ProductoID:       d.ProductoID.String(),
			UnidadVentaID:    optString(d.UnidadVentaID),
			Cantidad:         d.Cantidad,
			FactorConversion: d.FactorConversion,
			PrecioUnitario:   d.PrecioUnitario,
			Subtotal:         d.Subtotal,
		}
		if d.Producto != nil {
			det.Producto = d.Producto.Nombre
		}
		resp.Detalles = append(resp.Detalles, det)
	}
	for _, p := range c.Pagos {
		resp.Pagos = append(resp.Pagos, pagoToResponse(p.ID, p.Pago, p.TasaCambio))
	}
	return resp
}
