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
	"rackpos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type VentaService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearVentaRequest) (*dto.TransaccionResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.TransaccionResponse, error)
	Listar(ctx context.Context, filter dto.TransaccionFilter) ([]dto.TransaccionResponse, int64, error)
	Detalles(ctx context.Context, id uuid.UUID) ([]dto.DetalleResponse, error)
	RegistrarPago(ctx context.Context, usuarioID, id uuid.UUID, req dto.RegistrarPagoRequest) (*dto.TransaccionResponse, error)
	ListarPagos(ctx context.Context, id uuid.UUID) ([]dto.PagoResponse, error)
	Anular(ctx context.Context, id uuid.UUID, motivo string) error
}

type ventaService struct {
	repo         repository.VentaRepository
	productoRepo repository.ProductoRepository
	clienteRepo  repository.ClienteRepository
	sucursalRepo repository.SucursalRepository
	stock        StockService
	tasas        TasaService
	cache        cache.ListCache
	dispatcher   *worker.Dispatcher
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	clienteRepo repository.ClienteRepository,
	sucursalRepo repository.SucursalRepository,
	stock StockService,
	tasas TasaService,
	c cache.ListCache,
	dispatcher *worker.Dispatcher,
) VentaService {
	return &ventaService{
		repo:         repo,
		productoRepo: productoRepo,
		clienteRepo:  clienteRepo,
		sucursalRepo: sucursalRepo,
		stock:        stock,
		tasas:        tasas,
		cache:        c,
		dispatcher:   dispatcher,
	}
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// One transaction:
//   1. nextval numero
//   2. re-price every line from cost/margin/VAT (client prices are ignored)
//   3. insert venta + detalles
//   4. lock branch stock rows and decrement cantidad × factor, rejecting overdraws
// The sale starts pendiente; payments are registered separately.

func (s *ventaService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearVentaRequest) (*dto.TransaccionResponse, error) {
	sucursalID, err := parseUUID(req.SucursalID, "sucursal_id")
	if err != nil {
		return nil, err
	}
	clienteID, err := parseUUID(req.ClienteID, "cliente_id")
	if err != nil {
		return nil, err
	}
	if _, err := s.sucursalRepo.FindByID(ctx, sucursalID); err != nil {
		return nil, notFound(err, "sucursal")
	}
	cliente, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil {
		return nil, notFound(err, "cliente")
	}
	ids, err := productoIDs(req.Items)
	if err != nil {
		return nil, err
	}

	var venta model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		productos, err := s.productoRepo.FindManyTx(tx, ids)
		if err != nil {
			return err
		}
		lineas, total, err := resolverLineas(productos, req.Items, false)
		if err != nil {
			return err
		}

		numero, err := s.repo.NextNumeroTx(tx)
		if err != nil {
			return err
		}
		venta = model.Venta{
			Numero:     numero,
			SucursalID: sucursalID,
			ClienteID:  clienteID,
			UsuarioID:  usuarioID,
			TotalUSD:   total,
			Estado:     model.EstadoPendiente,
		}
		for _, l := range lineas {
			venta.Detalles = append(venta.Detalles, model.VentaDetalle{
				ProductoID:       l.producto.ID,
				UnidadVentaID:    l.unidadVentaID,
				Cantidad:         l.cantidad,
				FactorConversion: l.factor,
				PrecioUnitario:   l.precio,
				Subtotal:         l.subtotal,
			})
		}
		if err := s.repo.CreateTx(tx, &venta); err != nil {
			return err
		}

		ref := venta.ID
		for _, l := range lineas {
			if _, err := s.stock.MoverTx(tx, Movimiento{
				SucursalID:   sucursalID,
				ProductoID:   l.producto.ID,
				Delta:        l.base().Neg(),
				Tipo:         model.MovVenta,
				Motivo:       fmt.Sprintf("Venta #%d", numero),
				ReferenciaID: &ref,
				ExigirStock:  true,
			}); err != nil {
				return fmt.Errorf("%s: %w", l.producto.Nombre, err)
			}
		}

		// attach for the response
		for i, l := range lineas {
			venta.Detalles[i].Producto = l.producto
			if l.unidadVentaID != nil {
				venta.Detalles[i].UnidadVenta = &model.UnidadVenta{ID: *l.unidadVentaID, Nombre: *l.unidadNombre}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	venta.Cliente = cliente
	invalidate(ctx, s.cache, cache.Ventas, cache.Stock, cache.Productos)

	log.Info().Int("numero", venta.Numero).Str("total_usd", venta.TotalUSD.StringFixed(2)).Msg("venta creada")
	return ventaToResponse(&venta), nil
}

func (s *ventaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.TransaccionResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "venta")
	}
	return ventaToResponse(v), nil
}

func (s *ventaService) Listar(ctx context.Context, filter dto.TransaccionFilter) ([]dto.TransaccionResponse, int64, error) {
	return cachedList(ctx, s.cache, cache.Ventas, filter, func() ([]dto.TransaccionResponse, int64, error) {
		rows, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, 0, err
		}
		out := make([]dto.TransaccionResponse, len(rows))
		for i := range rows {
			out[i] = *ventaToResponse(&rows[i])
		}
		return out, total, nil
	})
}

func (s *ventaService) Detalles(ctx context.Context, id uuid.UUID) ([]dto.DetalleResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFound(err, "venta")
	}
	rows, err := s.repo.ListDetalles(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DetalleResponse, len(rows))
	for i := range rows {
		out[i] = ventaDetalleToResponse(&rows[i])
	}
	return out, nil
}

// RegistrarPago reconciles one payment against the pending balance under a
// row lock and marks the sale pagada once nothing is pending.
func (s *ventaService) RegistrarPago(ctx context.Context, usuarioID, id uuid.UUID, req dto.RegistrarPagoRequest) (*dto.TransaccionResponse, error) {
	moneda, err := pago.ParseMoneda(req.Moneda)
	if err != nil {
		return nil, err
	}
	tasa, err := resolverTasa(ctx, s.tasas, req, moneda)
	if err != nil {
		return nil, err
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		v, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			return notFound(err, "venta")
		}
		if v.Estado == model.EstadoAnulada {
			return fmt.Errorf("venta anulada: %w", ErrEstadoInvalido)
		}
		c, err := conciliar(v.TotalUSD, v.TotalPagadoUSD, req, moneda, tasa, usuarioID)
		if err != nil {
			return err
		}
		if err := s.repo.CreatePagoTx(tx, &model.VentaPago{VentaID: v.ID, Pago: c.pago}); err != nil {
			return err
		}
		v.TotalPagadoUSD = v.TotalPagadoUSD.Add(c.credito)
		if c.saldada {
			v.Estado = model.EstadoPagada
		}
		return s.repo.UpdateSaldoTx(tx, v)
	})
	if txErr != nil {
		return nil, txErr
	}
	invalidate(ctx, s.cache, cache.Ventas)

	if err := s.dispatcher.EnqueueRecibo(ctx, worker.ReciboJobPayload{VentaID: id.String()}); err != nil {
		log.Warn().Err(err).Str("venta_id", id.String()).Msg("no se pudo encolar el recibo")
	}
	return s.Obtener(ctx, id)
}

func (s *ventaService) ListarPagos(ctx context.Context, id uuid.UUID) ([]dto.PagoResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFound(err, "venta")
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

// Anular voids an unpaid sale and returns its stock to the branch. Sales with
// registered payments cannot be voided since payments are immutable.
func (s *ventaService) Anular(ctx context.Context, id uuid.UUID, motivo string) error {
	detalles, err := s.repo.ListDetalles(ctx, id)
	if err != nil {
		return err
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		v, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			return notFound(err, "venta")
		}
		if v.Estado == model.EstadoAnulada {
			return fmt.Errorf("la venta ya está anulada: %w", ErrEstadoInvalido)
		}
		if v.TotalPagadoUSD.IsPositive() {
			return fmt.Errorf("la venta tiene pagos registrados: %w", ErrEstadoInvalido)
		}
		ref := v.ID
		for _, d := range detalles {
			if _, err := s.stock.MoverTx(tx, Movimiento{
				SucursalID:   v.SucursalID,
				ProductoID:   d.ProductoID,
				Delta:        d.Cantidad.Mul(d.FactorConversion),
				Tipo:         model.MovAnulacion,
				Motivo:       fmt.Sprintf("Anulación venta #%d: %s", v.Numero, motivo),
				ReferenciaID: &ref,
			}); err != nil {
				return err
			}
		}
		v.Estado = model.EstadoAnulada
		return s.repo.UpdateSaldoTx(tx, v)
	})
	if txErr != nil {
		return txErr
	}
	invalidate(ctx, s.cache, cache.Ventas, cache.Stock, cache.Productos)
	return nil
}

func ventaToResponse(v *model.Venta) *dto.TransaccionResponse {
	pendiente, sobrepago := pago.Pendiente(v.TotalUSD, v.TotalPagadoUSD)
	resp := &dto.TransaccionResponse{
		ID:             v.ID.String(),
		Numero:         v.Numero,
		SucursalID:     v.SucursalID.String(),
		TerceroID:      v.ClienteID.String(),
		TotalUSD:       v.TotalUSD,
		TotalPagadoUSD: v.TotalPagadoUSD,
		PendienteUSD:   pendiente,
		Sobrepago:      sobrepago,
		Estado:         v.Estado,
		CreatedAt:      v.CreatedAt.Format(time.RFC3339),
	}
	if v.Cliente != nil {
		resp.Tercero = v.Cliente.Nombre
	}
	for i := range v.Detalles {
		resp.Detalles = append(resp.Detalles, ventaDetalleToResponse(&v.Detalles[i]))
	}
	for _, p := range v.Pagos {
		resp.Pagos = append(resp.Pagos, pagoToResponse(p.ID, p.Pago, p.TasaCambio))
	}
	return resp
}

func ventaDetalleToResponse(d *model.VentaDetalle) dto.DetalleResponse {
	resp := dto.DetalleResponse{
		ProductoID:       d.ProductoID.String(),
		UnidadVentaID:    optString(d.UnidadVentaID),
		Cantidad:         d.Cantidad,
		FactorConversion: d.FactorConversion,
		PrecioUnitario:   d.PrecioUnitario,
		Subtotal:         d.Subtotal,
	}
	if d.Producto != nil {
		resp.Producto = d.Producto.Nombre
	}
	if d.UnidadVenta != nil {
		n := d.UnidadVenta.Nombre
		resp.UnidadVenta = &n
	}
	return resp
}
