package carrito

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	ErrStockInsuficiente  = errors.New("la cantidad supera el stock disponible")
	ErrItemNoEncontrado   = errors.New("el producto no está en el carrito")
	ErrUnidadNoEncontrada = errors.New("unidad de venta no encontrada para el producto")
	ErrDetallesPendientes = errors.New("los detalles del producto aún se están cargando")
)

// Contexto decides whether the stock ceiling applies.
type Contexto int

const (
	ContextoVenta  Contexto = iota // sales: quantity limited by branch stock
	ContextoCuenta                 // purchases: no ceiling
)

// Producto is the input to AgregarItem.
type Producto struct {
	ID               uuid.UUID
	Nombre           string
	PrecioCosto      decimal.Decimal
	MargenPct        decimal.Decimal
	IVA              bool
	PermiteDecimales bool
	// StockDisponible is in base units; ignored for ContextoCuenta.
	StockDisponible decimal.Decimal
}

// UnidadVenta is an alternate selling unit worth Factor base units.
type UnidadVenta struct {
	ID     uuid.UUID
	Nombre string
	Factor decimal.Decimal
}

// Detalles is what a DetalleLoader resolves for a product.
type Detalles struct {
	UnidadesVenta    []UnidadVenta
	UnidadMedida     string
	PermiteDecimales bool
}

// DetalleLoader fetches selling units and measurement-unit detail for a product.
type DetalleLoader interface {
	CargarDetalles(ctx context.Context, productoID uuid.UUID) (*Detalles, error)
}

// Item is a read-only snapshot of one cart line.
type Item struct {
	Producto            Producto
	Cantidad            decimal.Decimal
	Unidad              *UnidadVenta
	UnidadesDisponibles []UnidadVenta
	UnidadMedida        string
	PermiteDecimales    bool
	CargandoDetalles    bool
}

func (i Item) PrecioUnitario() decimal.Decimal {
	return PrecioUnitario(i.Producto.PrecioCosto, i.Producto.MargenPct, i.Producto.IVA)
}

// Factor is the conversion factor of the selected unit (1 for the base unit).
func (i Item) Factor() decimal.Decimal {
	if i.Unidad == nil {
		return uno
	}
	return i.Unidad.Factor
}

// CantidadBase is the quantity expressed in base units.
func (i Item) CantidadBase() decimal.Decimal { return i.Cantidad.Mul(i.Factor()) }

func (i Item) Total() decimal.Decimal {
	return TotalLinea(i.PrecioUnitario(), i.Cantidad, i.Factor())
}

func (i Item) Paso() decimal.Decimal { return Paso(i.PermiteDecimales) }

// Carrito accumulates priced lines. It is safe for concurrent use: detail
// loads started by AgregarItem resolve on their own goroutines.
type Carrito struct {
	mu       sync.Mutex
	contexto Contexto
	loader   DetalleLoader
	items    []*Item
	pending  sync.WaitGroup
}

// New returns an empty cart. loader may be nil, in which case items are priced
// in their base unit only.
func New(contexto Contexto, loader DetalleLoader) *Carrito {
	return &Carrito{contexto: contexto, loader: loader}
}

// AgregarItem adds one step of p, or bumps the quantity when p is already in
// the cart. New items start loading their selling units in the background.
func (c *Carrito) AgregarItem(ctx context.Context, p Producto) error {
	c.mu.Lock()
	if it := c.find(p.ID); it != nil {
		err := c.setCantidad(it, it.Cantidad.Add(it.Paso()))
		c.mu.Unlock()
		return err
	}

	it := &Item{
		Producto:         p,
		Cantidad:         Paso(p.PermiteDecimales),
		PermiteDecimales: p.PermiteDecimales,
		CargandoDetalles: c.loader != nil,
	}
	if err := c.checkStock(it, it.Cantidad, it.Factor()); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.loader != nil {
		c.pending.Add(1)
	}
	c.items = append(c.items, it)
	c.mu.Unlock()

	if c.loader != nil {
		go c.cargarDetalles(ctx, p.ID)
	}
	return nil
}

func (c *Carrito) cargarDetalles(ctx context.Context, id uuid.UUID) {
	defer c.pending.Done()
	det, err := c.loader.CargarDetalles(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	it := c.find(id)
	if it == nil {
		// removed while loading
		return
	}
	it.CargandoDetalles = false
	if err != nil {
		log.Warn().Err(err).Str("producto_id", id.String()).Msg("carrito: detalle no disponible, se usa la unidad base")
		return
	}
	it.UnidadesDisponibles = det.UnidadesVenta
	it.UnidadMedida = det.UnidadMedida
	it.PermiteDecimales = det.PermiteDecimales
	cantidad := NormalizarCantidad(it.Cantidad, it.PermiteDecimales)
	if !cantidad.IsPositive() {
		// A fractional step floored to zero becomes one whole unit.
		cantidad = uno
	}
	if err := c.setCantidad(it, cantidad); err != nil {
		log.Warn().Err(err).Str("producto_id", id.String()).Msg("carrito: sin stock para una unidad entera, se quita el item")
		c.remove(id)
	}
}

// Esperar blocks until every pending detail load has finished or ctx is done.
func (c *Carrito) Esperar(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ActualizarCantidad adds delta (may be negative) to the item's quantity.
func (c *Carrito) ActualizarCantidad(id uuid.UUID, delta decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	it := c.find(id)
	if it == nil {
		return ErrItemNoEncontrado
	}
	return c.setCantidad(it, NormalizarCantidad(it.Cantidad.Add(delta), it.PermiteDecimales))
}

// FijarCantidad sets the quantity from manual entry. Fractions are floored
// when the measurement unit does not allow decimals.
func (c *Carrito) FijarCantidad(id uuid.UUID, valor decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	it := c.find(id)
	if it == nil {
		return ErrItemNoEncontrado
	}
	return c.setCantidad(it, NormalizarCantidad(valor, it.PermiteDecimales))
}

// setCantidad must be called under lock. Non-positive quantities remove the item.
func (c *Carrito) setCantidad(it *Item, cantidad decimal.Decimal) error {
	if !cantidad.IsPositive() {
		c.remove(it.Producto.ID)
		return nil
	}
	if err := c.checkStock(it, cantidad, it.Factor()); err != nil {
		return err
	}
	it.Cantidad = cantidad
	return nil
}

// SeleccionarUnidadVenta switches the item to an alternate selling unit.
// uuid.Nil selects the base unit again.
func (c *Carrito) SeleccionarUnidadVenta(id, unidadID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	it := c.find(id)
	if it == nil {
		return ErrItemNoEncontrado
	}
	if it.CargandoDetalles {
		return ErrDetallesPendientes
	}
	if unidadID == uuid.Nil {
		if err := c.checkStock(it, it.Cantidad, uno); err != nil {
			return err
		}
		it.Unidad = nil
		return nil
	}
	for i := range it.UnidadesDisponibles {
		u := it.UnidadesDisponibles[i]
		if u.ID != unidadID {
			continue
		}
		if err := c.checkStock(it, it.Cantidad, u.Factor); err != nil {
			return err
		}
		it.Unidad = &u
		return nil
	}
	return ErrUnidadNoEncontrada
}

func (c *Carrito) QuitarItem(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(id)
}

// Total is the sum of line totals.
func (c *Carrito) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Total())
	}
	return total
}

// Items returns a snapshot of the cart lines in insertion order.
func (c *Carrito) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		cp := *it
		cp.UnidadesDisponibles = append([]UnidadVenta(nil), it.UnidadesDisponibles...)
		out = append(out, cp)
	}
	return out
}

func (c *Carrito) Vacio() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) == 0
}

func (c *Carrito) checkStock(it *Item, cantidad, factor decimal.Decimal) error {
	if c.contexto != ContextoVenta {
		return nil
	}
	if cantidad.Mul(factor).GreaterThan(it.Producto.StockDisponible) {
		return ErrStockInsuficiente
	}
	return nil
}

func (c *Carrito) find(id uuid.UUID) *Item {
	for _, it := range c.items {
		if it.Producto.ID == id {
			return it
		}
	}
	return nil
}

func (c *Carrito) remove(id uuid.UUID) {
	for i, it := range c.items {
		if it.Producto.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}
