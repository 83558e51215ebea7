package apiclient

import (
	"context"
	"fmt"

	"rackpos/internal/carrito"
	"rackpos/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DetalleLoader feeds a cart with selling units from /productos/:id/detalle.
type DetalleLoader struct {
	c          *Client
	sucursalID string
}

var _ carrito.DetalleLoader = (*DetalleLoader)(nil)

func NewDetalleLoader(c *Client, sucursalID string) *DetalleLoader {
	return &DetalleLoader{c: c, sucursalID: sucursalID}
}

func (l *DetalleLoader) CargarDetalles(ctx context.Context, productoID uuid.UUID) (*carrito.Detalles, error) {
	det, err := l.c.DetalleProducto(ctx, productoID.String(), l.sucursalID)
	if err != nil {
		return nil, err
	}
	out := &carrito.Detalles{
		UnidadMedida:     det.UnidadMedida.Nombre,
		PermiteDecimales: det.UnidadMedida.PermiteDecimales,
	}
	for _, u := range det.UnidadesVenta {
		id, err := uuid.Parse(u.ID)
		if err != nil {
			return nil, fmt.Errorf("unidad de venta %q: %w", u.ID, err)
		}
		out.UnidadesVenta = append(out.UnidadesVenta, carrito.UnidadVenta{ID: id, Nombre: u.Nombre, Factor: u.FactorConversion})
	}
	return out, nil
}

// ProductoCarrito maps a catalog entry to cart input. A missing stock reads
// as zero, which only matters in sale context.
func ProductoCarrito(p dto.ProductoResponse) (carrito.Producto, error) {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return carrito.Producto{}, fmt.Errorf("producto %q: %w", p.ID, err)
	}
	stock := decimal.Zero
	if p.Stock != nil {
		stock = *p.Stock
	}
	return carrito.Producto{
		ID:              id,
		Nombre:          p.Nombre,
		PrecioCosto:     p.PrecioCosto,
		MargenPct:       p.MargenPct,
		IVA:             p.IVA,
		StockDisponible: stock,
	}, nil
}

// ItemsRequest converts cart lines into the request items the API re-prices.
// With conPrecio (accounts) the cart's unit price is sent so the stored
// purchase matches what the cart showed.
func ItemsRequest(items []carrito.Item, conPrecio bool) []dto.ItemRequest {
	out := make([]dto.ItemRequest, 0, len(items))
	for _, it := range items {
		req := dto.ItemRequest{ProductoID: it.Producto.ID.String(), Cantidad: it.Cantidad}
		if it.Unidad != nil {
			uid := it.Unidad.ID.String()
			req.UnidadVentaID = &uid
		}
		if conPrecio {
			precio := it.PrecioUnitario()
			req.PrecioUnitario = &precio
		}
		out = append(out, req)
	}
	return out
}
