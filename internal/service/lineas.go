package service

import (
	"errors"
	"fmt"

	"rackpos/internal/carrito"
	"rackpos/internal/dto"
	"rackpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrCantidadFraccionaria = errors.New("la unidad de medida no admite cantidades fraccionarias")

// linea is one priced, unit-resolved request line.
type linea struct {
	producto      *model.Producto
	unidadVentaID *uuid.UUID
	unidadNombre  *string
	cantidad      decimal.Decimal
	factor        decimal.Decimal
	precio        decimal.Decimal
	subtotal      decimal.Decimal
}

// base is the quantity in the product's base unit.
func (l linea) base() decimal.Decimal { return l.cantidad.Mul(l.factor) }

func productoIDs(items []dto.ItemRequest) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, it := range items {
		id, err := parseUUID(it.ProductoID, "producto_id")
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// resolverLineas prices every item. For sales (costo=false) the price is always
// recomputed from cost, margin and VAT; for purchases (costo=true) the request
// price is honoured and defaults to the product cost.
func resolverLineas(productos []model.Producto, items []dto.ItemRequest, costo bool) ([]linea, decimal.Decimal, error) {
	byID := make(map[uuid.UUID]*model.Producto, len(productos))
	for i := range productos {
		byID[productos[i].ID] = &productos[i]
	}

	total := decimal.Zero
	lineas := make([]linea, 0, len(items))
	for _, it := range items {
		pid, err := parseUUID(it.ProductoID, "producto_id")
		if err != nil {
			return nil, decimal.Zero, err
		}
		p, ok := byID[pid]
		if !ok {
			return nil, decimal.Zero, fmt.Errorf("producto %s: %w", it.ProductoID, ErrNoEncontrado)
		}
		if !p.Activo {
			return nil, decimal.Zero, fmt.Errorf("%w: producto %s está inactivo", ErrValidacion, p.Nombre)
		}
		if !it.Cantidad.IsPositive() {
			return nil, decimal.Zero, fmt.Errorf("%w: cantidad de %s debe ser mayor a cero", ErrValidacion, p.Nombre)
		}
		permite := p.UnidadMedida != nil && p.UnidadMedida.PermiteDecimales
		if !carrito.NormalizarCantidad(it.Cantidad, permite).Equal(it.Cantidad) {
			return nil, decimal.Zero, fmt.Errorf("%s: %w", p.Nombre, ErrCantidadFraccionaria)
		}

		l := linea{producto: p, cantidad: it.Cantidad, factor: decimal.NewFromInt(1)}
		if it.UnidadVentaID != nil && *it.UnidadVentaID != "" {
			uid, err := parseUUID(*it.UnidadVentaID, "unidad_venta_id")
			if err != nil {
				return nil, decimal.Zero, err
			}
			var found *model.UnidadVenta
			for i := range p.UnidadesVenta {
				if p.UnidadesVenta[i].ID == uid {
					found = &p.UnidadesVenta[i]
					break
				}
			}
			if found == nil {
				return nil, decimal.Zero, fmt.Errorf("%s: %w", p.Nombre, carrito.ErrUnidadNoEncontrada)
			}
			l.unidadVentaID = &found.ID
			l.unidadNombre = &found.Nombre
			l.factor = found.FactorConversion
		}

		switch {
		case !costo:
			l.precio = carrito.PrecioUnitario(p.PrecioCosto, p.MargenPct, p.IVA)
		case it.PrecioUnitario != nil:
			if it.PrecioUnitario.IsNegative() {
				return nil, decimal.Zero, fmt.Errorf("%w: precio_unitario de %s no puede ser negativo", ErrValidacion, p.Nombre)
			}
			l.precio = it.PrecioUnitario.Round(2)
		default:
			l.precio = p.PrecioCosto
		}
		l.subtotal = carrito.TotalLinea(l.precio, l.cantidad, l.factor)
		total = total.Add(l.subtotal)
		lineas = append(lineas, l)
	}
	return lineas, total, nil
}
