// Package carrito builds priced carts for sales and accounts.
//
// Prices derive from product cost: costo × (1 + margen/100), times 1.16 when the
// product carries VAT. Quantities are expressed in the chosen selling unit and
// converted to base units with the unit's conversion factor.
package carrito

import "github.com/shopspring/decimal"

var (
	cien      = decimal.NewFromInt(100)
	uno       = decimal.NewFromInt(1)
	factorIVA = decimal.RequireFromString("1.16")

	pasoEntero  = decimal.NewFromInt(1)
	pasoDecimal = decimal.RequireFromString("0.1")
)

// PrecioUnitario returns the selling price of one base unit, rounded to cents.
func PrecioUnitario(costo, margenPct decimal.Decimal, iva bool) decimal.Decimal {
	p := costo.Mul(uno.Add(margenPct.Div(cien)))
	if iva {
		p = p.Mul(factorIVA)
	}
	return p.Round(2)
}

// TotalLinea is precio × cantidad × factor, rounded to cents. A zero factor
// means "base unit".
func TotalLinea(precio, cantidad, factor decimal.Decimal) decimal.Decimal {
	if factor.IsZero() {
		factor = uno
	}
	return precio.Mul(cantidad).Mul(factor).Round(2)
}

// Paso is the quantity increment for a measurement unit.
func Paso(permiteDecimales bool) decimal.Decimal {
	if permiteDecimales {
		return pasoDecimal
	}
	return pasoEntero
}

// NormalizarCantidad floors v to an integer when decimals are not allowed.
func NormalizarCantidad(v decimal.Decimal, permiteDecimales bool) decimal.Decimal {
	if permiteDecimales {
		return v
	}
	return v.Floor()
}
