// Package pago reconciles a pending USD balance against a payment made in
// USD or VES.
package pago

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Moneda string

const (
	USD Moneda = "USD"
	VES Moneda = "VES"
)

var (
	ErrMonedaInvalida    = errors.New("moneda no soportada")
	ErrTasaRequerida     = errors.New("se requiere una tasa de cambio válida para pagos en VES")
	ErrDescuentoInvalido = errors.New("el descuento debe estar entre 0 y 100")
	ErrMontoInvalido     = errors.New("el monto debe ser mayor que cero")
	ErrMontoExcedido     = errors.New("el monto excede el saldo pendiente")
	ErrSinSaldo          = errors.New("no hay saldo pendiente")
)

var (
	cien     = decimal.NewFromInt(100)
	uno      = decimal.NewFromInt(1)
	centavo  = decimal.RequireFromString("0.01")
	cero2dec = "0.00"
)

// ParseMoneda accepts "usd"/"USD"/"ves"/"VES".
func ParseMoneda(s string) (Moneda, error) {
	switch Moneda(strings.ToUpper(strings.TrimSpace(s))) {
	case USD:
		return USD, nil
	case VES:
		return VES, nil
	}
	return "", fmt.Errorf("%w: %q", ErrMonedaInvalida, s)
}

// Resultado is what the payment form shows for a given currency and discount.
type Resultado struct {
	Moneda Moneda
	// MontoEsperado is the amount due in Moneda, rounded to cents.
	MontoEsperado decimal.Decimal
	// MontoEnMoneda is MontoEsperado as a fixed two-decimal string.
	MontoEnMoneda string
	// DescuentoPct is the discount actually applied; always zero for VES.
	DescuentoPct decimal.Decimal
	// Descuento is DescuentoPct as the form renders it ("0.00" for VES).
	Descuento string
	// Tolerancia is how far a payment may exceed MontoEsperado.
	Tolerancia decimal.Decimal
}

// CalcularMonto computes the amount due for totalUSD in the chosen currency.
//
// USD: totalUSD × (1 − descuento/100).
// VES: totalUSD × tasaBCV. The discount is ignored and reported as "0.00".
func CalcularMonto(totalUSD decimal.Decimal, moneda Moneda, descuentoPct, tasaBCV decimal.Decimal) (Resultado, error) {
	switch moneda {
	case USD:
		if descuentoPct.IsNegative() || descuentoPct.GreaterThanOrEqual(cien) {
			return Resultado{}, ErrDescuentoInvalido
		}
		esperado := totalUSD.Mul(uno.Sub(descuentoPct.Div(cien))).Round(2)
		return Resultado{
			Moneda:        USD,
			MontoEsperado: esperado,
			MontoEnMoneda: esperado.StringFixed(2),
			DescuentoPct:  descuentoPct,
			Descuento:     descuentoPct.StringFixed(2),
			Tolerancia:    centavo,
		}, nil
	case VES:
		if !tasaBCV.IsPositive() {
			return Resultado{}, ErrTasaRequerida
		}
		esperado := totalUSD.Mul(tasaBCV).Round(2)
		return Resultado{
			Moneda:        VES,
			MontoEsperado: esperado,
			MontoEnMoneda: esperado.StringFixed(2),
			DescuentoPct:  decimal.Zero,
			Descuento:     cero2dec,
			Tolerancia:    centavo.Mul(tasaBCV).Round(2),
		}, nil
	}
	return Resultado{}, fmt.Errorf("%w: %q", ErrMonedaInvalida, moneda)
}

// Pendiente returns total − pagado and whether that is an overpayment.
// A negative balance is returned as-is so callers can surface it.
func Pendiente(total, pagado decimal.Decimal) (decimal.Decimal, bool) {
	p := total.Sub(pagado)
	return p, p.IsNegative()
}

// Validar checks a payment amount against the expected amount. Partial
// payments are allowed; exceeding the expected amount by more than the
// tolerance is not.
func Validar(monto decimal.Decimal, r Resultado) error {
	if !monto.IsPositive() {
		return ErrMontoInvalido
	}
	if monto.GreaterThan(r.MontoEsperado.Add(r.Tolerancia)) {
		return fmt.Errorf("%w: máximo %s %s", ErrMontoExcedido, r.MontoEnMoneda, r.Moneda)
	}
	return nil
}

// CreditoUSD is the USD amount a validated payment settles against pendienteUSD.
// A discounted USD payment settles monto / (1 − d/100); a VES payment settles
// monto / tasaBCV. Paying at least the expected amount settles the whole
// pending balance, so rounding never leaves a stray cent behind.
func CreditoUSD(monto decimal.Decimal, r Resultado, tasaBCV, pendienteUSD decimal.Decimal) decimal.Decimal {
	if monto.GreaterThanOrEqual(r.MontoEsperado) {
		return pendienteUSD
	}
	var credito decimal.Decimal
	switch r.Moneda {
	case VES:
		credito = monto.Div(tasaBCV)
	default:
		credito = monto.Div(uno.Sub(r.DescuentoPct.Div(cien)))
	}
	credito = credito.Round(2)
	if credito.GreaterThan(pendienteUSD) {
		credito = pendienteUSD
	}
	return credito
}
