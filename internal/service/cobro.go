package service

import (
	"context"
	"errors"
	"time"

	"rackpos/internal/dto"
	"rackpos/internal/model"
	"rackpos/internal/pago"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// cobro is a payment reconciled against a pending balance, ready to persist.
type cobro struct {
	pago    model.Pago
	credito decimal.Decimal
	saldada bool
}

// resolverTasa picks the exchange-rate snapshot for a payment. VES needs one;
// USD records it when available.
func resolverTasa(ctx context.Context, tasas TasaService, req dto.RegistrarPagoRequest, moneda pago.Moneda) (*model.TasaCambio, error) {
	id, err := parseOptUUID(req.TasaCambioID, "tasa_cambio_id")
	if err != nil {
		return nil, err
	}
	t, err := tasas.Vigente(ctx, id)
	if err == nil {
		return t, nil
	}
	if moneda == pago.USD && id == nil && errors.Is(err, ErrTasaNoDisponible) {
		return nil, nil
	}
	if errors.Is(err, ErrTasaNoDisponible) {
		return nil, pago.ErrTasaRequerida
	}
	return nil, err
}

// conciliar validates req against the pending balance of a parent whose totals
// are total/pagado and returns the payment row to store.
func conciliar(total, pagado decimal.Decimal, req dto.RegistrarPagoRequest, moneda pago.Moneda, tasa *model.TasaCambio, usuarioID uuid.UUID) (*cobro, error) {
	pendiente, _ := pago.Pendiente(total, pagado)
	if !pendiente.IsPositive() {
		return nil, pago.ErrSinSaldo
	}

	tasaBCV := decimal.Zero
	var tasaID *uuid.UUID
	if tasa != nil {
		tasaBCV = tasa.TasaBCV
		id := tasa.ID
		tasaID = &id
	}

	r, err := pago.CalcularMonto(pendiente, moneda, req.DescuentoPct, tasaBCV)
	if err != nil {
		return nil, err
	}
	if err := pago.Validar(req.Monto, r); err != nil {
		return nil, err
	}
	credito := pago.CreditoUSD(req.Monto, r, tasaBCV, pendiente)

	return &cobro{
		pago: model.Pago{
			Moneda:       string(moneda),
			Monto:        req.Monto,
			MontoUSD:     credito,
			MetodoPago:   req.MetodoPago,
			DescuentoPct: r.DescuentoPct,
			TasaCambioID: tasaID,
			UsuarioID:    usuarioID,
		},
		credito: credito,
		saldada: !pendiente.Sub(credito).IsPositive(),
	}, nil
}

func pagoToResponse(id uuid.UUID, p model.Pago, tasa *model.TasaCambio) dto.PagoResponse {
	resp := dto.PagoResponse{
		ID:           id.String(),
		Moneda:       p.Moneda,
		Monto:        p.Monto,
		MontoUSD:     p.MontoUSD,
		MetodoPago:   p.MetodoPago,
		DescuentoPct: p.DescuentoPct,
		TasaCambioID: optString(p.TasaCambioID),
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
	if tasa != nil {
		bcv := tasa.TasaBCV
		resp.TasaBCV = &bcv
	}
	return resp
}
