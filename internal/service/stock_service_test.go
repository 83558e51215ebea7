package service_test

import (
	"context"
	"testing"

	"rackpos/internal/carrito"
	"rackpos/internal/dto"
	"rackpos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockAjustar(t *testing.T) {
	stock := newStubStockRepo()
	movs := &stubMovRepo{}
	svc := service.NewStockService(stock, movs, nil)
	sucursal, producto := uuid.New(), uuid.New()
	stock.set(sucursal, producto, d("5"))

	got, err := svc.Ajustar(context.Background(), sucursal, producto, dto.AjustarStockRequest{Delta: d("-2"), Motivo: "merma"})
	require.NoError(t, err)
	assert.True(t, got.Cantidad.Equal(d("3")))

	_, err = svc.Ajustar(context.Background(), sucursal, producto, dto.AjustarStockRequest{Delta: d("-4"), Motivo: "merma"})
	assert.ErrorIs(t, err, carrito.ErrStockInsuficiente)

	_, err = svc.Ajustar(context.Background(), sucursal, producto, dto.AjustarStockRequest{Delta: d("0"), Motivo: "nada"})
	assert.ErrorIs(t, err, service.ErrValidacion)

	rows, total, err := svc.Movimientos(context.Background(), sucursal, dto.MovimientoFilter{Paginacion: dto.Paginacion{Page: 1, Limit: 20}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "ajuste_manual", rows[0].Tipo)
	assert.True(t, rows[0].StockAnterior.Equal(d("5")))
	assert.True(t, rows[0].StockNuevo.Equal(d("3")))

	list, _, err := svc.Listar(context.Background(), sucursal, dto.StockFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Cantidad.Equal(d("3")))
}
