package handler_test

import (
	"bytes"
	"net/http"
	"testing"

	"rackpos/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportarVentas_XLSX(t *testing.T) {
	svc := &fakeVentaService{
		ventas: []dto.TransaccionResponse{
			{Numero: 1, Tercero: "Maria", Estado: "pagada", TotalUSD: decimal.RequireFromString("34.80"), TotalPagadoUSD: decimal.RequireFromString("34.80")},
			{Numero: 2, Tercero: "Pedro", Estado: "pendiente", TotalUSD: decimal.RequireFromString("10.00"), PendienteUSD: decimal.RequireFromString("10.00")},
		},
		total: 2,
	}
	w := doJSON(ventasRouter(svc), http.MethodGet, "/v1/ventas/exportar?estado=pagada&page=7", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "ventas.xlsx")
	assert.Equal(t, "pagada", svc.gotFilter.Estado)
	assert.Equal(t, 1, svc.gotFilter.Page, "export always starts from the first page")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Ventas")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Cliente", rows[0][2])
	assert.Equal(t, "Pedro", rows[2][2])
	assert.Equal(t, "TOTAL", rows[3][3])

	formula, err := f.GetCellFormula("Ventas", "E4")
	require.NoError(t, err)
	assert.Equal(t, "SUM(E2:E3)", formula)
}
