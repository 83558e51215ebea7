package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"rackpos/internal/carrito"
	"rackpos/internal/dto"
	"rackpos/internal/pago"
	"rackpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("venta: %w", service.ErrNoEncontrado), http.StatusNotFound},
		{service.ErrCredenciales, http.StatusUnauthorized},
		{service.ErrTokenInvalido, http.StatusUnauthorized},
		{service.ErrRegistroCerrado, http.StatusForbidden},
		{fmt.Errorf("Harina: %w", carrito.ErrStockInsuficiente), http.StatusConflict},
		{service.ErrEstadoInvalido, http.StatusConflict},
		{service.ErrTasaDuplicada, http.StatusConflict},
		{fmt.Errorf("cliente: %w", service.ErrDuplicado), http.StatusConflict},
		{pago.ErrMontoExcedido, http.StatusUnprocessableEntity},
		{pago.ErrSinSaldo, http.StatusUnprocessableEntity},
		{pago.ErrTasaRequerida, http.StatusUnprocessableEntity},
		{service.ErrTasaNoDisponible, http.StatusUnprocessableEntity},
		{fmt.Errorf("Harina: %w", service.ErrCantidadFraccionaria), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: delta no puede ser cero", service.ErrValidacion), http.StatusBadRequest},
		{errors.New("dial tcp 10.0.0.5:5432: connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestRespondError_NoExponeErroresInternos(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/ventas", nil)
	respondError(c, errors.New(`pq: relation "ventas" does not exist`))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "relation")
	assert.Contains(t, w.Body.String(), "Error interno del servidor")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/v1/sucursales/x/stock/y", nil)
	respondError(c, fmt.Errorf("%w: delta no puede ser cero", service.ErrValidacion))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "delta no puede ser cero")
}

func TestPagina_Links(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(target string, p dto.Paginacion, total int64, header map[string]string) dto.Pagina[int] {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, target, nil)
		for k, v := range header {
			c.Request.Header.Set(k, v)
		}
		return pagina(c, p, []int{1, 2}, total)
	}

	first := run("http://pos.local/v1/ventas?estado=pendiente", dto.Paginacion{Page: 1, Limit: 2}, 5, nil)
	require.NotNil(t, first.Links.Next)
	assert.Equal(t, "http://pos.local/v1/ventas?estado=pendiente&limit=2&page=2", *first.Links.Next)
	assert.Nil(t, first.Links.Previous)
	assert.EqualValues(t, 5, first.Count)

	last := run("http://pos.local/v1/ventas?page=3&limit=2", dto.Paginacion{Page: 3, Limit: 2}, 5,
		map[string]string{"X-Forwarded-Proto": "https"})
	assert.Nil(t, last.Links.Next)
	require.NotNil(t, last.Links.Previous)
	assert.Equal(t, "https://pos.local/v1/ventas?limit=2&page=2", *last.Links.Previous)

	empty := pagina[string](nil, dto.Paginacion{Page: 1, Limit: 20}, nil, 0)
	assert.NotNil(t, empty.Results)
	assert.Nil(t, empty.Links.Next)
}
