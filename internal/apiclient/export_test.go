package apiclient_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"rackpos/internal/apiclient"
	"rackpos/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportarVentas(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/ventas/exportar", r.URL.Path)
		query = r.URL.RawQuery
		if r.URL.Query().Get("estado") == "rota" {
			writeJSON(w, http.StatusForbidden, map[string]string{"detail": "permiso denegado"})
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_, _ = w.Write([]byte("PK\x03\x04xlsx"))
	}))
	defer srv.Close()

	c, err := apiclient.New(srv.URL)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.ExportarVentas(context.Background(), dto.TransaccionFilter{Estado: "pagada", Desde: "2026-03-01"}, &buf))
	assert.Equal(t, "PK\x03\x04xlsx", buf.String())
	assert.Equal(t, "desde=2026-03-01&estado=pagada", query)

	buf.Reset()
	err = c.ExportarVentas(context.Background(), dto.TransaccionFilter{Estado: "rota"}, &buf)
	assert.Equal(t, http.StatusForbidden, apiclient.StatusOf(err))
	assert.Zero(t, buf.Len())
}
