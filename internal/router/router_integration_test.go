//go:build integration

package router_test

// End-to-end tests against real Postgres and Redis containers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"rackpos/internal/apiclient"
	"rackpos/internal/carrito"
	"rackpos/internal/config"
	"rackpos/internal/dto"
	"rackpos/internal/infra"
	"rackpos/internal/router"
	"rackpos/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	client *apiclient.Client
	token  string // admin access token, sent as Bearer by raw requests
	rdb    *redis.Client
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) create(t *testing.T, path string, body any) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, path)
	var out struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &out)
	require.NotEmpty(t, out.ID)
	return out.ID
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── Setup ────────────────────────────────────────────────────────────────────

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcPostgres.WithDatabase("rackpos_test"),
		tcPostgres.WithUsername("rackpos"),
		tcPostgres.WithPassword("rackpos"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                 "test",
		JWTSecret:           "test-secret-key",
		JWTExpirationHours:  1,
		JWTRefreshHours:     24,
		DatabaseURL:         pgURL,
		RedisURL:            rdURL,
		ListCacheTTLSeconds: 30,
		PDFStoragePath:      t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	cb := infra.NewCircuitBreaker("tasas", infra.DefaultCBConfig())
	srv := httptest.NewServer(router.New(cfg, db, rdb, cb, worker.NewDispatcher(rdb)))
	t.Cleanup(srv.Close)

	client, err := apiclient.New(srv.URL)
	require.NoError(t, err)
	_, err = client.Register(ctx, dto.RegisterRequest{
		Username:   "admin",
		Nombre:     "Admin E2E",
		Password:   "rackpos2026",
		Empresa:    "Bodega E2E",
		EmpresaRIF: "J-40000000-1",
	})
	require.NoError(t, err)

	return &testEnv{server: srv, client: client, token: client.Credenciales().Access, rdb: rdb}
}

// catalogo seeds a branch, a customer and one IVA-flagged product costing
// 15.00 with ten units in stock and a daily rate of 40 VES/USD.
func (e *testEnv) catalogo(t *testing.T) (sucursalID, clienteID, productoID string) {
	t.Helper()
	sucursalID = e.create(t, "/v1/sucursales", dto.SucursalRequest{Nombre: "Principal"})
	clienteID = e.create(t, "/v1/clientes", dto.ClienteRequest{Nombre: "Cliente E2E", Documento: "V-20000000"})
	unidadID := e.create(t, "/v1/unidades-medida", dto.UnidadMedidaRequest{Nombre: "unidad", Abreviatura: "und"})
	productoID = e.create(t, "/v1/productos", dto.CrearProductoRequest{
		Codigo:         "7591000000011",
		Nombre:         "Aceite 1L",
		PrecioCosto:    d("15.00"),
		MargenPct:      decimal.Zero,
		IVA:            true,
		UnidadMedidaID: unidadID,
	})

	resp := e.do(t, http.MethodPatch, "/v1/sucursales/"+sucursalID+"/stock/"+productoID,
		dto.AjustarStockRequest{Delta: decimal.NewFromInt(10), Motivo: "inventario inicial"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	e.create(t, "/v1/tasas", dto.CrearTasaRequest{TasaBCV: d("40"), TasaParalelo: d("42")})
	return sucursalID, clienteID, productoID
}

func (e *testEnv) stock(t *testing.T, sucursalID string) decimal.Decimal {
	t.Helper()
	resp := e.do(t, http.MethodGet, "/v1/sucursales/"+sucursalID+"/stock", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page dto.Pagina[dto.StockResponse]
	decodeJSON(t, resp, &page)
	require.Len(t, page.Results, 1)
	return page.Results[0].Cantidad
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_VentaConPagoMixto(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	sucursalID, clienteID, _ := env.catalogo(t)

	productos, err := env.client.Productos("", sucursalID).Todos(ctx)
	require.NoError(t, err)
	require.Len(t, productos, 1)
	p, err := apiclient.ProductoCarrito(productos[0])
	require.NoError(t, err)

	cart := carrito.New(carrito.ContextoVenta, apiclient.NewDetalleLoader(env.client, sucursalID))
	require.NoError(t, cart.AgregarItem(ctx, p))
	require.NoError(t, cart.AgregarItem(ctx, p))
	require.NoError(t, cart.Esperar(ctx))
	require.True(t, cart.Total().Equal(d("34.80")))

	crear := dto.CrearVentaRequest{SucursalID: sucursalID, ClienteID: clienteID, Items: apiclient.ItemsRequest(cart.Items(), false)}
	venta, err := env.client.Checkout(ctx, apiclient.RecursoVentas, "", crear,
		dto.RegistrarPagoRequest{Moneda: "VES", Monto: d("696.00"), MetodoPago: "pago_movil"})
	require.NoError(t, err)
	assert.Equal(t, "pendiente", venta.Estado)
	assert.True(t, venta.PendienteUSD.Equal(d("17.40")))

	venta, err = env.client.Checkout(ctx, apiclient.RecursoVentas, venta.ID, nil,
		dto.RegistrarPagoRequest{Moneda: "USD", Monto: d("17.40"), MetodoPago: "efectivo"})
	require.NoError(t, err)
	assert.Equal(t, "pagada", venta.Estado)

	pagos, err := env.client.Pagos(ctx, apiclient.RecursoVentas, venta.ID)
	require.NoError(t, err)
	assert.Len(t, pagos, 2)

	assert.True(t, env.stock(t, sucursalID).Equal(decimal.NewFromInt(8)))

	pagadas, err := env.client.Ventas(dto.TransaccionFilter{Estado: "pagada"}).Todos(ctx)
	require.NoError(t, err)
	require.Len(t, pagadas, 1)
	assert.Equal(t, venta.ID, pagadas[0].ID)
}

func TestE2E_PagoExcedidoDejaVentaPendiente(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	sucursalID, clienteID, productoID := env.catalogo(t)

	crear := dto.CrearVentaRequest{
		SucursalID: sucursalID,
		ClienteID:  clienteID,
		Items:      []dto.ItemRequest{{ProductoID: productoID, Cantidad: decimal.NewFromInt(1)}},
	}
	_, err := env.client.Checkout(ctx, apiclient.RecursoVentas, "", crear,
		dto.RegistrarPagoRequest{Moneda: "USD", Monto: d("50.00"), MetodoPago: "efectivo"})

	var pf *apiclient.PagoFallidoError
	require.True(t, errors.As(err, &pf))
	assert.Equal(t, http.StatusUnprocessableEntity, apiclient.StatusOf(err))

	v, err := env.client.Venta(ctx, pf.TransaccionID)
	require.NoError(t, err)
	assert.Equal(t, "pendiente", v.Estado)
	assert.True(t, env.stock(t, sucursalID).Equal(decimal.NewFromInt(9)))

	require.NoError(t, env.client.AnularVenta(ctx, pf.TransaccionID, "cliente desistio"))
	assert.True(t, env.stock(t, sucursalID).Equal(decimal.NewFromInt(10)))
}

func TestE2E_StockInsuficiente(t *testing.T) {
	env := setupTestEnv(t)
	sucursalID, clienteID, productoID := env.catalogo(t)

	resp := env.do(t, http.MethodPost, "/v1/ventas", dto.CrearVentaRequest{
		SucursalID: sucursalID,
		ClienteID:  clienteID,
		Items:      []dto.ItemRequest{{ProductoID: productoID, Cantidad: decimal.NewFromInt(11)}},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.True(t, env.stock(t, sucursalID).Equal(decimal.NewFromInt(10)))
}

func TestE2E_RegistroCerradoTrasBootstrap(t *testing.T) {
	env := setupTestEnv(t)
	c, err := apiclient.New(env.server.URL)
	require.NoError(t, err)

	_, err = c.Register(context.Background(), dto.RegisterRequest{
		Username: "otro", Nombre: "Otro", Password: "rackpos2026", Empresa: "Otra", EmpresaRIF: "J-40000000-2",
	})
	assert.Equal(t, http.StatusForbidden, apiclient.StatusOf(err))

	me, err := env.client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", me.Username)
}

func TestE2E_ReencolarDLQ(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	parked := `{"type":"email","payload":{"to":"x@y.z"},"attempts":3,"queue":"jobs:email","reason":"smtp caido"}`
	require.NoError(t, env.rdb.LPush(ctx, "dlq:"+worker.QueueEmail, parked).Err())

	resp := env.do(t, http.MethodPost, "/v1/admin/dlq/email/reencolar", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Reencolados int `json:"reencolados"`
	}
	decodeJSON(t, resp, &out)
	assert.Equal(t, 1, out.Reencolados)

	raw, err := env.rdb.RPop(ctx, worker.QueueEmail).Result()
	require.NoError(t, err)
	var job worker.Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, worker.JobEmail, job.Type)
	assert.Zero(t, job.Attempts)
}

func TestE2E_HealthYEmpresa(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var health struct {
		OK    bool   `json:"ok"`
		DB    string `json:"db"`
		Redis string `json:"redis"`
	}
	decodeJSON(t, resp, &health)
	assert.True(t, health.OK)
	assert.Equal(t, "connected", health.DB)
	assert.Equal(t, "connected", health.Redis)

	resp = env.do(t, http.MethodGet, "/v1/empresa", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var empresa dto.EmpresaResponse
	decodeJSON(t, resp, &empresa)
	assert.Equal(t, "Bodega E2E", empresa.Nombre)

	resp = env.do(t, http.MethodPut, "/v1/empresa", dto.ActualizarEmpresaRequest{
		Nombre: "Bodega Centro", RIF: empresa.RIF,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &empresa)
	assert.Equal(t, "Bodega Centro", empresa.Nombre)
}
