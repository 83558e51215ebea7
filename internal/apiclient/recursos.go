package apiclient

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"rackpos/internal/dto"
)

// ── Auth ─────────────────────────────────────────────────────────────────────

func (c *Client) Login(ctx context.Context, username, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", nil, dto.LoginRequest{Username: username, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/logout", nil, nil, nil)
}

func (c *Client) Me(ctx context.Context) (*dto.UsuarioResponse, error) {
	var out dto.UsuarioResponse
	if err := c.do(ctx, http.MethodGet, "/v1/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Catalogo ─────────────────────────────────────────────────────────────────

func (c *Client) Sucursales() *Paginador[dto.SucursalResponse] {
	return NewPaginador[dto.SucursalResponse](c, "/v1/sucursales", nil)
}

func (c *Client) Clientes(buscar string) *Paginador[dto.ClienteResponse] {
	return NewPaginador[dto.ClienteResponse](c, "/v1/clientes", queryOf("buscar", buscar))
}

func (c *Client) Proveedores(buscar string) *Paginador[dto.ProveedorResponse] {
	return NewPaginador[dto.ProveedorResponse](c, "/v1/proveedores", queryOf("buscar", buscar))
}

// Productos lists the catalog; with sucursalID each product carries its stock.
func (c *Client) Productos(buscar, sucursalID string) *Paginador[dto.ProductoResponse] {
	return NewPaginador[dto.ProductoResponse](c, "/v1/productos", queryOf("buscar", buscar, "sucursal_id", sucursalID))
}

func (c *Client) Producto(ctx context.Context, id string) (*dto.ProductoResponse, error) {
	var out dto.ProductoResponse
	if err := c.do(ctx, http.MethodGet, "/v1/productos/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DetalleProducto(ctx context.Context, id, sucursalID string) (*dto.ProductoDetalleResponse, error) {
	var out dto.ProductoDetalleResponse
	err := c.do(ctx, http.MethodGet, "/v1/productos/"+url.PathEscape(id)+"/detalle", queryOf("sucursal_id", sucursalID), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Ventas y cuentas ─────────────────────────────────────────────────────────

func (c *Client) Ventas(filter dto.TransaccionFilter) *Paginador[dto.TransaccionResponse] {
	return NewPaginador[dto.TransaccionResponse](c, "/v1/ventas", transaccionQuery(filter))
}

// ExportarVentas writes the .xlsx report for filter to w. Paging fields are ignored.
func (c *Client) ExportarVentas(ctx context.Context, filter dto.TransaccionFilter, w io.Writer) error {
	return c.download(ctx, "/v1/ventas/exportar", transaccionQuery(filter), w)
}

func (c *Client) Cuentas(filter dto.TransaccionFilter) *Paginador[dto.TransaccionResponse] {
	return NewPaginador[dto.TransaccionResponse](c, "/v1/cuentas", transaccionQuery(filter))
}

func (c *Client) Venta(ctx context.Context, id string) (*dto.TransaccionResponse, error) {
	return c.transaccion(ctx, RecursoVentas, id)
}

func (c *Client) Cuenta(ctx context.Context, id string) (*dto.TransaccionResponse, error) {
	return c.transaccion(ctx, RecursoCuentas, id)
}

func (c *Client) transaccion(ctx context.Context, r Recurso, id string) (*dto.TransaccionResponse, error) {
	var out dto.TransaccionResponse
	if err := c.do(ctx, http.MethodGet, r.path(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CrearVenta(ctx context.Context, req dto.CrearVentaRequest) (*dto.TransaccionResponse, error) {
	var out dto.TransaccionResponse
	if err := c.do(ctx, http.MethodPost, RecursoVentas.path(""), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CrearCuenta(ctx context.Context, req dto.CrearCuentaRequest) (*dto.TransaccionResponse, error) {
	var out dto.TransaccionResponse
	if err := c.do(ctx, http.MethodPost, RecursoCuentas.path(""), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegistrarPago posts a payment against a sale or account and returns the
// parent with its updated balance.
func (c *Client) RegistrarPago(ctx context.Context, r Recurso, id string, req dto.RegistrarPagoRequest) (*dto.TransaccionResponse, error) {
	var out dto.TransaccionResponse
	if err := c.do(ctx, http.MethodPost, r.path(id)+"/pagos", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Pagos(ctx context.Context, r Recurso, id string) ([]dto.PagoResponse, error) {
	var out []dto.PagoResponse
	if err := c.do(ctx, http.MethodGet, r.path(id)+"/pagos", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AnularVenta(ctx context.Context, id, motivo string) error {
	return c.do(ctx, http.MethodDelete, RecursoVentas.path(id), nil, dto.AnularVentaRequest{Motivo: motivo}, nil)
}

// ── Tasas ────────────────────────────────────────────────────────────────────

func (c *Client) TasaHoy(ctx context.Context) (*dto.TasaResponse, error) {
	var out dto.TasaResponse
	if err := c.do(ctx, http.MethodGet, "/v1/tasas/hoy", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Tasas() *Paginador[dto.TasaResponse] {
	return NewPaginador[dto.TasaResponse](c, "/v1/tasas", nil)
}

// queryOf builds query values from key/value pairs, skipping empty values.
func queryOf(kv ...string) url.Values {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			q.Set(kv[i], kv[i+1])
		}
	}
	return q
}

func transaccionQuery(f dto.TransaccionFilter) url.Values {
	q := queryOf(
		"sucursal_id", f.SucursalID,
		"tercero_id", f.TerceroID,
		"estado", f.Estado,
		"desde", f.Desde,
		"hasta", f.Hasta,
	)
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}
