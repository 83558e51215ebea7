package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"rackpos/internal/dto"
)

// Recurso names the parent collection a payment settles against.
type Recurso string

const (
	RecursoVentas  Recurso = "ventas"
	RecursoCuentas Recurso = "cuentas"
)

func (r Recurso) path(id string) string {
	if id == "" {
		return "/v1/" + string(r)
	}
	return "/v1/" + string(r) + "/" + url.PathEscape(id)
}

// PagoFallidoError reports that the parent was created (or reused) but the
// payment was not registered. The parent stays pending; retrying Checkout with
// TransaccionID only repeats the payment step.
type PagoFallidoError struct {
	Recurso       Recurso
	TransaccionID string
	Err           error
}

func (e *PagoFallidoError) Error() string {
	return fmt.Sprintf("%s %s creada sin pago: %v", e.Recurso, e.TransaccionID, e.Err)
}

func (e *PagoFallidoError) Unwrap() error { return e.Err }

// Checkout settles a sale or account in two steps: create the parent unless
// transaccionID names an existing one, then register the payment. There is
// no rollback of the first step.
func (c *Client) Checkout(ctx context.Context, r Recurso, transaccionID string, crear any, pago dto.RegistrarPagoRequest) (*dto.TransaccionResponse, error) {
	if transaccionID == "" {
		var creada dto.TransaccionResponse
		if err := c.do(ctx, http.MethodPost, r.path(""), nil, crear, &creada); err != nil {
			return nil, err
		}
		transaccionID = creada.ID
	}
	out, err := c.RegistrarPago(ctx, r, transaccionID, pago)
	if err != nil {
		return nil, &PagoFallidoError{Recurso: r, TransaccionID: transaccionID, Err: err}
	}
	return out, nil
}
