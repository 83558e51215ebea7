package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"rackpos/internal/apierror"
	"rackpos/internal/carrito"
	"rackpos/internal/dto"
	"rackpos/internal/pago"
	"rackpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// On failure the response is already written and the caller must return.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQuery binds list filters from the query string.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// paramUUID parses a path parameter, writing 400 when it is malformed.
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(name+" invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// statusFor maps service and domain errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNoEncontrado):
		return http.StatusNotFound
	case errors.Is(err, service.ErrCredenciales), errors.Is(err, service.ErrTokenInvalido):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrRegistroCerrado):
		return http.StatusForbidden
	case errors.Is(err, carrito.ErrStockInsuficiente),
		errors.Is(err, service.ErrEstadoInvalido),
		errors.Is(err, service.ErrTasaDuplicada),
		errors.Is(err, service.ErrDuplicado):
		return http.StatusConflict
	case errors.Is(err, pago.ErrMontoExcedido),
		errors.Is(err, pago.ErrMontoInvalido),
		errors.Is(err, pago.ErrSinSaldo),
		errors.Is(err, pago.ErrTasaRequerida),
		errors.Is(err, pago.ErrDescuentoInvalido),
		errors.Is(err, pago.ErrMonedaInvalida),
		errors.Is(err, service.ErrTasaNoDisponible),
		errors.Is(err, service.ErrCantidadFraccionaria),
		errors.Is(err, carrito.ErrUnidadNoEncontrada):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrValidacion):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error envelope with the status statusFor picks.
// Unclassified errors are logged and answered with a generic message.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusInternalServerError:
		log.Error().Err(err).Str("path", c.FullPath()).Str("method", c.Request.Method).Msg("unhandled error")
		c.JSON(status, apierror.New("Error interno del servidor"))
		return
	case http.StatusBadRequest:
		log.Debug().Err(err).Str("path", c.FullPath()).Msg("request rejected")
	}
	c.JSON(status, apierror.New(err.Error()))
}

// pagina wraps results in the list envelope, deriving links from the request
// URL so clients can follow links.next verbatim.
func pagina[T any](c *gin.Context, p dto.Paginacion, results []T, total int64) dto.Pagina[T] {
	if results == nil {
		results = []T{}
	}
	out := dto.Pagina[T]{Count: total, Results: results}
	if int64(p.Page*p.Limit) < total {
		next := pageURL(c, p.Page+1, p.Limit)
		out.Links.Next = &next
	}
	if p.Page > 1 {
		prev := pageURL(c, p.Page-1, p.Limit)
		out.Links.Previous = &prev
	}
	return out
}

func pageURL(c *gin.Context, page, limit int) string {
	u := *c.Request.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	u.Scheme = scheme
	u.Host = c.Request.Host
	return u.String()
}
