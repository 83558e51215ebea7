package handler

import (
	"bytes"
	"net/http"

	"rackpos/internal/apierror"
	"rackpos/internal/dto"
	"rackpos/internal/infra"
	"rackpos/internal/middleware"
	"rackpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// Crear godoc
// @Summary      Registrar una nueva venta
// @Description  Re-cotiza cada linea, valida y descuenta stock de la sucursal en una sola transaccion. La venta queda pendiente hasta registrar pagos.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearVentaRequest true "Detalle de la venta"
// @Success      201  {object} dto.TransaccionResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas [post]
func (h *VentasHandler) Crear(c *gin.Context) {
	var req dto.CrearVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar ventas
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        sucursal_id query string false "Sucursal"
// @Param        tercero_id  query string false "Cliente"
// @Param        estado      query string false "pendiente | pagada | anulada"
// @Param        desde       query string false "YYYY-MM-DD"
// @Param        hasta       query string false "YYYY-MM-DD"
// @Param        page        query int    false "Pagina"
// @Param        limit       query int    false "Registros por pagina"
// @Success      200 {object} dto.Pagina[dto.TransaccionResponse]
// @Router       /v1/ventas [get]
func (h *VentasHandler) Listar(c *gin.Context) {
	var filter dto.TransaccionFilter
	if !bindQuery(c, &filter) {
		return
	}
	filter.Normalizar()
	items, total, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagina(c, filter.Paginacion, items, total))
}

// maxFilasExport bounds the spreadsheet to a sane number of rows.
const maxFilasExport = 10000

// Exportar godoc
// @Summary      Exportar ventas a Excel
// @Description  Mismos filtros que el listado, sin paginar. Devuelve un libro .xlsx.
// @Tags         ventas
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        sucursal_id query string false "Sucursal"
// @Param        estado      query string false "pendiente | pagada | anulada"
// @Param        desde       query string false "YYYY-MM-DD"
// @Param        hasta       query string false "YYYY-MM-DD"
// @Success      200 {file} file
// @Router       /v1/ventas/exportar [get]
func (h *VentasHandler) Exportar(c *gin.Context) {
	var filter dto.TransaccionFilter
	if !bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.Limit = 1, 200
	var ventas []dto.TransaccionResponse
	for len(ventas) < maxFilasExport {
		items, total, err := h.svc.Listar(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		ventas = append(ventas, items...)
		if len(items) == 0 || int64(len(ventas)) >= total {
			break
		}
		filter.Page++
	}

	var buf bytes.Buffer
	if err := infra.WriteVentasXLSX(&buf, ventas); err != nil {
		log.Error().Err(err).Msg("ventas: export failed")
		c.JSON(http.StatusInternalServerError, apierror.New("no se pudo generar el archivo"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="ventas.xlsx"`)
	c.Data(http.StatusOK, mimeXLSX, buf.Bytes())
}

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *VentasHandler) Obtener(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) Detalles(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Detalles(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarPago godoc
// @Summary      Registrar un pago contra una venta
// @Description  USD admite descuento; VES usa la tasa BCV vigente (o tasa_cambio_id) y fuerza descuento 0. Tolerancia de 0.01 en la moneda del pago.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "Venta"
// @Param        body body dto.RegistrarPagoRequest true "Pago"
// @Success      201  {object} dto.TransaccionResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/ventas/{id}/pagos [post]
func (h *VentasHandler) RegistrarPago(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.RegistrarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarPago(c.Request.Context(), middleware.UsuarioID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *VentasHandler) ListarPagos(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarPagos(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Anular godoc
// @Summary      Anular venta
// @Description  Solo ventas sin pagos. Restaura el stock con movimientos inversos.
// @Tags         ventas
// @Accept       json
// @Security     BearerAuth
// @Param        id   path string                 true "Venta"
// @Param        body body dto.AnularVentaRequest true "Motivo"
// @Success      204
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas/{id} [delete]
func (h *VentasHandler) Anular(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AnularVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Anular(c.Request.Context(), id, req.Motivo); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
