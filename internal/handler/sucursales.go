package handler

import (
	"net/http"

	"rackpos/internal/dto"
	"rackpos/internal/service"

	"github.com/gin-gonic/gin"
)

type SucursalesHandler struct {
	svc   service.SucursalService
	stock service.StockService
}

func NewSucursalesHandler(svc service.SucursalService, stock service.StockService) *SucursalesHandler {
	return &SucursalesHandler{svc: svc, stock: stock}
}

// Listar godoc
// @Summary Lista sucursales
// @Tags sucursales
// @Produce json
// @Security BearerAuth
// @Param page query int false "Pagina"
// @Param limit query int false "Tamano de pagina"
// @Success 200 {object} dto.Pagina[dto.SucursalResponse]
// @Router /v1/sucursales [get]
func (h *SucursalesHandler) Listar(c *gin.Context) {
	var p dto.Paginacion
	if !bindQuery(c, &p) {
		return
	}
	p.Normalizar()
	items, total, err := h.svc.Listar(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagina(c, p, items, total))
}

func (h *SucursalesHandler) Crear(c *gin.Context) {
	var req dto.SucursalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SucursalesHandler) Actualizar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.SucursalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stock godoc
// @Summary Existencias de una sucursal
// @Tags stock
// @Produce json
// @Security BearerAuth
// @Param id path string true "Sucursal"
// @Param buscar query string false "Codigo o nombre"
// @Success 200 {object} dto.Pagina[dto.StockResponse]
// @Router /v1/sucursales/{id}/stock [get]
func (h *SucursalesHandler) Stock(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var f dto.StockFilter
	if !bindQuery(c, &f) {
		return
	}
	f.Normalizar()
	items, total, err := h.stock.Listar(c.Request.Context(), id, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagina(c, f.Paginacion, items, total))
}

// AjustarStock godoc
// @Summary Ajuste manual de existencias
// @Description Aplica un delta (positivo o negativo) y registra el movimiento. Nunca deja stock negativo.
// @Tags stock
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Sucursal"
// @Param producto_id path string true "Producto"
// @Param body body dto.AjustarStockRequest true "Ajuste"
// @Success 200 {object} dto.StockResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/sucursales/{id}/stock/{producto_id} [patch]
func (h *SucursalesHandler) AjustarStock(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	productoID, ok := paramUUID(c, "producto_id")
	if !ok {
		return
	}
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.stock.Ajustar(c.Request.Context(), id, productoID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SucursalesHandler) Movimientos(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var f dto.MovimientoFilter
	if !bindQuery(c, &f) {
		return
	}
	f.Normalizar()
	items, total, err := h.stock.Movimientos(c.Request.Context(), id, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagina(c, f.Paginacion, items, total))
}
