package handler

import (
	"net/http"

	"rackpos/internal/dto"
	"rackpos/internal/middleware"
	"rackpos/internal/service"

	"github.com/gin-gonic/gin"
)

// CuentasHandler serves purchase accounts owed to providers.
type CuentasHandler struct{ svc service.CuentaService }

func NewCuentasHandler(svc service.CuentaService) *CuentasHandler { return &CuentasHandler{svc: svc} }

// Crear godoc
// @Summary      Registrar una compra a proveedor
// @Description  Suma las cantidades al stock de la sucursal. Sin tope de stock.
// @Tags         cuentas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearCuentaRequest true "Compra"
// @Success      201  {object} dto.TransaccionResponse
// @Router       /v1/cuentas [post]
func (h *CuentasHandler) Crear(c *gin.Context) {
	var req dto.CrearCuentaRequest
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

func (h *CuentasHandler) Listar(c *gin.Context) {
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

func (h *CuentasHandler) Obtener(c *gin.Context) {
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

func (h *CuentasHandler) RegistrarPago(c *gin.Context) {
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

func (h *CuentasHandler) ListarPagos(c *gin.Context) {
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
