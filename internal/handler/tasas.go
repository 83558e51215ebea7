package handler

import (
	"net/http"

	"rackpos/internal/dto"
	"rackpos/internal/service"

	"github.com/gin-gonic/gin"
)

type TasasHandler struct{ svc service.TasaService }

func NewTasasHandler(svc service.TasaService) *TasasHandler { return &TasasHandler{svc: svc} }

func (h *TasasHandler) Listar(c *gin.Context) {
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

// Hoy godoc
// @Summary Tasa de cambio vigente
// @Description La del dia o, si aun no existe, la ultima registrada.
// @Tags tasas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.TasaResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/tasas/hoy [get]
func (h *TasasHandler) Hoy(c *gin.Context) {
	resp, err := h.svc.Hoy(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TasasHandler) Crear(c *gin.Context) {
	var req dto.CrearTasaRequest
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
