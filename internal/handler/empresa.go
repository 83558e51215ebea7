package handler

import (
	"net/http"

	"rackpos/internal/dto"
	"rackpos/internal/service"

	"github.com/gin-gonic/gin"
)

type EmpresaHandler struct{ svc service.EmpresaService }

func NewEmpresaHandler(svc service.EmpresaService) *EmpresaHandler {
	return &EmpresaHandler{svc: svc}
}

// Obtener godoc
// @Summary Datos de la empresa
// @Tags empresa
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.EmpresaResponse
// @Router /v1/empresa [get]
func (h *EmpresaHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary Actualiza los datos de la empresa
// @Tags empresa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ActualizarEmpresaRequest true "Datos"
// @Success 200 {object} dto.EmpresaResponse
// @Router /v1/empresa [put]
func (h *EmpresaHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarEmpresaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
