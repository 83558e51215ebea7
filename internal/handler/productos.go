package handler

import (
	"net/http"

	"rackpos/internal/apierror"
	"rackpos/internal/dto"
	"rackpos/internal/middleware"
	"rackpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductosHandler struct{ svc service.ProductoService }

func NewProductosHandler(svc service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

// Crear godoc
// @Summary Crea un producto
// @Tags productos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearProductoRequest true "Producto"
// @Success 201 {object} dto.ProductoResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/productos [post]
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
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

// Listar godoc
// @Summary Lista productos
// @Description Con sucursal_id cada producto incluye su stock en esa sucursal.
// @Tags productos
// @Produce json
// @Security BearerAuth
// @Param buscar query string false "Codigo exacto o parte del nombre"
// @Param proveedor_id query string false "Proveedor"
// @Param sucursal_id query string false "Sucursal para el stock"
// @Param activo query string false "false | all"
// @Param page query int false "Pagina"
// @Param limit query int false "Tamano de pagina"
// @Success 200 {object} dto.Pagina[dto.ProductoResponse]
// @Router /v1/productos [get]
func (h *ProductosHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
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

func (h *ProductosHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar records a price history entry when cost, margin or VAT change.
func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), middleware.UsuarioID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Desactivar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Detalle godoc
// @Summary Unidades de venta, unidad de medida y stock de un producto
// @Description Lo que el carrito necesita tras agregar el producto.
// @Tags productos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Producto"
// @Param sucursal_id query string false "Sucursal para el stock"
// @Success 200 {object} dto.ProductoDetalleResponse
// @Router /v1/productos/{id}/detalle [get]
func (h *ProductosHandler) Detalle(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var sucursalID *uuid.UUID
	if s := c.Query("sucursal_id"); s != "" {
		sid, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("sucursal_id invalido"))
			return
		}
		sucursalID = &sid
	}
	resp, err := h.svc.Detalle(c.Request.Context(), id, sucursalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) ListarUnidadesVenta(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarUnidadesVenta(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) CrearUnidadVenta(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UnidadVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearUnidadVenta(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Historial godoc
// @Summary Historial de cambios de precio
// @Tags productos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Producto"
// @Success 200 {object} dto.Pagina[dto.HistorialPrecioItem]
// @Router /v1/productos/{id}/historial-precios [get]
func (h *ProductosHandler) Historial(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var p dto.Paginacion
	if !bindQuery(c, &p) {
		return
	}
	p.Normalizar()
	items, total, err := h.svc.Historial(c.Request.Context(), id, p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagina(c, p, items, total))
}

// ── Unidades de medida ───────────────────────────────────────────────────────

func (h *ProductosHandler) ListarUnidadesMedida(c *gin.Context) {
	resp, err := h.svc.ListarUnidadesMedida(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) CrearUnidadMedida(c *gin.Context) {
	var req dto.UnidadMedidaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearUnidadMedida(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
