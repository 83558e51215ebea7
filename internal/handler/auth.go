package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"rackpos/internal/apierror"
	"rackpos/internal/dto"
	"rackpos/internal/middleware"
	"rackpos/internal/service"

	"github.com/gin-gonic/gin"
)

// CookieConfig controls how session cookies are issued.
type CookieConfig struct {
	Domain string
	Secure bool
}

type AuthHandler struct {
	svc     service.AuthService
	cookies CookieConfig
}

func NewAuthHandler(svc service.AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{svc: svc, cookies: cookies}
}

// Login godoc
// @Summary Login de usuario
// @Description Emite las cookies access_token y refresh_token (HttpOnly) y csrftoken.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, tokens, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	h.setSession(c, tokens)
	c.JSON(http.StatusOK, resp)
}

// Register godoc
// @Summary Alta inicial de empresa y administrador
// @Description Solo disponible mientras no exista ningun usuario.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "Empresa y administrador"
// @Success 201 {object} dto.LoginResponse
// @Failure 403 {object} apierror.APIError
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, tokens, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setSession(c, tokens)
	c.JSON(http.StatusCreated, resp)
}

// Refresh godoc
// @Summary Renueva el par de tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshRequest false "Refresh token (opcional si viaja en cookie)"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	// body is optional
	_ = c.ShouldBindJSON(&req)
	token := req.RefreshToken
	if token == "" {
		token, _ = c.Cookie(middleware.RefreshCookie)
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, apierror.New("Refresh token requerido"))
		return
	}
	resp, tokens, err := h.svc.Refresh(c.Request.Context(), token)
	if err != nil {
		h.clearSession(c)
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	h.setSession(c, tokens)
	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Cierra la sesion borrando las cookies
// @Tags auth
// @Success 204
// @Router /v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSession(c)
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary Usuario autenticado
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UsuarioResponse
// @Router /v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	resp, err := h.svc.Me(c.Request.Context(), middleware.UsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) setSession(c *gin.Context, t *service.Tokens) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessCookie, t.Access, int(t.AccessTTL/time.Second), "/", h.cookies.Domain, h.cookies.Secure, true)
	c.SetCookie(middleware.RefreshCookie, t.Refresh, int(t.RefreshTTL/time.Second), "/v1/auth", h.cookies.Domain, h.cookies.Secure, true)
	// readable by scripts: the SPA echoes it back in X-CSRFToken
	c.SetCookie(middleware.CSRFCookie, newCSRFToken(), int(t.RefreshTTL/time.Second), "/", h.cookies.Domain, h.cookies.Secure, false)
}

func (h *AuthHandler) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessCookie, "", -1, "/", h.cookies.Domain, h.cookies.Secure, true)
	c.SetCookie(middleware.RefreshCookie, "", -1, "/v1/auth", h.cookies.Domain, h.cookies.Secure, true)
	c.SetCookie(middleware.CSRFCookie, "", -1, "/", h.cookies.Domain, h.cookies.Secure, false)
}

func newCSRFToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ── Usuarios Handler ─────────────────────────────────────────────────────────

type UsuariosHandler struct{ svc service.AuthService }

func NewUsuariosHandler(svc service.AuthService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

func (h *UsuariosHandler) Crear(c *gin.Context) {
	var req dto.CrearUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearUsuario(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UsuariosHandler) Listar(c *gin.Context) {
	var p dto.Paginacion
	if !bindQuery(c, &p) {
		return
	}
	p.Normalizar()
	items, total, err := h.svc.ListarUsuarios(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar usuarios"))
		return
	}
	c.JSON(http.StatusOK, pagina(c, p, items, total))
}

func (h *UsuariosHandler) Actualizar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarUsuario(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UsuariosHandler) Desactivar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if id == middleware.UsuarioID(c) {
		c.JSON(http.StatusConflict, apierror.New("No puede desactivar su propio usuario"))
		return
	}
	if err := h.svc.DesactivarUsuario(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
