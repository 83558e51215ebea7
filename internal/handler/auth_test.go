package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rackpos/internal/dto"
	"rackpos/internal/handler"
	"rackpos/internal/middleware"
	"rackpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthService struct {
	service.AuthService
	refreshGot string
	closed     bool
}

func (f *fakeAuthService) tokens() *service.Tokens {
	return &service.Tokens{Access: "acc", Refresh: "ref", AccessTTL: time.Hour, RefreshTTL: 8 * time.Hour}
}

func (f *fakeAuthService) Login(_ context.Context, req dto.LoginRequest) (*dto.LoginResponse, *service.Tokens, error) {
	if req.Password != "secreto123" {
		return nil, nil, service.ErrCredenciales
	}
	return &dto.LoginResponse{ExpiresIn: 3600, User: dto.UsuarioResponse{Username: req.Username}}, f.tokens(), nil
}

func (f *fakeAuthService) Refresh(_ context.Context, token string) (*dto.LoginResponse, *service.Tokens, error) {
	f.refreshGot = token
	if token != "ref" {
		return nil, nil, service.ErrTokenInvalido
	}
	return &dto.LoginResponse{ExpiresIn: 3600}, f.tokens(), nil
}

func (f *fakeAuthService) Register(_ context.Context, _ dto.RegisterRequest) (*dto.LoginResponse, *service.Tokens, error) {
	if f.closed {
		return nil, nil, service.ErrRegistroCerrado
	}
	return &dto.LoginResponse{}, f.tokens(), nil
}

func (f *fakeAuthService) Me(_ context.Context, id uuid.UUID) (*dto.UsuarioResponse, error) {
	return &dto.UsuarioResponse{ID: id.String()}, nil
}

func authRouter(svc service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewAuthHandler(svc, handler.CookieConfig{})
	r.POST("/v1/auth/login", h.Login)
	r.POST("/v1/auth/register", h.Register)
	r.POST("/v1/auth/refresh", h.Refresh)
	r.POST("/v1/auth/logout", h.Logout)
	return r
}

func cookiesByName(w *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestLogin_EmiteCookies(t *testing.T) {
	w := doJSON(authRouter(&fakeAuthService{}), http.MethodPost, "/v1/auth/login",
		dto.LoginRequest{Username: "cajero1", Password: "secreto123"})
	require.Equal(t, http.StatusOK, w.Code)

	cs := cookiesByName(w)
	require.Contains(t, cs, middleware.AccessCookie)
	require.Contains(t, cs, middleware.RefreshCookie)
	require.Contains(t, cs, middleware.CSRFCookie)

	assert.True(t, cs[middleware.AccessCookie].HttpOnly)
	assert.Equal(t, "/", cs[middleware.AccessCookie].Path)
	assert.Equal(t, "acc", cs[middleware.AccessCookie].Value)
	assert.Equal(t, 3600, cs[middleware.AccessCookie].MaxAge)

	assert.True(t, cs[middleware.RefreshCookie].HttpOnly)
	assert.Equal(t, "/v1/auth", cs[middleware.RefreshCookie].Path)

	assert.False(t, cs[middleware.CSRFCookie].HttpOnly)
	assert.Len(t, cs[middleware.CSRFCookie].Value, 64)

	assert.NotContains(t, w.Body.String(), `"acc"`, "tokens travel only in cookies")
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	w := doJSON(authRouter(&fakeAuthService{}), http.MethodPost, "/v1/auth/login",
		dto.LoginRequest{Username: "cajero1", Password: "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestRefresh_DesdeCookie(t *testing.T) {
	svc := &fakeAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: middleware.RefreshCookie, Value: "ref"})
	w := httptest.NewRecorder()
	authRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ref", svc.refreshGot)
	assert.Contains(t, cookiesByName(w), middleware.AccessCookie)
}

func TestRefresh_FallidoLimpiaSesion(t *testing.T) {
	w := doJSON(authRouter(&fakeAuthService{}), http.MethodPost, "/v1/auth/refresh",
		dto.RefreshRequest{RefreshToken: "vencido"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	cs := cookiesByName(w)
	require.Contains(t, cs, middleware.AccessCookie)
	assert.True(t, cs[middleware.AccessCookie].MaxAge < 0)
}

func TestRefresh_SinToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", strings.NewReader(""))
	w := httptest.NewRecorder()
	authRouter(&fakeAuthService{}).ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister_Cerrado403(t *testing.T) {
	body := dto.RegisterRequest{
		Username: "dueno", Nombre: "Dueño", Password: "secreto123",
		Empresa: "Bodega", EmpresaRIF: "J-12345678-9",
	}
	w := doJSON(authRouter(&fakeAuthService{}), http.MethodPost, "/v1/auth/register", body)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(authRouter(&fakeAuthService{closed: true}), http.MethodPost, "/v1/auth/register", body)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLogout_204(t *testing.T) {
	w := doJSON(authRouter(&fakeAuthService{}), http.MethodPost, "/v1/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, w.Result().Cookies(), 3)
}
