package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rackpos/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-key-that-is-long-enough"

func token(t *testing.T, typ, rol string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id":  "0b7d8f9e-3c1a-4a55-9a6e-2f7f2c1d9e01",
		"username": "cajero1",
		"rol":      rol,
		"typ":      typ,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func protectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/v1", middleware.JWTAuth(secret), middleware.CSRF())
	ok := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": middleware.UsuarioID(c).String()})
	}
	g.GET("/me", ok)
	g.POST("/ventas", ok)
	g.DELETE("/usuarios/:id", middleware.RequireRole("administrador"), ok)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := protectedRouter()

	t.Run("sin token", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/v1/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, "access", "vendedor", time.Hour))
		w := serve(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "0b7d8f9e")
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		req.AddCookie(&http.Cookie{Name: middleware.AccessCookie, Value: token(t, "access", "vendedor", time.Hour)})
		assert.Equal(t, http.StatusOK, serve(r, req).Code)
	})

	t.Run("refresh rechazado", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, "refresh", "vendedor", time.Hour))
		assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
	})

	t.Run("expirado", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, "access", "vendedor", -time.Minute))
		assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
	})

	t.Run("firma ajena", func(t *testing.T) {
		s, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"typ": "access"}).SignedString([]byte("otra"))
		req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		req.Header.Set("Authorization", "Bearer "+s)
		assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
	})
}

func TestRequireRole(t *testing.T) {
	r := protectedRouter()

	req := httptest.NewRequest(http.MethodDelete, "/v1/usuarios/1", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "access", "vendedor", time.Hour))
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodDelete, "/v1/usuarios/1", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "access", "administrador", time.Hour))
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestCSRF(t *testing.T) {
	r := protectedRouter()
	access := token(t, "access", "vendedor", time.Hour)

	cookieReq := func(header string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/v1/ventas", strings.NewReader("{}"))
		req.AddCookie(&http.Cookie{Name: middleware.AccessCookie, Value: access})
		req.AddCookie(&http.Cookie{Name: middleware.CSRFCookie, Value: "abc123"})
		if header != "" {
			req.Header.Set(middleware.CSRFHeader, header)
		}
		return req
	}

	assert.Equal(t, http.StatusForbidden, serve(r, cookieReq("")).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, cookieReq("otro")).Code)
	assert.Equal(t, http.StatusOK, serve(r, cookieReq("abc123")).Code)

	// bearer clients are not subject to the double-submit check
	req := httptest.NewRequest(http.MethodPost, "/v1/ventas", strings.NewReader("{}"))
	req.Header.Set("Authorization", "Bearer "+access)
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	// safe methods pass
	req = httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccessCookie, Value: access})
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestCSRF_RutasDeSesion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := r.Group("/v1/auth", middleware.SessionCookie(), middleware.CSRF())
	auth.POST("/refresh", func(c *gin.Context) { c.Status(http.StatusOK) })

	refreshReq := func(csrf string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: middleware.RefreshCookie, Value: "r"})
		req.AddCookie(&http.Cookie{Name: middleware.CSRFCookie, Value: "abc123"})
		if csrf != "" {
			req.Header.Set(middleware.CSRFHeader, csrf)
		}
		return req
	}
	assert.Equal(t, http.StatusForbidden, serve(r, refreshReq("")).Code)
	assert.Equal(t, http.StatusOK, serve(r, refreshReq("abc123")).Code)

	// a refresh token in the body without cookies is not a browser session
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", strings.NewReader(`{"refresh_token":"r"}`))
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	req = refreshReq("")
	req.Header.Set("Authorization", "Bearer x")
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestRateLimiter_Memoria(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RateLimiter(nil, "login", 2, time.Minute, "Demasiados intentos"))
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodPost, "/login", nil)).Code)
	}
	w := serve(r, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "Demasiados intentos")

	// another client has its own window
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.9:5555"
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CORS([]string{"https://pos.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://pos.example.com")
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://pos.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), middleware.CSRFHeader)

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(middleware.RequestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	w := serve(r, req)
	assert.Equal(t, "req-42", w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "req-42", w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, w.Header().Get(middleware.RequestIDHeader), 36)
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Recovery())
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}
