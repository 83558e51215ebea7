package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"rackpos/internal/apiclient"
	"rackpos/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func setSession(w http.ResponseWriter, access string) {
	http.SetCookie(w, &http.Cookie{Name: "access_token", Value: access, Path: "/", HttpOnly: true})
	http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: "ref-" + access, Path: "/v1/auth", HttpOnly: true})
	http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "csrf-" + access, Path: "/"})
}

func accessOf(r *http.Request) string {
	c, err := r.Cookie("access_token")
	if err != nil {
		return ""
	}
	return c.Value
}

// sessionServer accepts access token "vigente" and renews any refresh token
// when refreshOK is set.
type sessionServer struct {
	refreshOK    bool
	alwaysReject bool
	refreshes    atomic.Int32
	hits         atomic.Int32
}

func (s *sessionServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		setSession(w, "viejo")
		writeJSON(w, http.StatusOK, dto.LoginResponse{ExpiresIn: 3600})
	})
	mux.HandleFunc("POST /v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		s.refreshes.Add(1)
		if !s.refreshOK {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token invalido o expirado"})
			return
		}
		setSession(w, "vigente")
		writeJSON(w, http.StatusOK, dto.LoginResponse{ExpiresIn: 3600})
	})
	mux.HandleFunc("GET /v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		if s.alwaysReject || accessOf(r) != "vigente" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token invalido o expirado"})
			return
		}
		writeJSON(w, http.StatusOK, dto.UsuarioResponse{Username: "cajero1"})
	})
	return mux
}

func TestRefrescaYReintentaUnaVez(t *testing.T) {
	s := &sessionServer{refreshOK: true}
	srv := httptest.NewServer(s.handler())
	defer srv.Close()

	var logins int
	c, err := apiclient.New(srv.URL, apiclient.WithLoginRequerido(func() { logins++ }))
	require.NoError(t, err)
	_, err = c.Login(context.Background(), "cajero1", "secreto123")
	require.NoError(t, err)

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cajero1", me.Username)
	assert.EqualValues(t, 1, s.refreshes.Load())
	assert.EqualValues(t, 2, s.hits.Load())
	assert.Zero(t, logins)
	assert.Equal(t, "vigente", c.Credenciales().Access)
}

func TestRefreshFallidoPideLogin(t *testing.T) {
	s := &sessionServer{refreshOK: false}
	srv := httptest.NewServer(s.handler())
	defer srv.Close()

	var logins int
	c, err := apiclient.New(srv.URL, apiclient.WithLoginRequerido(func() { logins++ }))
	require.NoError(t, err)

	_, err = c.Me(context.Background())
	assert.ErrorIs(t, err, apiclient.ErrSesionExpirada)
	assert.EqualValues(t, 1, s.refreshes.Load(), "the refresh call itself is never retried")
	assert.EqualValues(t, 1, s.hits.Load())
	assert.Equal(t, 1, logins)

	c.SetRuta("/login")
	_, err = c.Me(context.Background())
	assert.ErrorIs(t, err, apiclient.ErrSesionExpirada)
	assert.Equal(t, 1, logins, "no redirect while already on /login")
}

func TestSegundo401NoVuelveARefrescar(t *testing.T) {
	s := &sessionServer{refreshOK: true, alwaysReject: true}
	srv := httptest.NewServer(s.handler())
	defer srv.Close()

	var logins int
	c, err := apiclient.New(srv.URL, apiclient.WithLoginRequerido(func() { logins++ }))
	require.NoError(t, err)

	_, err = c.Me(context.Background())
	assert.ErrorIs(t, err, apiclient.ErrSesionExpirada)
	assert.EqualValues(t, 1, s.refreshes.Load())
	assert.EqualValues(t, 2, s.hits.Load())
	assert.Equal(t, 1, logins)
}

func TestCSRFSoloEnMutaciones(t *testing.T) {
	var gotPost, gotGet string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		setSession(w, "vigente")
		writeJSON(w, http.StatusOK, dto.LoginResponse{})
	})
	mux.HandleFunc("POST /v1/ventas", func(w http.ResponseWriter, r *http.Request) {
		gotPost = r.Header.Get("X-CSRFToken")
		writeJSON(w, http.StatusCreated, dto.TransaccionResponse{ID: "v1"})
	})
	mux.HandleFunc("GET /v1/ventas/v1", func(w http.ResponseWriter, r *http.Request) {
		gotGet = r.Header.Get("X-CSRFToken")
		writeJSON(w, http.StatusOK, dto.TransaccionResponse{ID: "v1"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := apiclient.New(srv.URL)
	require.NoError(t, err)
	_, err = c.Login(context.Background(), "a", "b")
	require.NoError(t, err)

	_, err = c.CrearVenta(context.Background(), dto.CrearVentaRequest{})
	require.NoError(t, err)
	_, err = c.Venta(context.Background(), "v1")
	require.NoError(t, err)

	assert.Equal(t, "csrf-vigente", gotPost)
	assert.Empty(t, gotGet)
}

func TestErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": "Error de validacion",
			"fields": map[string]string{"Monto": "gt"},
		})
	}))
	defer srv.Close()

	c, err := apiclient.New(srv.URL)
	require.NoError(t, err)
	_, err = c.TasaHoy(context.Background())

	var apiErr *apiclient.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "gt", apiErr.Fields["Monto"])
	assert.Equal(t, http.StatusUnprocessableEntity, apiclient.StatusOf(err))
	assert.Zero(t, apiclient.StatusOf(errors.New("x")))
}

func TestCredenciales_RestaurarEntreEjecuciones(t *testing.T) {
	s := &sessionServer{refreshOK: true}
	srv := httptest.NewServer(s.handler())
	defer srv.Close()

	primero, err := apiclient.New(srv.URL)
	require.NoError(t, err)
	primero.RestaurarCredenciales(apiclient.Credenciales{Access: "vigente", Refresh: "r", CSRF: "c"})
	cr := primero.Credenciales()
	assert.Equal(t, apiclient.Credenciales{Access: "vigente", Refresh: "r", CSRF: "c"}, cr)

	segundo, err := apiclient.New(srv.URL)
	require.NoError(t, err)
	segundo.RestaurarCredenciales(cr)
	_, err = segundo.Me(context.Background())
	require.NoError(t, err)
	assert.Zero(t, s.refreshes.Load())
}

func TestNew_URLRelativa(t *testing.T) {
	_, err := apiclient.New("localhost:8000")
	assert.Error(t, err)
}
