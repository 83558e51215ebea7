package sesion

import (
	"path/filepath"
	"testing"

	"rackpos/internal/apiclient"
	"rackpos/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PersisteSucursalYCredenciales(t *testing.T) {
	path := filepath.Join(t.TempDir(), "estado.json")

	st, err := Abrir(path)
	require.NoError(t, err)
	assert.Empty(t, st.SucursalID())

	require.NoError(t, st.GuardarSucursal("suc-1"))
	require.NoError(t, st.GuardarCredenciales(apiclient.Credenciales{Access: "a", Refresh: "r", CSRF: "c"}))

	reabierto, err := Abrir(path)
	require.NoError(t, err)
	assert.Equal(t, "suc-1", reabierto.SucursalID())
	assert.Equal(t, apiclient.Credenciales{Access: "a", Refresh: "r", CSRF: "c"}, reabierto.Credenciales())

	require.NoError(t, reabierto.Limpiar())
	otra, err := Abrir(path)
	require.NoError(t, err)
	assert.Equal(t, apiclient.Credenciales{}, otra.Credenciales())
	assert.Equal(t, "suc-1", otra.SucursalID(), "logout keeps the branch")
}

func TestStore_SesionUsuarioRestringido(t *testing.T) {
	st, err := Abrir(filepath.Join(t.TempDir(), "estado"))
	require.NoError(t, err)
	require.NoError(t, st.GuardarSucursal("elegida"))

	libre := st.Sesion(dto.UsuarioResponse{Username: "admin"})
	assert.Equal(t, "elegida", libre.SucursalID)
	assert.False(t, libre.Restringida())

	fija := "asignada"
	vendedor := st.Sesion(dto.UsuarioResponse{Username: "v", SucursalID: &fija})
	assert.Equal(t, "asignada", vendedor.SucursalID)
	assert.True(t, vendedor.Restringida())
}

func TestSesion_SinSucursal(t *testing.T) {
	_, err := Sesion{}.Sucursal()
	assert.ErrorIs(t, err, ErrSinSucursal)
}
