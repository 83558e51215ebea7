// Package sesion keeps the client-side session: who is logged in and which
// branch they work on. The last selected branch and the session cookies are
// persisted in a small state file between CLI runs.
package sesion

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"rackpos/internal/apiclient"
	"rackpos/internal/dto"

	"github.com/spf13/viper"
)

const (
	keySucursal     = "sucursal_id"
	keyCredenciales = "credenciales"
)

var ErrSinSucursal = errors.New("no hay sucursal seleccionada")

// Sesion is passed explicitly to every client feature.
type Sesion struct {
	Usuario    dto.UsuarioResponse
	SucursalID string
}

// Restringida reports whether the user is pinned to one branch.
func (s Sesion) Restringida() bool { return s.Usuario.SucursalID != nil }

// Sucursal returns the working branch or ErrSinSucursal.
func (s Sesion) Sucursal() (string, error) {
	if s.SucursalID == "" {
		return "", ErrSinSucursal
	}
	return s.SucursalID, nil
}

// Store is the persisted UI state.
type Store struct {
	v    *viper.Viper
	path string
}

// DefaultPath is $XDG_CONFIG_HOME/rackpos/estado.json or the OS equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "rackpos", "estado.json")
}

// Abrir loads the state file at path; a missing file is an empty state.
func Abrir(path string) (*Store, error) {
	if filepath.Ext(path) == "" {
		path += ".json"
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("sesion: leer %s: %w", path, err)
		}
	}
	return &Store{v: v, path: path}, nil
}

func (s *Store) SucursalID() string { return s.v.GetString(keySucursal) }

func (s *Store) GuardarSucursal(id string) error {
	s.v.Set(keySucursal, id)
	return s.guardar()
}

func (s *Store) Credenciales() apiclient.Credenciales {
	var c apiclient.Credenciales
	_ = s.v.UnmarshalKey(keyCredenciales, &c)
	return c
}

func (s *Store) GuardarCredenciales(c apiclient.Credenciales) error {
	s.v.Set(keyCredenciales, map[string]string{
		"access":  c.Access,
		"refresh": c.Refresh,
		"csrf":    c.CSRF,
	})
	return s.guardar()
}

// Limpiar forgets the credentials. The branch survives a logout.
func (s *Store) Limpiar() error {
	return s.GuardarCredenciales(apiclient.Credenciales{})
}

// Sesion builds the session for u. A user pinned to a branch always works on
// it; otherwise the persisted choice is used.
func (s *Store) Sesion(u dto.UsuarioResponse) Sesion {
	ses := Sesion{Usuario: u, SucursalID: s.SucursalID()}
	if u.SucursalID != nil {
		ses.SucursalID = *u.SucursalID
	}
	return ses
}

func (s *Store) guardar() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("sesion: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("sesion: guardar %s: %w", s.path, err)
	}
	// holds session cookies
	return os.Chmod(s.path, 0o600)
}
