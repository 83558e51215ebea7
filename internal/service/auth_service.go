package service

import (
	"context"
	"fmt"
	"time"

	"rackpos/internal/config"
	"rackpos/internal/dto"
	"rackpos/internal/model"
	"rackpos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Token types carried in the "typ" claim.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// Tokens is the signed pair handed to the transport layer, which decides how
// to deliver it (HttpOnly cookies for browsers, JSON for API clients).
type Tokens struct {
	Access     string
	Refresh    string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, *Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, *Tokens, error)
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.LoginResponse, *Tokens, error)
	Me(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error)

	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, p dto.Paginacion) ([]dto.UsuarioResponse, int64, error)
	ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	DesactivarUsuario(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo        repository.UsuarioRepository
	empresaRepo repository.EmpresaRepository
	cfg         *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, empresaRepo repository.EmpresaRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, empresaRepo: empresaRepo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, *Tokens, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, nil, ErrCredenciales
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrCredenciales
	}
	return s.issue(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, *Tokens, error) {
	if refreshToken == "" {
		return nil, nil, ErrTokenInvalido
	}
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, nil, ErrTokenInvalido
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != TokenRefresh {
		return nil, nil, ErrTokenInvalido
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, nil, ErrTokenInvalido
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, nil, ErrTokenInvalido
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Activo {
		return nil, nil, fmt.Errorf("usuario no encontrado o inactivo: %w", ErrTokenInvalido)
	}
	return s.issue(user)
}

// Register creates the company settings and the first administrator. Once any
// user exists it returns ErrRegistroCerrado; later accounts are created by an
// administrator through CrearUsuario.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.LoginResponse, *Tokens, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return nil, nil, err
	}
	if n > 0 {
		return nil, nil, ErrRegistroCerrado
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, nil, err
	}
	user := &model.Usuario{
		Username:     req.Username,
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: string(hash),
		Rol:          "administrador",
		Activo:       true,
	}
	empresa := &model.Empresa{Nombre: req.Empresa, RIF: req.EmpresaRIF, Email: req.Email}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.empresaRepo.CreateTx(tx, empresa); err != nil {
			return err
		}
		return s.repo.CreateTx(tx, user)
	})
	if err != nil {
		return nil, nil, err
	}
	return s.issue(user)
}

func (s *authService) Me(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "usuario")
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	sucursalID, err := parseOptUUID(req.SucursalID, "sucursal_id")
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Username:     req.Username,
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: string(hash),
		Rol:          req.Rol,
		SucursalID:   sucursalID,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, duplicado(err, "usuario")
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context, p dto.Paginacion) ([]dto.UsuarioResponse, int64, error) {
	users, total, err := s.repo.List(ctx, p.Offset(), p.Limit)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = usuarioToResponse(&users[i])
	}
	return resp, total, nil
}

func (s *authService) ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "usuario")
	}
	if req.Nombre != "" {
		user.Nombre = req.Nombre
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Rol != "" {
		user.Rol = req.Rol
	}
	if req.SucursalID != nil {
		if user.SucursalID, err = parseOptUUID(req.SucursalID, "sucursal_id"); err != nil {
			return nil, err
		}
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) DesactivarUsuario(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *authService) issue(user *model.Usuario) (*dto.LoginResponse, *Tokens, error) {
	accessTTL := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	refreshTTL := time.Duration(s.cfg.JWTRefreshHours) * time.Hour

	access, err := s.generateToken(user, TokenAccess, accessTTL)
	if err != nil {
		return nil, nil, err
	}
	refresh, err := s.generateToken(user, TokenRefresh, refreshTTL)
	if err != nil {
		return nil, nil, err
	}
	return &dto.LoginResponse{
			ExpiresIn: int(accessTTL.Seconds()),
			User:      usuarioToResponse(user),
		}, &Tokens{
			Access:     access,
			Refresh:    refresh,
			AccessTTL:  accessTTL,
			RefreshTTL: refreshTTL,
		}, nil
}

func (s *authService) generateToken(user *model.Usuario, typ string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":     user.ID.String(),
		"username":    user.Username,
		"rol":         user.Rol,
		"sucursal_id": optString(user.SucursalID),
		"typ":         typ,
		"exp":         time.Now().Add(duration).Unix(),
		"iat":         time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:         u.ID.String(),
		Username:   u.Username,
		Nombre:     u.Nombre,
		Email:      u.Email,
		Rol:        u.Rol,
		SucursalID: optString(u.SucursalID),
		Activo:     u.Activo,
	}
}
