package service

import (
	"context"

	"rackpos/internal/cache"
	"rackpos/internal/dto"
	"rackpos/internal/model"
	"rackpos/internal/repository"

	"github.com/google/uuid"
)

type SucursalService interface {
	Crear(ctx context.Context, req dto.SucursalRequest) (*dto.SucursalResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.SucursalResponse, error)
	Listar(ctx context.Context, p dto.Paginacion) ([]dto.SucursalResponse, int64, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.SucursalRequest) (*dto.SucursalResponse, error)
}

type sucursalService struct {
	repo  repository.SucursalRepository
	cache cache.ListCache
}

func NewSucursalService(repo repository.SucursalRepository, c cache.ListCache) SucursalService {
	return &sucursalService{repo: repo, cache: c}
}

func (s *sucursalService) Crear(ctx context.Context, req dto.SucursalRequest) (*dto.SucursalResponse, error) {
	suc := &model.Sucursal{
		Nombre:    req.Nombre,
		Direccion: req.Direccion,
		Telefono:  req.Telefono,
		Activo:    true,
	}
	if err := s.repo.Create(ctx, suc); err != nil {
		return nil, duplicado(err, "sucursal")
	}
	invalidate(ctx, s.cache, cache.Sucursales)
	return sucursalToResponse(suc), nil
}

func (s *sucursalService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.SucursalResponse, error) {
	suc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "sucursal")
	}
	return sucursalToResponse(suc), nil
}

func (s *sucursalService) Listar(ctx context.Context, p dto.Paginacion) ([]dto.SucursalResponse, int64, error) {
	return cachedList(ctx, s.cache, cache.Sucursales, p, func() ([]dto.SucursalResponse, int64, error) {
		rows, total, err := s.repo.List(ctx, p.Offset(), p.Limit)
		if err != nil {
			return nil, 0, err
		}
		out := make([]dto.SucursalResponse, len(rows))
		for i := range rows {
			out[i] = *sucursalToResponse(&rows[i])
		}
		return out, total, nil
	})
}

func (s *sucursalService) Actualizar(ctx context.Context, id uuid.UUID, req dto.SucursalRequest) (*dto.SucursalResponse, error) {
	suc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "sucursal")
	}
	suc.Nombre = req.Nombre
	suc.Direccion = req.Direccion
	suc.Telefono = req.Telefono
	if req.Activo != nil {
		suc.Activo = *req.Activo
	}
	if err := s.repo.Update(ctx, suc); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, cache.Sucursales)
	return sucursalToResponse(suc), nil
}

func sucursalToResponse(s *model.Sucursal) *dto.SucursalResponse {
	return &dto.SucursalResponse{
		ID:        s.ID.String(),
		Nombre:    s.Nombre,
		Direccion: s.Direccion,
		Telefono:  s.Telefono,
		Activo:    s.Activo,
	}
}
