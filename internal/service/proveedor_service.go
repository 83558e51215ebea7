package service

import (
	"context"

	"rackpos/internal/cache"
	"rackpos/internal/dto"
	"rackpos/internal/model"
	"rackpos/internal/repository"

	"github.com/google/uuid"
)

type ProveedorService interface {
	Crear(ctx context.Context, req dto.ProveedorRequest) (*dto.ProveedorResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context, filter dto.ProveedorFilter) ([]dto.ProveedorResponse, int64, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ProveedorRequest) (*dto.ProveedorResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type proveedorService struct {
	repo  repository.ProveedorRepository
	cache cache.ListCache
}

func NewProveedorService(repo repository.ProveedorRepository, c cache.ListCache) ProveedorService {
	return &proveedorService{repo: repo, cache: c}
}

func (s *proveedorService) Crear(ctx context.Context, req dto.ProveedorRequest) (*dto.ProveedorResponse, error) {
	p := &model.Proveedor{
		RazonSocial:   req.RazonSocial,
		RIF:           req.RIF,
		Telefono:      req.Telefono,
		Email:         req.Email,
		Direccion:     req.Direccion,
		CondicionPago: req.CondicionPago,
		Activo:        true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, duplicado(err, "proveedor")
	}
	invalidate(ctx, s.cache, cache.Proveedores)
	return proveedorToResponse(p), nil
}

func (s *proveedorService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "proveedor")
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Listar(ctx context.Context, filter dto.ProveedorFilter) ([]dto.ProveedorResponse, int64, error) {
	return cachedList(ctx, s.cache, cache.Proveedores, filter, func() ([]dto.ProveedorResponse, int64, error) {
		rows, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, 0, err
		}
		out := make([]dto.ProveedorResponse, len(rows))
		for i := range rows {
			out[i] = *proveedorToResponse(&rows[i])
		}
		return out, total, nil
	})
}

func (s *proveedorService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ProveedorRequest) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "proveedor")
	}
	p.RazonSocial = req.RazonSocial
	p.RIF = req.RIF
	p.Telefono = req.Telefono
	p.Email = req.Email
	p.Direccion = req.Direccion
	p.CondicionPago = req.CondicionPago
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, cache.Proveedores)
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound(err, "proveedor")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache, cache.Proveedores)
	return nil
}

func proveedorToResponse(p *model.Proveedor) *dto.ProveedorResponse {
	return &dto.ProveedorResponse{
		ID:            p.ID.String(),
		RazonSocial:   p.RazonSocial,
		RIF:           p.RIF,
		Telefono:      p.Telefono,
		Email:         p.Email,
		Direccion:     p.Direccion,
		CondicionPago: p.CondicionPago,
		Activo:        p.Activo,
	}
}
