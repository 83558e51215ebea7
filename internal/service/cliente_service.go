package service

import (
	"context"

	"rackpos/internal/cache"
	"rackpos/internal/dto"
	"rackpos/internal/model"
	"rackpos/internal/repository"

	"github.com/google/uuid"
)

type ClienteService interface {
	Crear(ctx context.Context, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, filter dto.ClienteFilter) ([]dto.ClienteResponse, int64, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo  repository.ClienteRepository
	cache cache.ListCache
}

func NewClienteService(repo repository.ClienteRepository, c cache.ListCache) ClienteService {
	return &clienteService{repo: repo, cache: c}
}

func (s *clienteService) Crear(ctx context.Context, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	c := &model.Cliente{
		Nombre:    req.Nombre,
		Documento: req.Documento,
		Telefono:  req.Telefono,
		Email:     req.Email,
		Direccion: req.Direccion,
		Activo:    true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, duplicado(err, "cliente")
	}
	invalidate(ctx, s.cache, cache.Clientes)
	return clienteToResponse(c), nil
}

func (s *clienteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "cliente")
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Listar(ctx context.Context, filter dto.ClienteFilter) ([]dto.ClienteResponse, int64, error) {
	return cachedList(ctx, s.cache, cache.Clientes, filter, func() ([]dto.ClienteResponse, int64, error) {
		rows, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, 0, err
		}
		out := make([]dto.ClienteResponse, len(rows))
		for i := range rows {
			out[i] = *clienteToResponse(&rows[i])
		}
		return out, total, nil
	})
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "cliente")
	}
	c.Nombre = req.Nombre
	c.Documento = req.Documento
	c.Telefono = req.Telefono
	c.Email = req.Email
	c.Direccion = req.Direccion
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, cache.Clientes)
	return clienteToResponse(c), nil
}

func (s *clienteService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound(err, "cliente")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache, cache.Clientes)
	return nil
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:        c.ID.String(),
		Nombre:    c.Nombre,
		Documento: c.Documento,
		Telefono:  c.Telefono,
		Email:     c.Email,
		Direccion: c.Direccion,
		Activo:    c.Activo,
	}
}
