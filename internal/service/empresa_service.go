package service

import (
	"context"

	"rackpos/internal/dto"
	"rackpos/internal/model"
	"rackpos/internal/repository"
)

type EmpresaService interface {
	Obtener(ctx context.Context) (*dto.EmpresaResponse, error)
	Actualizar(ctx context.Context, req dto.ActualizarEmpresaRequest) (*dto.EmpresaResponse, error)
}

type empresaService struct {
	repo repository.EmpresaRepository
}

func NewEmpresaService(repo repository.EmpresaRepository) EmpresaService {
	return &empresaService{repo: repo}
}

func (s *empresaService) Obtener(ctx context.Context) (*dto.EmpresaResponse, error) {
	e, err := s.repo.Get(ctx)
	if err != nil {
		return nil, notFound(err, "empresa")
	}
	return empresaToResponse(e), nil
}

func (s *empresaService) Actualizar(ctx context.Context, req dto.ActualizarEmpresaRequest) (*dto.EmpresaResponse, error) {
	e, err := s.repo.Get(ctx)
	if err != nil {
		return nil, notFound(err, "empresa")
	}
	e.Nombre = req.Nombre
	e.RIF = req.RIF
	e.Direccion = req.Direccion
	e.Telefono = req.Telefono
	e.Email = req.Email
	if err := s.repo.Save(ctx, e); err != nil {
		return nil, err
	}
	return empresaToResponse(e), nil
}

func empresaToResponse(e *model.Empresa) *dto.EmpresaResponse {
	return &dto.EmpresaResponse{
		ID:        e.ID.String(),
		Nombre:    e.Nombre,
		RIF:       e.RIF,
		Direccion: e.Direccion,
		Telefono:  e.Telefono,
		Email:     e.Email,
	}
}
