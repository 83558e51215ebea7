package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rackpos/internal/cache"
	"rackpos/internal/dto"
	"rackpos/internal/model"
	"rackpos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrTasaDuplicada = errors.New("ya existe una tasa para esa fecha")

type TasaService interface {
	Crear(ctx context.Context, req dto.CrearTasaRequest) (*dto.TasaResponse, error)
	// Hoy returns today's snapshot, or the newest earlier one when today's is missing.
	Hoy(ctx context.Context) (*dto.TasaResponse, error)
	Listar(ctx context.Context, p dto.Paginacion) ([]dto.TasaResponse, int64, error)

	// Vigente resolves the rate a payment snapshots: the given id, or Hoy.
	Vigente(ctx context.Context, id *uuid.UUID) (*model.TasaCambio, error)
}

type tasaService struct {
	repo  repository.TasaRepository
	cache cache.ListCache
	now   func() time.Time
}

func NewTasaService(repo repository.TasaRepository, c cache.ListCache) TasaService {
	return &tasaService{repo: repo, cache: c, now: time.Now}
}

func (s *tasaService) Crear(ctx context.Context, req dto.CrearTasaRequest) (*dto.TasaResponse, error) {
	fecha := s.now()
	if req.Fecha != "" {
		f, err := time.Parse("2006-01-02", req.Fecha)
		if err != nil {
			return nil, fmt.Errorf("%w: fecha %q no es AAAA-MM-DD", ErrValidacion, req.Fecha)
		}
		fecha = f
	}
	if _, err := s.repo.FindByFecha(ctx, fecha); err == nil {
		return nil, ErrTasaDuplicada
	}
	t := &model.TasaCambio{
		Fecha:        fecha,
		TasaBCV:      req.TasaBCV,
		TasaParalelo: req.TasaParalelo,
		Fuente:       "manual",
	}
	if err := s.repo.Create(ctx, t); err != nil {
		if errors.Is(duplicado(err, "tasa"), ErrDuplicado) {
			return nil, ErrTasaDuplicada
		}
		return nil, err
	}
	invalidate(ctx, s.cache, cache.Tasas)
	return tasaToResponse(t), nil
}

func (s *tasaService) Hoy(ctx context.Context) (*dto.TasaResponse, error) {
	t, err := s.Vigente(ctx, nil)
	if err != nil {
		return nil, err
	}
	return tasaToResponse(t), nil
}

func (s *tasaService) Vigente(ctx context.Context, id *uuid.UUID) (*model.TasaCambio, error) {
	if id != nil {
		t, err := s.repo.FindByID(ctx, *id)
		if err != nil {
			return nil, notFound(err, "tasa de cambio")
		}
		return t, nil
	}
	hoy := s.now()
	t, err := s.repo.FindByFecha(ctx, hoy)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	t, err = s.repo.Latest(ctx, hoy)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTasaNoDisponible
	}
	return t, err
}

func (s *tasaService) Listar(ctx context.Context, p dto.Paginacion) ([]dto.TasaResponse, int64, error) {
	return cachedList(ctx, s.cache, cache.Tasas, p, func() ([]dto.TasaResponse, int64, error) {
		rows, total, err := s.repo.List(ctx, p.Offset(), p.Limit)
		if err != nil {
			return nil, 0, err
		}
		out := make([]dto.TasaResponse, len(rows))
		for i := range rows {
			out[i] = *tasaToResponse(&rows[i])
		}
		return out, total, nil
	})
}

func tasaToResponse(t *model.TasaCambio) *dto.TasaResponse {
	return &dto.TasaResponse{
		ID:           t.ID.String(),
		Fecha:        t.Fecha.Format("2006-01-02"),
		TasaBCV:      t.TasaBCV,
		TasaParalelo: t.TasaParalelo,
		Fuente:       t.Fuente,
	}
}
