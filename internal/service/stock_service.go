package service

import (
	"context"
	"fmt"
	"time"

	"rackpos/internal/cache"
	"rackpos/internal/carrito"
	"rackpos/internal/dto"
	"rackpos/internal/model"
	"rackpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Movimiento describes one stock change in base units.
type Movimiento struct {
	SucursalID   uuid.UUID
	ProductoID   uuid.UUID
	Delta        decimal.Decimal // positive = entrada, negative = salida
	Tipo         string
	Motivo       string
	ReferenciaID *uuid.UUID
	// ExigirStock rejects a change that would leave the branch below zero.
	ExigirStock bool
}

type StockService interface {
	Listar(ctx context.Context, sucursalID uuid.UUID, filter dto.StockFilter) ([]dto.StockResponse, int64, error)
	Ajustar(ctx context.Context, sucursalID, productoID uuid.UUID, req dto.AjustarStockRequest) (*dto.StockResponse, error)
	Movimientos(ctx context.Context, sucursalID uuid.UUID, f dto.MovimientoFilter) ([]dto.MovimientoStockResponse, int64, error)

	// MoverTx applies m inside the caller's transaction and records the movement.
	MoverTx(tx *gorm.DB, m Movimiento) (decimal.Decimal, error)
}

type stockService struct {
	repo    repository.StockRepository
	movRepo repository.MovimientoStockRepository
	cache   cache.ListCache
}

func NewStockService(repo repository.StockRepository, movRepo repository.MovimientoStockRepository, c cache.ListCache) StockService {
	return &stockService{repo: repo, movRepo: movRepo, cache: c}
}

func (s *stockService) Listar(ctx context.Context, sucursalID uuid.UUID, filter dto.StockFilter) ([]dto.StockResponse, int64, error) {
	key := struct {
		Sucursal uuid.UUID
		dto.StockFilter
	}{sucursalID, filter}
	return cachedList(ctx, s.cache, cache.Stock, key, func() ([]dto.StockResponse, int64, error) {
		rows, total, err := s.repo.List(ctx, sucursalID, filter)
		if err != nil {
			return nil, 0, err
		}
		out := make([]dto.StockResponse, len(rows))
		for i, r := range rows {
			out[i] = dto.StockResponse{
				SucursalID: r.SucursalID.String(),
				ProductoID: r.ProductoID.String(),
				Cantidad:   r.Cantidad,
			}
			if r.Producto != nil {
				out[i].Producto = r.Producto.Nombre
			}
		}
		return out, total, nil
	})
}

func (s *stockService) Ajustar(ctx context.Context, sucursalID, productoID uuid.UUID, req dto.AjustarStockRequest) (*dto.StockResponse, error) {
	if req.Delta.IsZero() {
		return nil, fmt.Errorf("%w: delta no puede ser cero", ErrValidacion)
	}
	var nuevo decimal.Decimal
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		nuevo, err = s.MoverTx(tx, Movimiento{
			SucursalID:  sucursalID,
			ProductoID:  productoID,
			Delta:       req.Delta,
			Tipo:        model.MovAjuste,
			Motivo:      req.Motivo,
			ExigirStock: true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, cache.Stock, cache.Productos)
	return &dto.StockResponse{
		SucursalID: sucursalID.String(),
		ProductoID: productoID.String(),
		Cantidad:   nuevo,
	}, nil
}

func (s *stockService) Movimientos(ctx context.Context, sucursalID uuid.UUID, f dto.MovimientoFilter) ([]dto.MovimientoStockResponse, int64, error) {
	productoID, err := parseOptUUID(&f.ProductoID, "producto_id")
	if err != nil {
		return nil, 0, err
	}
	rows, total, err := s.movRepo.List(ctx, repository.MovimientoStockFilter{
		SucursalID: sucursalID,
		ProductoID: productoID,
		Tipo:       f.Tipo,
		Offset:     f.Offset(),
		Limit:      f.Limit,
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.MovimientoStockResponse, len(rows))
	for i, m := range rows {
		out[i] = dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			SucursalID:    m.SucursalID.String(),
			ProductoID:    m.ProductoID.String(),
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			ReferenciaID:  optString(m.ReferenciaID),
			CreatedAt:     m.CreatedAt.Format(time.RFC3339),
		}
	}
	return out, total, nil
}

func (s *stockService) MoverTx(tx *gorm.DB, m Movimiento) (decimal.Decimal, error) {
	antes, err := s.repo.LockTx(tx, m.SucursalID, m.ProductoID)
	if err != nil {
		return decimal.Zero, err
	}
	nuevo := antes.Add(m.Delta)
	if m.ExigirStock && nuevo.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: disponible %s, requerido %s",
			carrito.ErrStockInsuficiente, antes.String(), m.Delta.Neg().String())
	}
	if err := s.repo.SetTx(tx, m.SucursalID, m.ProductoID, nuevo); err != nil {
		return decimal.Zero, err
	}
	mov := &model.MovimientoStock{
		SucursalID:    m.SucursalID,
		ProductoID:    m.ProductoID,
		Tipo:          m.Tipo,
		Cantidad:      m.Delta,
		StockAnterior: antes,
		StockNuevo:    nuevo,
		Motivo:        m.Motivo,
		ReferenciaID:  m.ReferenciaID,
	}
	if err := s.movRepo.CreateTx(tx, mov); err != nil {
		return decimal.Zero, err
	}
	return nuevo, nil
}
