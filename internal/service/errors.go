package service

import (
	"context"
	"errors"
	"fmt"

	"rackpos/internal/cache"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNoEncontrado     = errors.New("recurso no encontrado")
	ErrCredenciales     = errors.New("credenciales invalidas")
	ErrTokenInvalido    = errors.New("token invalido o expirado")
	ErrRegistroCerrado  = errors.New("el registro solo esta disponible en una instalacion vacia")
	ErrEstadoInvalido   = errors.New("operacion no permitida en el estado actual")
	ErrTasaNoDisponible = errors.New("no hay tasa de cambio registrada")
	ErrDuplicado        = errors.New("ya existe un registro con esos datos")
	// ErrValidacion wraps business-rule violations in otherwise valid requests.
	ErrValidacion = errors.New("datos invalidos")
)

// notFound maps gorm.ErrRecordNotFound to ErrNoEncontrado, naming the resource.
func notFound(err error, recurso string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", recurso, ErrNoEncontrado)
	}
	return err
}

// duplicado maps a Postgres unique violation to ErrDuplicado. Pre-checks catch
// the common case; this covers the race between the check and the insert.
func duplicado(err error, recurso string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s: %w", recurso, ErrDuplicado)
	}
	return err
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func parseUUID(s, campo string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s inválido", ErrValidacion, campo)
	}
	return id, nil
}

func parseOptUUID(s *string, campo string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := parseUUID(*s, campo)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func optString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

type paginaCache[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

// cachedList serves a list page from the list cache, loading and storing it on a miss.
func cachedList[T any](
	ctx context.Context,
	c cache.ListCache,
	resource string,
	key any,
	load func() ([]T, int64, error),
) ([]T, int64, error) {
	if c == nil {
		return load()
	}
	k := fmt.Sprintf("%+v", key)
	var hit paginaCache[T]
	gen, ok := c.Get(ctx, resource, k, &hit)
	if ok {
		return hit.Items, hit.Total, nil
	}
	items, total, err := load()
	if err != nil {
		return nil, 0, err
	}
	c.Set(ctx, resource, k, gen, paginaCache[T]{Items: items, Total: total})
	return items, total, nil
}

func invalidate(ctx context.Context, c cache.ListCache, resources ...string) {
	if c != nil {
		c.Invalidate(ctx, resources...)
	}
}
