package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"rackpos/internal/cache"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDuplicado(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "idx_clientes_documento"})
	err := duplicado(unique, "cliente")
	assert.ErrorIs(t, err, ErrDuplicado)
	assert.Contains(t, err.Error(), "cliente")

	fk := &pgconn.PgError{Code: "23503"}
	assert.Same(t, fk, duplicado(fk, "cliente"))

	otro := errors.New("conexion cerrada")
	assert.Equal(t, otro, duplicado(otro, "cliente"))
}

func TestNotFound(t *testing.T) {
	assert.ErrorIs(t, notFound(gorm.ErrRecordNotFound, "venta"), ErrNoEncontrado)
	otro := errors.New("timeout")
	assert.Equal(t, otro, notFound(otro, "venta"))
}

// genCache is an in-memory ListCache keyed by generation, like the Redis one.
type genCache struct {
	gen   int64
	pages map[string][]string
}

func (c *genCache) key(q string, gen int64) string { return fmt.Sprintf("%d:%s", gen, q) }

func (c *genCache) Get(_ context.Context, _, q string, dst any) (int64, bool) {
	page, ok := c.pages[c.key(q, c.gen)]
	if ok {
		dst.(*paginaCache[string]).Items = page
	}
	return c.gen, ok
}

func (c *genCache) Set(_ context.Context, _, q string, gen int64, val any) {
	c.pages[c.key(q, gen)] = val.(paginaCache[string]).Items
}

func (c *genCache) Invalidate(context.Context, ...string) { c.gen++ }

func TestCachedList_MutacionDuranteCargaNoQuedaEnCache(t *testing.T) {
	ctx := context.Background()
	c := &genCache{pages: map[string][]string{}}
	filas := []string{"viejo"}

	items, _, err := cachedList(ctx, c, cache.Ventas, "p1", func() ([]string, int64, error) {
		out := filas
		// A write commits and invalidates while this page is loading.
		filas = []string{"viejo", "nuevo"}
		invalidate(ctx, c, cache.Ventas)
		return out, int64(len(out)), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"viejo"}, items)

	cargas := 0
	items, total, err := cachedList(ctx, c, cache.Ventas, "p1", func() ([]string, int64, error) {
		cargas++
		return filas, int64(len(filas)), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, cargas)
	assert.Equal(t, []string{"viejo", "nuevo"}, items)
	assert.EqualValues(t, 2, total)
}
