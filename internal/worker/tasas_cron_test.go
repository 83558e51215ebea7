package worker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"rackpos/internal/cache"
	"rackpos/internal/infra"
	"rackpos/internal/model"
	"rackpos/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubTasaRepo struct {
	tasas     []model.TasaCambio
	errBuscar error
}

var _ repository.TasaRepository = (*stubTasaRepo)(nil)

func (r *stubTasaRepo) Create(_ context.Context, t *model.TasaCambio) error {
	t.ID = uuid.New()
	r.tasas = append(r.tasas, *t)
	return nil
}

func (r *stubTasaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.TasaCambio, error) {
	for i := range r.tasas {
		if r.tasas[i].ID == id {
			return &r.tasas[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTasaRepo) FindByFecha(_ context.Context, fecha time.Time) (*model.TasaCambio, error) {
	if r.errBuscar != nil {
		return nil, r.errBuscar
	}
	for i := range r.tasas {
		if r.tasas[i].Fecha.Format("2006-01-02") == fecha.Format("2006-01-02") {
			return &r.tasas[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTasaRepo) Latest(ctx context.Context, fecha time.Time) (*model.TasaCambio, error) {
	return r.FindByFecha(ctx, fecha)
}

func (r *stubTasaRepo) List(context.Context, int, int) ([]model.TasaCambio, int64, error) {
	return r.tasas, int64(len(r.tasas)), nil
}

type countingCache struct {
	cache.Nop
	invalidated []string
}

func (c *countingCache) Invalidate(_ context.Context, rs ...string) {
	c.invalidated = append(c.invalidated, rs...)
}

func fuenteTasas(t *testing.T, status int) (*infra.TasasClient, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(`{"fecha":"2026-03-02","bcv":"36.50","paralelo":"39.10"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return infra.NewTasasClient(srv.URL), &hits
}

func hoy() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }

func TestSyncTasas_GuardaSnapshot(t *testing.T) {
	client, hits := fuenteTasas(t, http.StatusOK)
	repo := &stubTasaRepo{}
	c := &countingCache{}
	cfg := TasasCronConfig{
		Repo:   repo,
		Client: client,
		CB:     infra.NewCircuitBreaker("tasas", infra.DefaultCBConfig()),
		Cache:  c,
		Now:    hoy,
	}

	assert.True(t, syncTasas(context.Background(), cfg))
	require.Len(t, repo.tasas, 1)
	assert.Equal(t, "36.5", repo.tasas[0].TasaBCV.String())
	assert.Equal(t, "automatica", repo.tasas[0].Fuente)
	assert.Equal(t, []string{cache.Tasas}, c.invalidated)

	// the day already has a snapshot
	assert.False(t, syncTasas(context.Background(), cfg))
	assert.EqualValues(t, 1, hits.Load())
	assert.Len(t, repo.tasas, 1)
}

func TestSyncTasas_FuenteCaidaAbreCircuito(t *testing.T) {
	client, hits := fuenteTasas(t, http.StatusServiceUnavailable)
	cb := infra.NewCircuitBreaker("tasas", infra.CircuitBreakerConfig{FailureThreshold: 2, OpenTimeout: time.Hour})
	cfg := TasasCronConfig{Repo: &stubTasaRepo{}, Client: client, CB: cb, Now: hoy}

	for i := 0; i < 4; i++ {
		assert.False(t, syncTasas(context.Background(), cfg))
	}
	assert.EqualValues(t, 2, hits.Load())
	assert.Equal(t, infra.CBOpen, cb.State())
}

func TestSyncTasas_ErrorDeRepositorio(t *testing.T) {
	client, hits := fuenteTasas(t, http.StatusOK)
	cfg := TasasCronConfig{
		Repo:   &stubTasaRepo{errBuscar: errors.New("conexion perdida")},
		Client: client,
		CB:     infra.NewCircuitBreaker("tasas", infra.DefaultCBConfig()),
		Now:    hoy,
	}
	assert.False(t, syncTasas(context.Background(), cfg))
	assert.Zero(t, hits.Load())
}
