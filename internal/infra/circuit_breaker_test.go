package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errFuente = errors.New("fuente caida")

func TestCircuitBreaker_AbreTrasFallos(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker("tasas", CircuitBreakerConfig{FailureThreshold: 2, OpenTimeout: time.Minute})
	cb.now = func() time.Time { return now }

	assert.ErrorIs(t, cb.Execute(func() error { return errFuente }), errFuente)
	assert.Equal(t, CBClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(func() error { return errFuente }), errFuente)
	assert.Equal(t, CBOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)

	now = now.Add(time.Minute)
	assert.Equal(t, CBHalfOpen, cb.State())
	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_FalloEnSemiabiertoReabre(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker("tasas", CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Minute})
	cb.now = func() time.Time { return now }

	_ = cb.Execute(func() error { return errFuente })
	now = now.Add(2 * time.Minute)
	assert.Equal(t, CBHalfOpen, cb.State())

	_ = cb.Execute(func() error { return errFuente })
	assert.Equal(t, CBOpen, cb.State())
	assert.Equal(t, "open", cb.State().String())
}

func TestCircuitBreaker_ExitoReiniciaConteo(t *testing.T) {
	cb := NewCircuitBreaker("tasas", CircuitBreakerConfig{FailureThreshold: 2})
	_ = cb.Execute(func() error { return errFuente })
	_ = cb.Execute(func() error { return nil })
	_ = cb.Execute(func() error { return errFuente })
	assert.Equal(t, CBClosed, cb.State())
	assert.Equal(t, DefaultCBConfig().OpenTimeout, cb.cfg.OpenTimeout)
}
