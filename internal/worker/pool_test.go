package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeRun_RecuperaPanic(t *testing.T) {
	err := safeRun(context.Background(), func(context.Context, json.RawMessage) error {
		panic("sin recibo")
	}, nil)
	assert.EqualError(t, err, "panic: sin recibo")
}

func TestSafeRun_PropagaError(t *testing.T) {
	want := errors.New("smtp caido")
	err := safeRun(context.Background(), func(context.Context, json.RawMessage) error { return want }, nil)
	assert.ErrorIs(t, err, want)
}

func TestDispatcherNilDescartaJobs(t *testing.T) {
	var d *Dispatcher
	assert.NoError(t, d.EnqueueRecibo(context.Background(), ReciboJobPayload{}))
	assert.NoError(t, NewDispatcher(nil).EnqueueEmail(context.Background(), EmailJobPayload{}))
}
