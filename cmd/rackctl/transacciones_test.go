package main

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLinea(t *testing.T) {
	id := uuid.New()
	bulto := uuid.New()

	l, err := parseLinea(id.String() + ":2.5")
	require.NoError(t, err)
	assert.Equal(t, id, l.productoID)
	assert.Equal(t, "2.5", l.cantidad.String())
	assert.Equal(t, uuid.Nil, l.unidadID)

	l, err = parseLinea(id.String() + ":1:" + bulto.String())
	require.NoError(t, err)
	assert.Equal(t, bulto, l.unidadID)

	for _, raw := range []string{id.String(), "x:1", id.String() + ":uno", id.String() + ":1:zz"} {
		_, err := parseLinea(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseLineas_ProductoRepetido(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	lineas, err := parseLineas([]string{a.String() + ":1", b.String() + ":3"})
	require.NoError(t, err)
	assert.Len(t, lineas, 2)

	_, err = parseLineas([]string{a.String() + ":2", b.String() + ":1", a.String() + ":3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "producto repetido")

	_, err = parseLineas(nil)
	assert.Error(t, err)
}
