package req

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Symbol string `json:"symbol"`
}

func TestDecode(t *testing.T) {
	got, err := Decode[payload](strings.NewReader(`{"symbol":"CT"}`))
	require.NoError(t, err)
	assert.Equal(t, "CT", got.Symbol)

	_, err = Decode[payload](strings.NewReader(`{"symbol":"CT","extra":1}`))
	assert.Error(t, err)

	_, err = Decode[payload](strings.NewReader(`{`))
	assert.Error(t, err)
}
