//go:build !statsview

package statsview

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServeDisabled(t *testing.T) {
	stop, err := Serve("localhost:9999", slog.Default())
	assert.ErrorIs(t, err, ErrDisabled)
	assert.Contains(t, err.Error(), "localhost:9999")
	assert.Nil(t, stop)
}
