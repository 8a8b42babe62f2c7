//go:build !statsview

package statsview

import (
	"fmt"
	"log/slog"
)

func Serve(addr string, _ *slog.Logger) (func(), error) {
	return nil, fmt.Errorf("serve %s: %w", addr, ErrDisabled)
}
