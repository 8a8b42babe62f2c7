// Package statsview publishes live runtime graphs (heap, goroutines, GC
// pauses) for a running emulator. The server is compiled in only with
// -tags statsview; otherwise Serve reports ErrDisabled.
package statsview

import (
	"errors"
	"fmt"
)

// DefaultAddr is where the stats server listens unless told otherwise.
const DefaultAddr = "localhost:12600"

const pagePath = "/debug/statsview"

var ErrDisabled = errors.New("stats server not compiled in, rebuild with -tags statsview")

// URL is the page the graphs are served on for a listen address.
func URL(addr string) string {
	return fmt.Sprintf("http://%s%s", addr, pagePath)
}
