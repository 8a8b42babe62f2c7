//go:build statsview

package statsview

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Serve starts the stats server on addr in the background. The returned
// func shuts it down.
func Serve(addr string, log *slog.Logger) (func(), error) {
	viewer.SetConfiguration(viewer.WithAddr(addr))
	mgr := statsview.New()

	go func() {
		if err := mgr.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("stats server stopped", "addr", addr, "err", err)
		}
	}()
	log.Info("stats server started", "url", URL(addr))
	return mgr.Stop, nil
}
