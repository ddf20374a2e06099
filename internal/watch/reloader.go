package watch

import (
	"log/slog"

	"github.com/vango-dev/flxrouter/internal/routefile"
	"github.com/vango-dev/flxrouter/pkg/route"
)

// Reloader rebuilds route tables from a route file.
type Reloader struct {
	registry *routefile.Registry
	apply    func(routes []*route.Route)
	logger   *slog.Logger
}

// NewReloader creates a reloader resolving components in reg and handing
// every successfully loaded table to apply.
func NewReloader(reg *routefile.Registry, apply func(routes []*route.Route), logger *slog.Logger) *Reloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reloader{registry: reg, apply: apply, logger: logger}
}

// Reload loads path. A file that fails to load is logged and the
// previous table stays in place.
func (r *Reloader) Reload(path string) {
	routes, err := routefile.Load(path, r.registry)
	if err != nil {
		r.logger.Error("route file reload failed", "file", path, "error", err)
		return
	}
	r.logger.Info("route file reloaded", "file", path, "routes", len(routes))
	r.apply(routes)
}
