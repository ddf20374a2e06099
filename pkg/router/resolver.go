package router

import (
	"context"
	"time"

	"github.com/vango-dev/flxrouter/pkg/route"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Navigation kinds.
const (
	kindTo   = "to"
	kindPush = "push"
)

// Resolver owns the route table and the current route.
type Resolver struct {
	config  Config
	opts    options
	routes  []*route.Route
	table   []*route.Normalized
	current *route.Normalized
	routers []*Router

	cancelPop func()
}

// NewResolver normalizes cfg.Routes and performs the initial navigation:
// the stored URL when UseMemory is set and one exists, otherwise
// cfg.Entry if set. A duplicate path or name is returned as an error.
func NewResolver(cfg Config, opts ...Option) (*Resolver, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.fill()

	r := &Resolver{config: cfg, opts: o}
	if err := r.SetRoutes(cfg.Routes); err != nil {
		return nil, err
	}

	restored := false
	if cfg.UseMemory {
		url, ok, err := o.store.Load(o.ctx, o.storeKey)
		if err != nil {
			o.logger.Warn("last route unavailable", "key", o.storeKey, "error", err)
		}
		if ok {
			r.To(route.URL(url), false)
			restored = true
		}
	}
	if !restored && !cfg.Entry.IsZero() {
		r.To(cfg.Entry, false)
	}

	if cfg.UseHistory {
		r.cancelPop = o.history.OnPop(r.handlePop)
	}

	return r, nil
}

func (r *Resolver) handlePop(s *State) {
	if s == nil {
		return
	}
	r.To(route.URL(s.URL), true)
}

// Route returns the current route, or nil before the first navigation.
func (r *Resolver) Route() *route.Normalized {
	return r.current
}

// Path returns the current route's path, or "" before the first navigation.
func (r *Resolver) Path() string {
	if r.current == nil {
		return ""
	}
	return r.current.Path
}

// Routes returns the route tree.
func (r *Resolver) Routes() []*route.Route {
	return r.routes
}

// Table returns the normalized routes in match order.
func (r *Resolver) Table() []*route.Normalized {
	return r.table
}

// History returns the history the resolver pushes to.
func (r *Resolver) History() History {
	return r.opts.history
}

// Config returns the configuration the resolver was created with.
func (r *Resolver) Config() Config {
	return r.config
}

// Attach registers rt to be notified of route changes. Routers are
// notified in registration order.
func (r *Resolver) Attach(rt *Router) {
	for _, existing := range r.routers {
		if existing == rt {
			return
		}
	}
	r.routers = append(r.routers, rt)
}

// Detach unregisters rt.
func (r *Resolver) Detach(rt *Router) {
	for i, existing := range r.routers {
		if existing == rt {
			r.routers = append(r.routers[:i], r.routers[i+1:]...)
			return
		}
	}
}

// To navigates to q without recording history or memory. Resolution
// failures are logged and leave the current route unchanged.
func (r *Resolver) To(q route.Query, isBack bool) {
	r.navigate(kindTo, q, isBack, false)
}

// Push navigates to q, records a history entry unless isBack, and persists
// the URL when UseMemory is set.
func (r *Resolver) Push(q route.Query, isBack bool) {
	r.navigate(kindPush, q, isBack, true)
}

func (r *Resolver) navigate(kind string, q route.Query, isBack, isPush bool) {
	start := time.Now()

	ctx, span := r.opts.tracer.Start(r.opts.ctx, "flxrouter.navigate",
		trace.WithAttributes(
			attribute.String("route.kind", kind),
			attribute.String("route.query", q.String()),
			attribute.Bool("route.back", isBack),
		),
	)
	defer span.End()

	match, err := route.FindRouteByQuery(r.table, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.opts.metrics.observe(kind, resultError, time.Since(start))
		r.opts.logger.Error("navigation failed", "kind", kind, "query", q.String(), "error", err)
		return
	}

	span.SetAttributes(
		attribute.String("route.url", match.URL),
		attribute.String("route.path", match.Path),
		attribute.String("route.name", match.Name),
	)

	r.setRoute(ctx, match, isBack, isPush)

	span.SetStatus(codes.Ok, "")
	r.opts.metrics.observe(kind, resultOK, time.Since(start))
	r.opts.logger.Debug("navigated", "kind", kind, "url", match.URL, "path", match.Path)
}

// SetRoute makes n current and notifies every router. When isPush is set
// it records a history entry (UseHistory, unless isBack) and persists the
// URL (UseMemory).
func (r *Resolver) SetRoute(n *route.Normalized, isBack, isPush bool) {
	r.setRoute(r.opts.ctx, n, isBack, isPush)
}

func (r *Resolver) setRoute(ctx context.Context, n *route.Normalized, isBack, isPush bool) {
	r.current = n

	routers := make([]*Router, len(r.routers))
	copy(routers, r.routers)
	for _, rt := range routers {
		rt.SetRoute(n)
	}

	if !isPush || n == nil {
		return
	}

	if r.config.UseHistory && !isBack {
		r.opts.history.PushState(State{URL: n.URL})
	}

	if r.config.UseMemory {
		if err := r.opts.store.Save(ctx, r.opts.storeKey, n.URL); err != nil {
			r.opts.logger.Warn("last route not saved", "key", r.opts.storeKey, "url", n.URL, "error", err)
		}
	}
}

// SetRoutes replaces the route tree. On a duplicate path or name the
// previous table is kept and the error returned.
func (r *Resolver) SetRoutes(routes []*route.Route) error {
	table, err := route.GenerateURLs(routes)
	if err != nil {
		return err
	}

	r.routes = routes
	r.table = table
	r.opts.metrics.setRoutes(len(table))
	return nil
}

// Close stops following history pop events.
func (r *Resolver) Close() {
	if r.cancelPop != nil {
		r.cancelPop()
		r.cancelPop = nil
	}
}
