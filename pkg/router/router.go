package router

import (
	"strings"

	"github.com/vango-dev/flxrouter/pkg/route"
)

// View is the root router view a Router renders through.
type View interface {
	SetRoute(r *route.Normalized)
	RequestUpdate()
}

// Router is a facade over a Resolver, optionally scoped to a sub-path.
type Router struct {
	Controller

	resolver *Resolver
	view     View
	useLocal bool

	subPath  string
	isSub    bool
	handlers []resolveHandler
	nextID   int
}

type resolveHandler struct {
	id int
	fn func(*route.Normalized)
}

// New creates a resolver from cfg, attaches a router to it and, when
// cfg.Location is set, navigates there.
func New(cfg Config, opts ...Option) (*Router, error) {
	res, err := NewResolver(cfg, opts...)
	if err != nil {
		return nil, err
	}

	rt := NewWithResolver(res, cfg.UseLocal)
	if cfg.Location != "" {
		res.To(route.URL(cfg.Location), false)
	}
	return rt, nil
}

// NewWithResolver attaches a new router to an existing resolver.
func NewWithResolver(res *Resolver, useLocal bool) *Router {
	rt := &Router{resolver: res, useLocal: useLocal}
	res.Attach(rt)
	return rt
}

// Resolver returns the resolver behind the router.
func (r *Router) Resolver() *Resolver {
	return r.resolver
}

// Route returns the current route, or nil before the first navigation.
func (r *Router) Route() *route.Normalized {
	return r.resolver.Route()
}

// Routes returns the route tree.
func (r *Router) Routes() []*route.Route {
	return r.resolver.Routes()
}

// UseLocal reports whether the router's view is always a root view.
func (r *Router) UseLocal() bool {
	return r.useLocal
}

// IsSubRouter reports whether RegisterAsSubRouter was called.
func (r *Router) IsSubRouter() bool {
	return r.isSub
}

// SubPath returns the prefix applied to URL queries.
func (r *Router) SubPath() string {
	return r.subPath
}

// Path returns the current path with the sub-path removed.
func (r *Router) Path() string {
	path := r.resolver.Path()
	if r.isSub && r.subPath != "" {
		return strings.Replace(path, r.subPath, "", 1)
	}
	return path
}

// RegisterAsSubRouter scopes the router to parent's current path.
func (r *Router) RegisterAsSubRouter(parent *Router) {
	r.subPath = parent.Path()
	r.isSub = true
}

func (r *Router) scope(q route.Query) route.Query {
	if !r.isSub {
		return q
	}
	return q.WithPrefix(r.subPath)
}

// To navigates without recording history or memory.
func (r *Router) To(q route.Query) {
	r.resolver.To(r.scope(q), false)
}

// Push navigates and records the navigation.
func (r *Router) Push(q route.Query) {
	r.resolver.Push(r.scope(q), false)
}

// BindView makes v the router's root view.
func (r *Router) BindView(v View) {
	r.view = v
}

// UnbindView clears the root view if it is v.
func (r *Router) UnbindView(v View) {
	if r.view == v {
		r.view = nil
	}
}

// View returns the root view, or nil.
func (r *Router) View() View {
	return r.view
}

// SetRoute forwards n to the root view, asks every host to re-render and
// notifies OnResolve handlers.
func (r *Router) SetRoute(n *route.Normalized) {
	if r.view != nil {
		r.view.SetRoute(n)
	}
	r.RequestUpdate()

	handlers := make([]resolveHandler, len(r.handlers))
	copy(handlers, r.handlers)
	for _, h := range handlers {
		h.fn(n)
	}
}

// OnResolve registers fn to run after every route change.
func (r *Router) OnResolve(fn func(*route.Normalized)) (unsubscribe func()) {
	id := r.nextID
	r.nextID++
	r.handlers = append(r.handlers, resolveHandler{id: id, fn: fn})

	return func() {
		for i, h := range r.handlers {
			if h.id == id {
				r.handlers = append(r.handlers[:i], r.handlers[i+1:]...)
				return
			}
		}
	}
}

// SetRoutes replaces the route tree, resolves the current URL again
// against the new table and re-renders the root view.
func (r *Router) SetRoutes(routes []*route.Route) error {
	if err := r.resolver.SetRoutes(routes); err != nil {
		return err
	}

	if cur := r.resolver.Route(); cur != nil {
		// The URL already carries the sub-path.
		r.resolver.To(route.URL(cur.URL), false)
	}
	if r.view != nil {
		r.view.RequestUpdate()
	}
	return nil
}

// Detach unregisters the router from its resolver.
func (r *Router) Detach() {
	r.resolver.Detach(r)
}
