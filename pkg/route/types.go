package route

import (
	"context"
	"sync"

	"github.com/vango-dev/flxrouter/pkg/vdom"
)

// Props are the render properties a router view passes to fragments.
type Props map[string]any

// Outlet is the router view rendering a fragment. Components that contain
// nested router views create them with the outlet as their parent.
type Outlet interface {
	// Index is the depth of the outlet within its router's view chain.
	Index() int

	// Properties returns the render properties of the outlet.
	Properties() Props
}

// Factory constructs the component bound to a fragment.
type Factory func(outlet Outlet) vdom.Component

// Loader resolves a fragment's Factory asynchronously.
type Loader func(ctx context.Context) (Factory, error)

// RenderFunc renders a fragment inline.
type RenderFunc func(props Props) *vdom.VNode

// Route is a node of a route tree.
//
// At most one of Component, Load and Render is expected. When Load is set
// the factory it resolves is installed on the route once and reused.
type Route struct {
	// Path is the segment contributed by this node ("/users", ":id", "").
	Path string

	// Name identifies the route for name-based navigation. Empty means unset.
	Name string

	// Children are nested routes. A node without children is a leaf.
	Children []*Route

	// Component builds the fragment's component.
	Component Factory

	// Load lazily resolves the fragment's component.
	Load Loader

	// Render renders the fragment inline with the view's render properties.
	Render RenderFunc

	// OnBeforeEnter runs right after the fragment becomes active.
	OnBeforeEnter func()

	// OnBeforeLeave runs right before the fragment stops being active.
	OnBeforeLeave func()

	mu     sync.RWMutex
	loaded Factory
}

// Implementation returns the factory bound to the route: the static
// Component if set, otherwise the factory installed by a finished Load.
func (r *Route) Implementation() Factory {
	if r == nil {
		return nil
	}
	if r.Component != nil {
		return r.Component
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// NeedsLoad reports whether the route has a loader that has not resolved yet.
func (r *Route) NeedsLoad() bool {
	return r != nil && r.Load != nil && r.Implementation() == nil
}

// Install records the factory resolved by Load.
func (r *Route) Install(f Factory) {
	r.mu.Lock()
	r.loaded = f
	r.mu.Unlock()
}

// Normalized is a flattened leaf route.
type Normalized struct {
	// Path is the absolute path of the leaf, e.g. "/users/:userId".
	Path string

	// Name is the last non-empty name found along Routes.
	Name string

	// Routes is the ancestor chain, root first, the leaf last.
	Routes []*Route

	// Parameters holds the dynamic segment values bound at match time.
	Parameters map[string]string

	// URL is the query string that produced the match.
	URL string
}

// Leaf returns the last route of the chain.
func (n *Normalized) Leaf() *Route {
	if n == nil || len(n.Routes) == 0 {
		return nil
	}
	return n.Routes[len(n.Routes)-1]
}

// Fragment returns the chain entry at depth index, or nil when the chain
// is shorter. It is safe to call on a nil route.
func (n *Normalized) Fragment(index int) *Route {
	if n == nil || index < 0 || index >= len(n.Routes) {
		return nil
	}
	return n.Routes[index]
}

// FragmentsFrom returns the chain entries at depth index and below.
func (n *Normalized) FragmentsFrom(index int) []*Route {
	if n == nil || index < 0 || index >= len(n.Routes) {
		return nil
	}
	return n.Routes[index:]
}

// clone returns a copy sharing the ancestor chain with fresh parameters.
func (n *Normalized) clone() *Normalized {
	c := *n
	c.Parameters = make(map[string]string, len(n.Parameters))
	for k, v := range n.Parameters {
		c.Parameters[k] = v
	}
	return &c
}

// Query selects a route either by literal URL or by name and parameters.
// A URL takes precedence over a name.
type Query struct {
	URL        string
	Name       string
	Parameters map[string]string

	literal bool
}

// URL builds a query for a literal URL. Unlike Query{URL: u}, it also
// selects URL matching when u is empty.
func URL(u string) Query {
	return Query{URL: u, literal: true}
}

// Named builds a name query. A nil params map means no parameters were
// supplied.
func Named(name string, params map[string]string) Query {
	return Query{Name: name, Parameters: params}
}

// IsURL reports whether the query resolves by URL.
func (q Query) IsURL() bool {
	return q.literal || q.URL != ""
}

// IsZero reports whether the query selects nothing.
func (q Query) IsZero() bool {
	return !q.IsURL() && q.Name == ""
}

// WithPrefix returns the query with prefix prepended to its URL. Name
// queries are returned unchanged.
func (q Query) WithPrefix(prefix string) Query {
	if !q.IsURL() {
		return q
	}
	q.URL = prefix + q.URL
	return q
}

// String describes the query for logs.
func (q Query) String() string {
	if q.IsURL() {
		return q.URL
	}
	if q.Name != "" {
		return "name:" + q.Name
	}
	return "<empty>"
}
