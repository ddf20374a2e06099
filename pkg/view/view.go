package view

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vango-dev/flxrouter/pkg/route"
	"github.com/vango-dev/flxrouter/pkg/router"
	"github.com/vango-dev/flxrouter/pkg/vdom"
)

// ErrMissingRouter is returned by Connect when a view has neither a
// router nor a connected parent.
var ErrMissingRouter = errors.New("view: missing router for router view")

// Host re-renders views and runs callbacks on its own goroutine.
type Host interface {
	RequestUpdate()
	Dispatch(fn func())
}

type nopHost struct{}

func (nopHost) RequestUpdate()     {}
func (nopHost) Dispatch(fn func()) { fn() }

// RouterView renders the fragment of the current route at its depth.
type RouterView struct {
	host   Host
	parent *RouterView
	child  *RouterView
	router *router.Router
	props  route.Props
	logger *slog.Logger
	ctx    context.Context

	route     *route.Normalized
	connected bool
}

// Option configures a RouterView.
type Option func(*RouterView)

// WithParent sets the enclosing view.
func WithParent(p *RouterView) Option {
	return func(v *RouterView) {
		v.parent = p
	}
}

// WithRouter binds the view to r.
func WithRouter(r *router.Router) Option {
	return func(v *RouterView) {
		v.router = r
	}
}

// WithProps sets the properties passed to inline render functions.
func WithProps(props route.Props) Option {
	return func(v *RouterView) {
		v.props = props
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(v *RouterView) {
		v.logger = l
	}
}

// WithContext sets the context passed to fragment loaders.
func WithContext(ctx context.Context) Option {
	return func(v *RouterView) {
		v.ctx = ctx
	}
}

// New creates an unconnected view rendered by host.
func New(host Host, opts ...Option) *RouterView {
	v := &RouterView{
		host:  host,
		props: route.Props{},
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.host == nil {
		v.host = nopHost{}
	}
	if v.logger == nil {
		v.logger = slog.Default()
	}
	if v.ctx == nil {
		v.ctx = context.Background()
	}
	return v
}

// Nested creates a view inside the component a fragment factory received
// outlet for. It shares the outlet's host, logger and context. An outlet
// that is not a *RouterView yields a view with no parent.
func Nested(outlet route.Outlet, opts ...Option) *RouterView {
	parent, ok := outlet.(*RouterView)
	if !ok || parent == nil {
		return New(nil, opts...)
	}

	base := []Option{WithParent(parent), WithLogger(parent.logger), WithContext(parent.ctx)}
	return New(parent.host, append(base, opts...)...)
}

// Connect wires the view into its router's view chain and applies the
// router's current route.
//
// A view without a router inherits its parent's and becomes its child. A
// view with a router becomes the router's root view when it has no
// parent, the router is local, or the parent renders a different router;
// otherwise it becomes its parent's child.
func (v *RouterView) Connect() error {
	switch {
	case v.router == nil:
		if v.parent == nil || v.parent.router == nil {
			v.logger.Error("router view has no router and no parent")
			return ErrMissingRouter
		}
		v.router = v.parent.router
		v.parent.child = v

	case v.parent == nil || v.router.UseLocal() || v.parent.router != v.router:
		v.router.BindView(v)
		v.parent = nil

	default:
		v.parent.child = v
	}

	v.connected = true
	v.SetRoute(v.router.Route())
	return nil
}

// Disconnect detaches the view and its nested views from their parent and
// router. Pending loads no longer update them.
func (v *RouterView) Disconnect() {
	if v.child != nil {
		v.child.Disconnect()
	}
	if v.parent != nil && v.parent.child == v {
		v.parent.child = nil
	}
	if v.router != nil {
		v.router.UnbindView(v)
	}
	v.connected = false
}

// Nest returns the view nested in v, creating and connecting one on first
// use. Components bound to a fragment call it while rendering to host the
// next level of the route.
//
// When v has no router the nested view cannot connect: Connect logs
// ErrMissingRouter and the returned view stays disconnected and renders
// nothing. Check Connected when that matters.
func (v *RouterView) Nest(opts ...Option) *RouterView {
	if v.child != nil && v.child.connected {
		return v.child
	}
	n := Nested(v, opts...)
	_ = n.Connect()
	return n
}

// Connected reports whether the view is connected.
func (v *RouterView) Connected() bool {
	return v.connected
}

// IsRoot reports whether the view has no parent.
func (v *RouterView) IsRoot() bool {
	return v.parent == nil
}

// Index is the view's depth below its root view.
func (v *RouterView) Index() int {
	if v.parent == nil {
		return 0
	}
	return v.parent.Index() + 1
}

// Parent returns the enclosing view of the same router, or nil.
func (v *RouterView) Parent() *RouterView {
	return v.parent
}

// Child returns the nested view, or nil.
func (v *RouterView) Child() *RouterView {
	return v.child
}

// Router returns the router the view renders.
func (v *RouterView) Router() *router.Router {
	return v.router
}

// Properties returns the render properties.
func (v *RouterView) Properties() route.Props {
	return v.props
}

// Context returns the context handed to fragment loaders.
func (v *RouterView) Context() context.Context {
	return v.ctx
}

// Route returns the route the view last adopted.
func (v *RouterView) Route() *route.Normalized {
	return v.route
}

// Fragment returns the fragment of the router's current route at the
// view's depth, or nil.
func (v *RouterView) Fragment() *route.Route {
	if v.router == nil {
		return nil
	}
	return v.router.Route().Fragment(v.Index())
}

// Render renders the fragment: its component when one is bound, nothing
// while a loader is pending, otherwise its inline render function.
func (v *RouterView) Render() *vdom.VNode {
	f := v.Fragment()
	if f == nil {
		return nil
	}

	if factory := f.Implementation(); factory != nil {
		return vdom.Mount(factory(v))
	}
	if f.Load != nil {
		return nil
	}
	if f.Render != nil {
		return f.Render(v.props)
	}
	return nil
}

// RequestUpdate asks the host to re-render.
func (v *RouterView) RequestUpdate() {
	v.host.RequestUpdate()
}

// SetRoute applies a new route to the view and its descendants.
func (v *RouterView) SetRoute(n *route.Normalized) {
	index := v.Index()

	if samePath(v.route.Fragment(index), n.Fragment(index)) && v.child != nil {
		v.route = n
		v.child.SetRoute(n)
		return
	}

	leaving := v.route.FragmentsFrom(index)
	for i := len(leaving) - 1; i >= 0; i-- {
		if leave := leaving[i].OnBeforeLeave; leave != nil {
			leave()
		}
	}

	if v.child != nil {
		v.child.Disconnect()
	}
	v.route = n

	if !v.load() {
		if f := v.Fragment(); f != nil && f.OnBeforeEnter != nil {
			f.OnBeforeEnter()
		}
		v.RequestUpdate()
	}
}

func samePath(a, b *route.Route) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Path == b.Path
}

// load starts resolving the fragment's loader and reports whether it did.
// The factory is installed on the fragment even if the view moved on; the
// enter hook and update only run if the fragment is still current.
func (v *RouterView) load() bool {
	f := v.Fragment()
	if !f.NeedsLoad() {
		return false
	}

	loader := f.Load
	ctx := v.ctx
	go func() {
		factory, err := loader(ctx)
		if err == nil && factory == nil {
			err = errors.New("loader returned no component")
		}
		if err != nil {
			v.logger.Error("fragment load failed", "path", f.Path, "error", err)
			return
		}

		f.Install(factory)

		v.host.Dispatch(func() {
			if !v.connected || v.Fragment() != f {
				return
			}
			if f.OnBeforeEnter != nil {
				f.OnBeforeEnter()
			}
			v.RequestUpdate()
		})
	}()

	return true
}
