package view

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/flxrouter/pkg/render"
	"github.com/vango-dev/flxrouter/pkg/route"
	"github.com/vango-dev/flxrouter/pkg/router"
	"github.com/vango-dev/flxrouter/pkg/vdom"
)

type testHost struct {
	updates    int
	dispatched chan func()
}

func newTestHost() *testHost {
	return &testHost{dispatched: make(chan func(), 4)}
}

func (h *testHost) RequestUpdate()     { h.updates++ }
func (h *testHost) Dispatch(fn func()) { h.dispatched <- fn }

func (h *testHost) next(t *testing.T) func() {
	t.Helper()
	select {
	case fn := <-h.dispatched:
		return fn
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for dispatch")
		return nil
	}
}

type hookLog []string

func (l *hookLog) hooks(name string) (enter, leave func()) {
	return func() { *l = append(*l, "enter:"+name) }, func() { *l = append(*l, "leave:"+name) }
}

func (l *hookLog) String() string { return strings.Join(*l, ",") }

func newRouter(t *testing.T, routes []*route.Route, entry string) *router.Router {
	t.Helper()
	r, err := router.New(router.Config{Routes: routes, Entry: route.URL(entry)})
	if err != nil {
		t.Fatalf("router.New() error: %v", err)
	}
	return r
}

func hooked(log *hookLog, r *route.Route) *route.Route {
	r.OnBeforeEnter, r.OnBeforeLeave = log.hooks(r.Path)
	return r
}

func TestRouterView_ThreeLevelDeepestChange(t *testing.T) {
	var log hookLog
	routes := []*route.Route{
		hooked(&log, &route.Route{Path: "/a", Children: []*route.Route{
			hooked(&log, &route.Route{Path: "b", Children: []*route.Route{
				hooked(&log, &route.Route{Path: "c1"}),
				hooked(&log, &route.Route{Path: "c2"}),
			}}),
		}}),
	}
	r := newRouter(t, routes, "/a/b/c1")

	h0, h1, h2 := newTestHost(), newTestHost(), newTestHost()
	root := New(h0, WithRouter(r))
	mid := New(h1, WithParent(root))
	leaf := New(h2, WithParent(mid))
	for _, v := range []*RouterView{root, mid, leaf} {
		if err := v.Connect(); err != nil {
			t.Fatalf("Connect() error: %v", err)
		}
	}

	if root.Index() != 0 || mid.Index() != 1 || leaf.Index() != 2 {
		t.Fatalf("indexes = %d %d %d, want 0 1 2", root.Index(), mid.Index(), leaf.Index())
	}
	if leaf.Fragment().Path != "c1" {
		t.Fatalf("leaf fragment = %q, want c1", leaf.Fragment().Path)
	}

	log = nil
	h0.updates, h1.updates, h2.updates = 0, 0, 0

	r.Push(route.URL("/a/b/c2"))

	if got := log.String(); got != "leave:c1,enter:c2" {
		t.Errorf("hooks = %q, want %q", got, "leave:c1,enter:c2")
	}
	if h0.updates != 0 || h1.updates != 0 {
		t.Errorf("shallow updates = %d %d, want 0 0", h0.updates, h1.updates)
	}
	if h2.updates != 1 {
		t.Errorf("leaf updates = %d, want 1", h2.updates)
	}
	if leaf.Fragment().Path != "c2" {
		t.Errorf("leaf fragment = %q, want c2", leaf.Fragment().Path)
	}
}

func TestRouterView_LeaveHooksDeepestFirst(t *testing.T) {
	var log hookLog
	routes := []*route.Route{
		hooked(&log, &route.Route{Path: "/a", Children: []*route.Route{
			hooked(&log, &route.Route{Path: "b", Children: []*route.Route{
				hooked(&log, &route.Route{Path: "c"}),
			}}),
		}}),
		hooked(&log, &route.Route{Path: "/z"}),
	}
	r := newRouter(t, routes, "/a/b/c")

	host := newTestHost()
	root := New(host, WithRouter(r))
	_ = root.Connect()
	mid := New(host, WithParent(root))
	_ = mid.Connect()

	log = nil
	r.Push(route.URL("/z"))

	if got := log.String(); got != "leave:c,leave:b,leave:/a,enter:/z" {
		t.Errorf("hooks = %q", got)
	}
}

func TestRouterView_ParameterChangeReentersLeaf(t *testing.T) {
	var log hookLog
	routes := []*route.Route{
		{Path: "/users", Children: []*route.Route{
			hooked(&log, &route.Route{Path: ":id"}),
		}},
	}
	r := newRouter(t, routes, "/users/1")

	host := newTestHost()
	root := New(host, WithRouter(r))
	_ = root.Connect()
	leaf := New(host, WithParent(root))
	_ = leaf.Connect()

	log = nil
	r.Push(route.URL("/users/2"))

	if got := log.String(); got != "leave::id,enter::id" {
		t.Errorf("hooks = %q", got)
	}
	if leaf.Route().Parameters["id"] != "2" {
		t.Errorf("id = %q, want 2", leaf.Route().Parameters["id"])
	}
}

func TestRouterView_RenderKinds(t *testing.T) {
	routes := []*route.Route{
		{Path: "/component", Component: func(route.Outlet) vdom.Component {
			return vdom.Func(func() *vdom.VNode { return vdom.P("component") })
		}},
		{Path: "/inline", Render: func(props route.Props) *vdom.VNode {
			return vdom.P(vdom.Textf("hello %v", props["who"]))
		}},
		{Path: "/empty"},
	}
	r := newRouter(t, routes, "/component")

	v := New(newTestHost(), WithRouter(r), WithProps(route.Props{"who": "ada"}))
	_ = v.Connect()

	renderer := render.NewRenderer(render.RendererConfig{})
	html := func() string {
		out, err := renderer.RenderToString(v.Render())
		if err != nil {
			t.Fatalf("RenderToString() error: %v", err)
		}
		return out
	}

	if got := html(); got != "<p>component</p>" {
		t.Errorf("component render = %q", got)
	}

	r.To(route.URL("/inline"))
	if got := html(); got != "<p>hello ada</p>" {
		t.Errorf("inline render = %q", got)
	}

	r.To(route.URL("/empty"))
	if v.Render() != nil {
		t.Error("render of fragment without implementation is not nil")
	}
}

func TestRouterView_NothingBeyondChain(t *testing.T) {
	r := newRouter(t, []*route.Route{{Path: "/"}}, "/")

	root := New(newTestHost(), WithRouter(r))
	_ = root.Connect()
	child := New(newTestHost(), WithParent(root))
	_ = child.Connect()

	if child.Fragment() != nil || child.Render() != nil {
		t.Error("child view beyond the chain rendered something")
	}
}

func TestRouterView_LazyLoad(t *testing.T) {
	var log hookLog
	release := make(chan struct{})
	lazy := hooked(&log, &route.Route{
		Path: "/lazy",
		Load: func(ctx context.Context) (route.Factory, error) {
			<-release
			return func(route.Outlet) vdom.Component {
				return vdom.Func(func() *vdom.VNode { return vdom.Span("loaded") })
			}, nil
		},
	})
	r := newRouter(t, []*route.Route{{Path: "/"}, lazy}, "/")

	host := newTestHost()
	v := New(host, WithRouter(r))
	_ = v.Connect()
	host.updates = 0
	log = nil

	r.Push(route.URL("/lazy"))

	if v.Render() != nil {
		t.Error("pending fragment rendered")
	}
	if host.updates != 0 || len(log) != 0 {
		t.Errorf("before load: updates = %d hooks = %q, want none", host.updates, log.String())
	}

	close(release)
	host.next(t)()

	if got := log.String(); got != "enter:/lazy" {
		t.Errorf("hooks = %q, want enter:/lazy", got)
	}
	if host.updates != 1 {
		t.Errorf("updates = %d, want 1", host.updates)
	}
	if v.Render() == nil {
		t.Error("loaded fragment rendered nothing")
	}

	// The installed factory is reused without loading again.
	r.Push(route.URL("/"))
	log = nil
	r.Push(route.URL("/lazy"))
	if got := log.String(); got != "enter:/lazy" {
		t.Errorf("hooks on revisit = %q, want enter:/lazy", got)
	}
}

func TestRouterView_StaleLoad(t *testing.T) {
	var log hookLog
	release := make(chan struct{})
	lazy := hooked(&log, &route.Route{
		Path: "/lazy",
		Load: func(ctx context.Context) (route.Factory, error) {
			<-release
			return func(route.Outlet) vdom.Component { return vdom.Func(func() *vdom.VNode { return nil }) }, nil
		},
	})
	r := newRouter(t, []*route.Route{{Path: "/"}, lazy}, "/")

	host := newTestHost()
	v := New(host, WithRouter(r))
	_ = v.Connect()

	r.Push(route.URL("/lazy"))
	r.Push(route.URL("/"))
	host.updates = 0
	log = nil

	close(release)
	host.next(t)()

	if host.updates != 0 || len(log) != 0 {
		t.Errorf("stale load: updates = %d hooks = %q, want none", host.updates, log.String())
	}
	if lazy.Implementation() == nil {
		t.Error("stale load did not install the factory")
	}
}

type chanWriter chan string

func (c chanWriter) Write(p []byte) (int, error) {
	c <- string(p)
	return len(p), nil
}

func TestRouterView_LoadError(t *testing.T) {
	logs := make(chanWriter, 4)
	logger := slog.New(slog.NewTextHandler(logs, nil))

	failing := &route.Route{
		Path: "/broken",
		Load: func(context.Context) (route.Factory, error) {
			return nil, errors.New("chunk missing")
		},
	}
	r := newRouter(t, []*route.Route{failing}, "/broken")

	v := New(newTestHost(), WithRouter(r), WithLogger(logger))
	_ = v.Connect()

	select {
	case line := <-logs:
		if !strings.Contains(line, "fragment load failed") || !strings.Contains(line, "chunk missing") {
			t.Errorf("log = %q", line)
		}
	case <-time.After(time.Second):
		t.Fatal("load error not logged")
	}
	if v.Render() != nil {
		t.Error("failed fragment rendered")
	}
}

func TestRouterView_MissingRouter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
	v := New(newTestHost(), WithLogger(logger))

	if err := v.Connect(); !errors.Is(err, ErrMissingRouter) {
		t.Fatalf("Connect() error = %v, want ErrMissingRouter", err)
	}
	if v.Render() != nil || v.Connected() {
		t.Error("view without router rendered or connected")
	}
}

func TestRouterView_DifferentRouterBecomesRoot(t *testing.T) {
	outer := newRouter(t, []*route.Route{{Path: "/"}}, "/")
	inner := newRouter(t, []*route.Route{{Path: "/tab"}}, "/tab")

	parent := New(newTestHost(), WithRouter(outer))
	_ = parent.Connect()
	child := New(newTestHost(), WithParent(parent), WithRouter(inner))
	_ = child.Connect()

	if !child.IsRoot() || child.Index() != 0 {
		t.Errorf("child root = %v index = %d, want root at 0", child.IsRoot(), child.Index())
	}
	if inner.View() != child {
		t.Error("inner router not bound to child view")
	}
	if parent.Child() != nil {
		t.Error("parent adopted a view of another router")
	}
	if child.Fragment().Path != "/tab" {
		t.Errorf("fragment = %q, want /tab", child.Fragment().Path)
	}
}

func TestRouterView_LocalRouterBecomesRoot(t *testing.T) {
	shared := newRouter(t, []*route.Route{{Path: "/"}}, "/")
	local := router.NewWithResolver(shared.Resolver(), true)

	parent := New(newTestHost(), WithRouter(local))
	_ = parent.Connect()
	child := New(newTestHost(), WithParent(parent), WithRouter(local))
	_ = child.Connect()

	if !child.IsRoot() || local.View() != child {
		t.Error("view of a local router did not become root")
	}
}

func TestRouterView_SameRouterBecomesChild(t *testing.T) {
	r := newRouter(t, []*route.Route{{Path: "/"}}, "/")

	parent := New(newTestHost(), WithRouter(r))
	_ = parent.Connect()
	child := New(newTestHost(), WithParent(parent), WithRouter(r))
	_ = child.Connect()

	if child.IsRoot() || parent.Child() != child || r.View() != parent {
		t.Error("view of the parent's router did not become its child")
	}
}

func TestNested_InheritsFromOutlet(t *testing.T) {
	var nested *RouterView
	routes := []*route.Route{
		{Path: "/users", Component: func(outlet route.Outlet) vdom.Component {
			nested = Nested(outlet)
			return vdom.Func(func() *vdom.VNode { return nested.Render() })
		}, Children: []*route.Route{
			{Path: "", Render: func(route.Props) *vdom.VNode { return vdom.Text("index") }},
		}},
	}
	r := newRouter(t, routes, "/users")

	host := newTestHost()
	root := New(host, WithRouter(r))
	_ = root.Connect()
	root.Render()

	if nested == nil || nested.Parent() != root {
		t.Fatal("nested view not parented to root")
	}
	if err := nested.Connect(); err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if nested.Router() != r || nested.Index() != 1 {
		t.Errorf("nested router/index = %p/%d, want root's router at 1", nested.Router(), nested.Index())
	}
	if nested.Render() == nil {
		t.Error("nested view rendered nothing")
	}

	nested.Disconnect()
	if root.Child() != nil || nested.Connected() {
		t.Error("Disconnect() left the view attached")
	}
}

func TestNested_ForeignOutlet(t *testing.T) {
	v := Nested(nil)
	if v.Parent() != nil {
		t.Error("view from nil outlet has a parent")
	}
}

func TestRouterView_NestReusesChild(t *testing.T) {
	var log hookLog
	layout := func(outlet route.Outlet) vdom.Component {
		v := outlet.(*RouterView)
		return vdom.Func(func() *vdom.VNode { return vdom.Div(v.Nest().Render()) })
	}
	routes := []*route.Route{
		{Path: "/users", Component: layout, Children: []*route.Route{
			hooked(&log, &route.Route{Path: "", Render: func(route.Props) *vdom.VNode { return vdom.Text("list") }}),
			hooked(&log, &route.Route{Path: ":id", Render: func(route.Props) *vdom.VNode { return vdom.Text("detail") }}),
		}},
		hooked(&log, &route.Route{Path: "/about"}),
	}
	r := newRouter(t, routes, "/users")

	root := New(newTestHost(), WithRouter(r))
	_ = root.Connect()

	renderer := render.NewRenderer(render.RendererConfig{})
	html, err := renderer.RenderToString(root.Render())
	if err != nil {
		t.Fatal(err)
	}
	if html != "<div>list</div>" {
		t.Errorf("html = %q, want %q", html, "<div>list</div>")
	}

	child := root.Child()
	if child == nil || !child.Connected() {
		t.Fatal("Nest() did not connect a child view")
	}
	root.Render()
	if root.Child() != child {
		t.Error("second render replaced the nested view")
	}

	log = nil
	r.Push(route.URL("/users/7"))
	if got := log.String(); got != "leave:,enter::id" {
		t.Errorf("hooks = %q", got)
	}

	r.Push(route.URL("/about"))
	if child.Connected() || root.Child() != nil {
		t.Error("nested view survived a change of the parent fragment")
	}
}

func TestRouterView_NestWithoutRouter(t *testing.T) {
	root := New(newTestHost())

	nested := root.Nest()
	if nested.Connected() {
		t.Error("Nest() connected a view with no router")
	}
	if nested.Render() != nil {
		t.Error("disconnected nested view rendered something")
	}
	if root.Child() != nil {
		t.Error("failed Nest() registered a child")
	}
}
