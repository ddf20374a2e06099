package demo

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/flxrouter/internal/routefile"
	"github.com/vango-dev/flxrouter/pkg/appctx"
	"github.com/vango-dev/flxrouter/pkg/render"
	"github.com/vango-dev/flxrouter/pkg/route"
	"github.com/vango-dev/flxrouter/pkg/router"
	"github.com/vango-dev/flxrouter/pkg/vdom"
	"github.com/vango-dev/flxrouter/pkg/view"
)

type loopHost struct {
	dispatched chan func()
}

func (h *loopHost) RequestUpdate()     {}
func (h *loopHost) Dispatch(fn func()) { h.dispatched <- fn }

func mount(t *testing.T, url string, dir *Directory) (*router.Router, *view.RouterView, *loopHost) {
	t.Helper()

	r, err := router.New(router.Config{Routes: Routes(), Entry: route.URL(url)})
	if err != nil {
		t.Fatalf("router.New() error: %v", err)
	}
	app := appctx.New(r)
	Provide(dir)(app)

	host := &loopHost{dispatched: make(chan func(), 4)}
	v := view.New(host, view.WithRouter(r), view.WithContext(appctx.WithContext(context.Background(), app)))
	if err := v.Connect(); err != nil {
		t.Fatal(err)
	}
	return r, v, host
}

func html(t *testing.T, n *vdom.VNode) string {
	t.Helper()
	out, err := render.NewRenderer(render.RendererConfig{}).RenderToString(n)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestRoutes_Table(t *testing.T) {
	table, err := route.GenerateURLs(Routes())
	if err != nil {
		t.Fatalf("GenerateURLs() error: %v", err)
	}
	want := map[string]string{
		"/":              "home",
		"/settings":      "settings",
		"/users":         "users",
		"/users/:userId": "user",
	}
	if len(table) != len(want) {
		t.Fatalf("len(table) = %d, want %d", len(table), len(want))
	}
	for _, n := range table {
		if want[n.Path] != n.Name {
			t.Errorf("route %q name = %q, want %q", n.Path, n.Name, want[n.Path])
		}
	}
}

func TestUsers_ListFromDirectory(t *testing.T) {
	dir := NewDirectory(User{ID: "9", Name: "Barbara Liskov", Role: "admin"})
	_, v, _ := mount(t, "/users", dir)

	out := html(t, v.Render())
	if !strings.Contains(out, `<a href="/users/9">Barbara Liskov</a>`) {
		t.Errorf("html = %s", out)
	}
	if strings.Contains(out, "Ada Lovelace") {
		t.Error("default directory used despite the provided one")
	}
}

func TestUserDetail_LazyLoad(t *testing.T) {
	LoadDelay = 50 * time.Millisecond
	_, v, host := mount(t, "/users", DefaultDirectory())
	v.Render()

	r := v.Router()
	r.Push(route.URL("/users/2"))

	if out := html(t, v.Render()); strings.Contains(out, "Alan Turing") {
		t.Fatalf("detail rendered before its load finished: %s", out)
	}

	select {
	case fn := <-host.dispatched:
		fn()
	case <-time.After(time.Second):
		t.Fatal("load did not finish")
	}

	out := html(t, v.Render())
	if !strings.Contains(out, "<h2>Alan Turing</h2>") || !strings.Contains(out, "<dd>editor</dd>") {
		t.Errorf("html = %s", out)
	}
}

func TestUserDetail_UnknownUser(t *testing.T) {
	LoadDelay = time.Millisecond
	_, v, host := mount(t, "/users/42", DefaultDirectory())
	// Rendering the users layout nests the view that starts the load.
	html(t, v.Render())

	select {
	case fn := <-host.dispatched:
		fn()
	case <-time.After(time.Second):
		t.Fatal("load did not finish")
	}

	if out := html(t, v.Render()); !strings.Contains(out, "No user &quot;42&quot;.") {
		t.Errorf("html = %s", out)
	}
}

func TestRegister(t *testing.T) {
	reg := routefile.NewRegistry()
	Register(reg)

	for _, name := range []string{ComponentHome, ComponentSettings, ComponentUsers, ComponentUserList, ComponentUserDetail} {
		if _, ok := reg.Lookup(name); !ok {
			t.Errorf("component %q not registered", name)
		}
	}
}

func TestShell(t *testing.T) {
	out := html(t, Shell(Title, vdom.Text("body")))
	if !strings.Contains(out, `<nav class="top"><a href="/">Home</a>`) {
		t.Errorf("nav missing: %s", out)
	}
	if !strings.Contains(out, `<div id="app">body</div>`) {
		t.Errorf("app element missing: %s", out)
	}
}
