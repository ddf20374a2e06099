package demo

import (
	"context"
	"time"

	"github.com/vango-dev/flxrouter/internal/routefile"
	"github.com/vango-dev/flxrouter/pkg/appctx"
	"github.com/vango-dev/flxrouter/pkg/route"
	"github.com/vango-dev/flxrouter/pkg/vdom"
	"github.com/vango-dev/flxrouter/pkg/view"
)

// Component names usable in route files.
const (
	ComponentHome       = "home"
	ComponentSettings   = "settings"
	ComponentUsers      = "users"
	ComponentUserList   = "user-list"
	ComponentUserDetail = "user-detail"
)

// LoadDelay simulates fetching the user page bundle.
var LoadDelay = 20 * time.Millisecond

// Register binds the demo components in reg.
func Register(reg *routefile.Registry) {
	reg.Register(ComponentHome, Home)
	reg.Register(ComponentSettings, Settings)
	reg.Register(ComponentUsers, Users)
	reg.Register(ComponentUserList, UserList)
	reg.Register(ComponentUserDetail, UserDetail)
}

// Routes returns the demo route table.
func Routes() []*route.Route {
	return []*route.Route{
		{Path: "/", Name: "home", Component: Home},
		{Path: "/settings", Name: "settings", Component: Settings},
		{Path: "/users/", Component: Users, Children: []*route.Route{
			{Path: "", Name: "users", Component: UserList},
			{Path: ":userId", Name: "user", Load: loadUserDetail},
		}},
	}
}

func loadUserDetail(ctx context.Context) (route.Factory, error) {
	select {
	case <-time.After(LoadDelay):
		return UserDetail, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// outletView returns the router view behind outlet, or nil.
func outletView(outlet route.Outlet) *view.RouterView {
	v, _ := outlet.(*view.RouterView)
	return v
}

func appOf(v *view.RouterView) *appctx.Context {
	if v == nil {
		return nil
	}
	app, _ := appctx.FromContext(v.Context())
	return app
}

// Home is the landing page.
func Home(route.Outlet) vdom.Component {
	return vdom.Func(func() *vdom.VNode {
		return vdom.Section(vdom.Class("page", "home"),
			vdom.H1(vdom.Text("Welcome")),
			vdom.P(vdom.Text("Pick a section from the navigation bar.")),
		)
	})
}

// Settings is a static page.
func Settings(route.Outlet) vdom.Component {
	return vdom.Func(func() *vdom.VNode {
		return vdom.Section(vdom.Class("page", "settings"),
			vdom.H1(vdom.Text("Settings")),
			vdom.Label(vdom.Input(vdom.Type("checkbox"), vdom.Checked(true)), vdom.Text(" Remember last page")),
		)
	})
}

// Users frames the users section and hosts a nested view for its children.
func Users(outlet route.Outlet) vdom.Component {
	v := outletView(outlet)
	return vdom.Func(func() *vdom.VNode {
		var nested *vdom.VNode
		if v != nil {
			nested = v.Nest().Render()
		}
		return vdom.Section(vdom.Class("page", "users"),
			vdom.H1(vdom.Text("Users")),
			vdom.Div(vdom.Class("users-body"), nested),
		)
	})
}

// UserList links every user of the directory.
func UserList(outlet route.Outlet) vdom.Component {
	dir := directoryOf(appOf(outletView(outlet)))
	return vdom.Func(func() *vdom.VNode {
		return vdom.Ul(vdom.Class("user-list"),
			vdom.Range(dir.List(), func(u User, _ int) *vdom.VNode {
				return vdom.Li(vdom.A(vdom.Href("/users/"+u.ID), vdom.Text(u.Name)))
			}),
		)
	})
}

// UserDetail shows the user selected by the userId parameter.
func UserDetail(outlet route.Outlet) vdom.Component {
	v := outletView(outlet)
	dir := directoryOf(appOf(v))
	return vdom.Func(func() *vdom.VNode {
		var id string
		if v != nil && v.Router() != nil {
			if cur := v.Router().Route(); cur != nil {
				id = cur.Parameters["userId"]
			}
		}

		u, ok := dir.Get(id)
		if !ok {
			return vdom.P(vdom.Class("not-found"), vdom.Textf("No user %q.", id))
		}
		return vdom.Article(vdom.Class("user"),
			vdom.H2(vdom.Text(u.Name)),
			vdom.Dl(
				vdom.Dt(vdom.Text("Role")), vdom.Dd(vdom.Text(u.Role)),
			),
			vdom.A(vdom.Href("/users"), vdom.Text("All users")),
		)
	})
}
