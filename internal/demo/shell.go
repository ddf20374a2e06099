package demo

import (
	"github.com/vango-dev/flxrouter/internal/server"
	"github.com/vango-dev/flxrouter/pkg/vdom"
)

// Title is the document title of the demo.
const Title = "flxrouter demo"

type navLink struct{ href, label string }

var navLinks = []navLink{
	{"/", "Home"},
	{"/users", "Users"},
	{"/settings", "Settings"},
}

// Shell is the demo document: a navigation bar above the app element.
func Shell(title string, app *vdom.VNode) *vdom.VNode {
	nav := vdom.Nav(vdom.Class("top"),
		vdom.Range(navLinks, func(l navLink, _ int) *vdom.VNode {
			return vdom.A(vdom.Href(l.href), vdom.Text(l.label))
		}),
	)
	return server.Document(title, nav, app)
}
