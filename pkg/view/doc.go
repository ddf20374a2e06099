// Package view implements router views: nested outlets that each render
// one depth of the current route.
//
// A root view is bound to a router. Views rendered inside a fragment's
// component are created with that fragment's outlet as parent and inherit
// the router:
//
//	root := view.New(session, view.WithRouter(r))
//	if err := root.Connect(); err != nil {
//	    return err
//	}
//
//	// inside a fragment component built from outlet:
//	child := view.Nested(outlet)
//	_ = child.Connect()
//
// The root renders routes[0] of the current route, its child routes[1],
// and so on. On a route change a view whose fragment is unchanged hands
// the route to its child; otherwise it runs the before-leave hooks of the
// old fragments at or below its depth, deepest first, adopts the route and
// runs the new fragment's before-enter hook.
//
// Lazy fragments are loaded in their own goroutine. The result is applied
// through Host.Dispatch, so hooks and updates still run on the host's
// goroutine.
package view
