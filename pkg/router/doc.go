// Package router owns navigation state for nested router views.
//
// A Resolver holds the normalized route table and the current route. It
// resolves queries with package route, notifies its routers, records
// history entries and remembers the last pushed URL in a routestore.Store.
//
// A Router is a thin facade over a Resolver. Several routers may share a
// resolver; a sub-router prefixes every URL query with the path its parent
// had when it registered:
//
//	r, err := router.New(router.Config{
//	    Routes:     routes,
//	    UseHistory: true,
//	    Entry:      route.URL("/"),
//	})
//	if err != nil {
//	    return err
//	}
//	r.Push(route.URL("/users/42"))
//	r.Push(route.Named("user", map[string]string{"userId": "7"}))
//
// # History
//
// History abstracts the browser history API. MemoryHistory keeps entries
// in memory and is the default; a server session can implement History by
// forwarding push-state records to its client and replaying pop events.
//
// # Instrumentation
//
// Navigations run inside an OpenTelemetry span named "flxrouter.navigate"
// and, with WithMetrics, are counted by Prometheus collectors.
//
// # Concurrency
//
// Resolvers and routers are single-owner: drive them from one goroutine,
// such as a session event loop. MemoryHistory is safe for concurrent use.
package router
