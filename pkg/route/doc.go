// Package route flattens route trees and matches queries against them.
//
// A route tree is a slice of *Route nodes. GenerateURLs walks the tree depth
// first and produces one Normalized record per leaf, carrying the absolute
// path, the resolved name and the full ancestor chain:
//
//	routes := []*route.Route{
//	    {Path: "/", Name: "home", Component: home},
//	    {Path: "/users", Name: "users", Component: users, Children: []*route.Route{
//	        {Path: "", Name: "users-index", Render: usersIndex},
//	        {Path: ":userId", Name: "user-detail", Load: loadUserDetail},
//	    }},
//	}
//
//	table, err := route.GenerateURLs(routes)
//	// table[2].Path == "/users/:userId"
//
// # Matching
//
// FindRouteByURL matches a literal URL segment by segment. Dynamic
// segments (":id") bind parameters and a "*" segment swallows the rest of
// the URL under the "*" key:
//
//	n, err := route.FindRouteByURL(table, "/users/42")
//	// n.Parameters["userId"] == "42"
//
// FindRouteByName looks a route up by name and substitutes parameters:
//
//	n, err := route.FindRouteByName(table, "user-detail", map[string]string{"userId": "42"})
//	// n.URL == "/users/42"
package route
