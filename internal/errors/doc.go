// Package errors provides coded, printable errors for the flxrouter CLI
// and server.
//
// Each code (e.g. "R001") maps to a category, a short message, a longer
// explanation and a documentation URL. Errors returned by the router
// packages are mapped onto codes with FromRouteError:
//
//	table, err := route.GenerateURLs(routes)
//	if err != nil {
//	    errors.PrintError(os.Stderr, errors.FromRouteError(err).
//	        WithLocation("routes.yaml", 12, 5))
//	}
//
// Format renders the error for a terminal, including the lines around the
// location when the file is readable:
//
//	ERROR R001: Duplicate route identifier
//
//	  routes.yaml:12:5
//
//	    11 │   - path: b
//	  → 12 │   - path: b
//	       │     ^
//
//	  Hint: Give every leaf route a distinct path and name.
package errors
