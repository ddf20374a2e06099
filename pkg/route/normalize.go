package route

import "strings"

// GenerateURLs flattens a route tree into normalized leaf routes and checks
// that paths are unique and that names are unique among named routes.
// The first duplicate found in scan order is reported.
func GenerateURLs(routes []*Route) ([]*Normalized, error) {
	normalized := FuseRoutesPaths(routes, nil, "")
	for _, n := range normalized {
		BuildRouteName(n)
	}

	seenPaths := make(map[string]struct{}, len(normalized))
	for _, n := range normalized {
		if _, ok := seenPaths[n.Path]; ok {
			return nil, &DuplicateRouteError{Identifier: "path", Value: n.Path}
		}
		seenPaths[n.Path] = struct{}{}
	}

	seenNames := make(map[string]struct{}, len(normalized))
	for _, n := range normalized {
		if n.Name == "" {
			continue
		}
		if _, ok := seenNames[n.Name]; ok {
			return nil, &DuplicateRouteError{Identifier: "name", Value: n.Name}
		}
		seenNames[n.Name] = struct{}{}
	}

	return normalized, nil
}

// FuseRoutesPaths walks routes depth first, accumulating the ancestor chain
// in fragments and the joined path in path. Each leaf yields a Normalized
// route whose URL equals its path.
func FuseRoutesPaths(routes []*Route, fragments []*Route, path string) []*Normalized {
	var out []*Normalized

	for _, fragment := range routes {
		if fragment == nil {
			continue
		}

		var joined string
		switch {
		case path == "":
			joined = fragment.Path
		case fragment.Path == "":
			joined = path
		default:
			joined = path + "/" + fragment.Path
		}
		joined = cleanUpPath(joined)

		chain := make([]*Route, len(fragments), len(fragments)+1)
		copy(chain, fragments)
		chain = append(chain, fragment)

		if fragment.Children != nil {
			out = append(out, FuseRoutesPaths(fragment.Children, chain, joined)...)
			continue
		}

		out = append(out, &Normalized{
			Path:       joined,
			Routes:     chain,
			Parameters: map[string]string{},
			URL:        joined,
		})
	}

	return out
}

// BuildRouteName sets the route name to the last non-empty name along its
// ancestor chain, so a name closer to the leaf overrides an ancestor's.
func BuildRouteName(n *Normalized) *Normalized {
	for _, r := range n.Routes {
		if r.Name != "" {
			n.Name = r.Name
		}
	}
	return n
}

// cleanUpPath collapses repeated slashes and strips one trailing slash
// unless the path is the root.
func cleanUpPath(path string) string {
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}

	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	return path
}
