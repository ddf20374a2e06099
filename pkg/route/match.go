package route

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	paramPrefix = ":"
	wildcard    = "*"
)

// paramToken matches a ":name" token inside a route path.
var paramToken = regexp.MustCompile(`:(\w+)`)

// FindRouteByQuery resolves a query against the table. URL queries win
// over name queries; a query with neither fails with ErrInvalidQuery.
func FindRouteByQuery(routes []*Normalized, q Query) (*Normalized, error) {
	if q.IsURL() {
		return FindRouteByURL(routes, q.URL)
	}
	if q.Name != "" {
		return FindRouteByName(routes, q.Name, q.Parameters)
	}
	return nil, ErrInvalidQuery
}

// segmentize trims leading and trailing slashes and splits on "/".
// The root path yields a single empty segment.
func segmentize(uri string) []string {
	return strings.Split(strings.Trim(uri, "/"), "/")
}

// decodeSegment unescapes a URI segment, returning it raw when it is not
// validly escaped.
func decodeSegment(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// FindRouteByURL returns a copy of the first route, in table order, whose
// path matches u. The query string of u is ignored for matching; the
// returned route's URL is u itself.
func FindRouteByURL(routes []*Normalized, u string) (*Normalized, error) {
	pathname, _, _ := strings.Cut(u, "?")
	uriSegments := segmentize(pathname)
	isRootURI := strings.Trim(pathname, "/") == ""

	for _, r := range routes {
		if params, ok := matchSegments(uriSegments, segmentize(r.Path), isRootURI); ok {
			match := r.clone()
			match.Parameters = params
			match.URL = u
			return match, nil
		}
	}

	return nil, unknownURL(u, routes)
}

// matchSegments compares URI segments against route segments position by
// position. A "*" route segment ends the comparison successfully.
func matchSegments(uriSegments, routeSegments []string, isRootURI bool) (map[string]string, bool) {
	params := map[string]string{}
	n := max(len(uriSegments), len(routeSegments))

	for i := 0; i < n; i++ {
		if i >= len(routeSegments) {
			return nil, false
		}
		routeSegment := routeSegments[i]

		if routeSegment == wildcard {
			rest := make([]string, 0, len(uriSegments))
			for _, s := range uriSegments[min(i, len(uriSegments)):] {
				rest = append(rest, decodeSegment(s))
			}
			params[wildcard] = strings.Join(rest, "/")
			return params, true
		}

		if i >= len(uriSegments) {
			return nil, false
		}
		uriSegment := uriSegments[i]

		if name, ok := paramName(routeSegment); ok && !isRootURI {
			params[name] = decodeSegment(uriSegment)
			continue
		}
		if routeSegment != uriSegment {
			return nil, false
		}
	}

	return params, true
}

// paramName extracts "id" from ":id".
func paramName(segment string) (string, bool) {
	if len(segment) > len(paramPrefix) && strings.HasPrefix(segment, paramPrefix) {
		return segment[len(paramPrefix):], true
	}
	return "", false
}

func unknownURL(u string, routes []*Normalized) error {
	known := make([]string, len(routes))
	for i, r := range routes {
		known[i] = r.URL
	}
	return &UnknownURLError{URL: u, Known: known}
}

// FindRouteByName returns a copy of the first route whose ancestor chain
// contains a route named name.
//
// When params is nil the first candidate is returned with its static path
// as URL; dynamic segments are left unsubstituted. Otherwise every ":param"
// token is replaced by its value and the candidate matches only if the
// result matches the path's own pattern, where each token stands for a
// run of word characters.
func FindRouteByName(routes []*Normalized, name string, params map[string]string) (*Normalized, error) {
	var candidates []*Normalized
	for _, r := range routes {
		if chainHasName(r, name) {
			candidates = append(candidates, r)
		}
	}

	if params == nil && len(candidates) > 0 {
		match := candidates[0].clone()
		match.URL = match.Path
		return match, nil
	}

	for _, r := range candidates {
		path := cleanUpPath(r.Path)
		re, err := pathPattern(path)
		if err != nil {
			continue
		}

		substituted := paramToken.ReplaceAllStringFunc(path, func(token string) string {
			if v, ok := params[token[len(paramPrefix):]]; ok {
				return v
			}
			return token
		})

		groups := re.FindStringSubmatch(substituted)
		if groups == nil {
			continue
		}

		match := r.clone()
		for i, group := range re.SubexpNames() {
			if group != "" {
				match.Parameters[group] = groups[i]
			}
		}
		match.URL = substituted
		return match, nil
	}

	return nil, &UnknownNameError{Name: name}
}

func chainHasName(r *Normalized, name string) bool {
	for _, f := range r.Routes {
		if f.Name == name {
			return true
		}
	}
	return false
}

// pathPattern compiles the anchored pattern of a route path, each ":param"
// token becoming a named group of word characters.
func pathPattern(path string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")

	last := 0
	seen := map[string]bool{}
	for _, loc := range paramToken.FindAllStringSubmatchIndex(path, -1) {
		b.WriteString(regexp.QuoteMeta(path[last:loc[0]]))
		name := path[loc[2]:loc[3]]
		if seen[name] {
			// Go rejects duplicate group names; later repeats only constrain shape.
			b.WriteString(`\w+`)
		} else {
			b.WriteString(`(?P<` + name + `>\w+)`)
			seen[name] = true
		}
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(path[last:]))
	b.WriteString("$")

	return regexp.Compile(b.String())
}
