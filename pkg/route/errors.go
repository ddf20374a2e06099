package route

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidQuery is returned when a query has neither a URL nor a name.
var ErrInvalidQuery = errors.New("invalid query: must have url or name")

// DuplicateRouteError reports two leaves sharing a path, or two named
// leaves sharing a name.
type DuplicateRouteError struct {
	// Identifier is "path" or "name".
	Identifier string

	// Value is the duplicated path or name.
	Value string
}

func (e *DuplicateRouteError) Error() string {
	return fmt.Sprintf("duplicated identifiers '%s' = '%s'", e.Identifier, e.Value)
}

// UnknownURLError reports a URL that matches no route.
type UnknownURLError struct {
	URL string

	// Known lists the URL of every route in the table.
	Known []string
}

func (e *UnknownURLError) Error() string {
	return fmt.Sprintf("could not find route with the following url: '%s' in %s",
		e.URL, strings.Join(e.Known, ", "))
}

// UnknownNameError reports a name that matches no route.
type UnknownNameError struct {
	Name string
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("could not find route with the following name: '%s'", e.Name)
}
