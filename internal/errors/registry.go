package errors

import "sort"

// Registered error codes.
const (
	CodeDuplicateRoute = "R001"
	CodeUnknownURL     = "R002"
	CodeUnknownName    = "R003"
	CodeInvalidQuery   = "R004"
	CodeMissingRouter  = "R005"

	CodeRouteFile        = "R010"
	CodeUnknownComponent = "R011"

	CodeStoreUnavailable = "R020"

	CodeConfigInvalid = "R030"

	CodeCommandFailed = "R040"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

const docBaseURL = "https://flxrouter.dev/docs/errors/"

func docURL(code string) string {
	return docBaseURL + code
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Route table errors (R001-R009)

	CodeDuplicateRoute: {
		Category:   CategoryRoute,
		Message:    "Duplicate route identifier",
		Detail:     "Two leaf routes normalize to the same path, or two named leaf routes share a name. The route table is rejected.",
		Suggestion: "Give every leaf route a distinct path and name.",
	},
	CodeUnknownURL: {
		Category: CategoryNavigation,
		Message:  "No route matches the URL",
		Detail:   "Navigation failed because no route in the table matches the URL. The current route is kept.",
	},
	CodeUnknownName: {
		Category:   CategoryNavigation,
		Message:    "No route matches the name",
		Detail:     "Navigation failed because no route carries the name, or the parameters do not fit its path.",
		Suggestion: "Parameter values must be word characters (letters, digits, underscore).",
	},
	CodeInvalidQuery: {
		Category: CategoryNavigation,
		Message:  "Invalid navigation query",
		Detail:   "A query needs either a URL or a route name.",
	},
	CodeMissingRouter: {
		Category:   CategoryView,
		Message:    "Router view without router",
		Detail:     "A root router view was connected without a router and without a parent view. It renders nothing.",
		Suggestion: "Create the root view with view.WithRouter, or nested views with view.Nested.",
	},

	// Route file errors (R010-R019)

	CodeRouteFile: {
		Category: CategoryRoute,
		Message:  "Invalid route file",
		Detail:   "The route file could not be read or parsed.",
	},
	CodeUnknownComponent: {
		Category:   CategoryRoute,
		Message:    "Unknown component",
		Detail:     "A route refers to a component that is not registered.",
		Suggestion: "Register the component before loading the route file.",
	},

	// Store errors (R020-R029)

	CodeStoreUnavailable: {
		Category: CategoryStore,
		Message:  "Route store unavailable",
		Detail:   "The last-route store could not be opened. Check the store backend settings.",
	},

	// Config errors (R030-R039)

	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},

	// CLI errors (R040-R049)

	CodeCommandFailed: {
		Category: CategoryCLI,
		Message:  "Command failed",
	},
}

// Codes returns every registered code in order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
