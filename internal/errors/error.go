package errors

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/vango-dev/flxrouter/pkg/route"
	"github.com/vango-dev/flxrouter/pkg/view"
)

// Category represents the type of error.
type Category string

const (
	CategoryRoute      Category = "route"
	CategoryNavigation Category = "navigation"
	CategoryView       Category = "view"
	CategoryStore      Category = "store"
	CategoryConfig     Category = "config"
	CategoryCLI        Category = "cli"
)

// Location points into a route or config file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// RouterError is a coded error with optional location and hints.
type RouterError struct {
	// Code is a unique error identifier (e.g., "R001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the file position the error refers to.
	Location *Location

	// Context contains the file lines around Location.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RouterError) Error() string {
	msg := e.Message
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RouterError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a file location and reads the surrounding lines.
func (e *RouterError) WithLocation(file string, line, column int) *RouterError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *RouterError) WithSuggestion(s string) *RouterError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the detailed explanation.
func (e *RouterError) WithDetail(d string) *RouterError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *RouterError) Wrap(err error) *RouterError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around targetLine from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a RouterError from a registered error code.
func New(code string) *RouterError {
	template, ok := registry[code]
	if !ok {
		return &RouterError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &RouterError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
		DocURL:     docURL(code),
	}
}

// Newf creates an uncoded RouterError with a formatted message.
func Newf(category Category, format string, args ...any) *RouterError {
	return &RouterError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err under code unless it already is a RouterError.
func FromError(err error, code string) *RouterError {
	if err == nil {
		return nil
	}
	var re *RouterError
	if errors.As(err, &re) {
		return re
	}
	return New(code).Wrap(err)
}

// FromRouteError maps errors of the route and view packages to their
// codes. Other errors are wrapped as CLI errors.
func FromRouteError(err error) *RouterError {
	if err == nil {
		return nil
	}

	var (
		re      *RouterError
		dup     *route.DuplicateRouteError
		unknown *route.UnknownURLError
		name    *route.UnknownNameError
	)
	switch {
	case errors.As(err, &re):
		return re
	case errors.As(err, &dup):
		return New(CodeDuplicateRoute).Wrap(err)
	case errors.As(err, &unknown):
		return New(CodeUnknownURL).Wrap(err)
	case errors.As(err, &name):
		return New(CodeUnknownName).Wrap(err)
	case errors.Is(err, route.ErrInvalidQuery):
		return New(CodeInvalidQuery).Wrap(err)
	case errors.Is(err, view.ErrMissingRouter):
		return New(CodeMissingRouter).Wrap(err)
	}
	return New(CodeCommandFailed).Wrap(err)
}
