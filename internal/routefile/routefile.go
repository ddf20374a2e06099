package routefile

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/flxrouter/internal/errors"
	"github.com/vango-dev/flxrouter/pkg/route"
	"github.com/vango-dev/flxrouter/pkg/vdom"
)

// Entry is one node of a route file.
type Entry struct {
	Path      string   `yaml:"path"`
	Name      string   `yaml:"name,omitempty"`
	Component string   `yaml:"component,omitempty"`
	Lazy      bool     `yaml:"lazy,omitempty"`
	Text      string   `yaml:"text,omitempty"`
	Children  []*Entry `yaml:"children,omitempty"`

	line   int
	column int
}

// UnmarshalYAML decodes the entry and records where it starts.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	type plain Entry
	if err := node.Decode((*plain)(e)); err != nil {
		return err
	}
	e.line, e.column = node.Line, node.Column
	return nil
}

// Line returns the entry's line in its file, or 0 when it was not decoded.
func (e *Entry) Line() int {
	return e.line
}

// Parse decodes a route file. JSON input is accepted as YAML.
func Parse(data []byte) ([]*Entry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var entries []*Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Build converts entries into a route tree, resolving components in reg.
// file is used only in error locations.
func Build(file string, entries []*Entry, reg *Registry) ([]*route.Route, error) {
	routes := make([]*route.Route, 0, len(entries))
	for _, e := range entries {
		r, err := build(file, e, reg)
		if err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}
	return routes, nil
}

func build(file string, e *Entry, reg *Registry) (*route.Route, error) {
	r := &route.Route{Path: e.Path, Name: e.Name}

	switch {
	case e.Component != "":
		factory, ok := reg.Lookup(e.Component)
		if !ok {
			err := errors.New(errors.CodeUnknownComponent).
				WithDetail(fmt.Sprintf("Component %q is not registered.", e.Component))
			if len(reg.Names()) > 0 {
				err = err.WithSuggestion("Registered components: " + strings.Join(reg.Names(), ", "))
			}
			return nil, locate(err, file, e)
		}
		if e.Lazy {
			name := e.Component
			r.Load = func(ctx context.Context) (route.Factory, error) {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				f, ok := reg.Lookup(name)
				if !ok {
					return nil, fmt.Errorf("component %q is no longer registered", name)
				}
				return f, nil
			}
		} else {
			r.Component = factory
		}

	case e.Text != "":
		text := e.Text
		r.Render = func(route.Props) *vdom.VNode {
			return vdom.P(vdom.Text(text))
		}
	}

	if e.Children != nil {
		r.Children = make([]*route.Route, 0, len(e.Children))
		for _, c := range e.Children {
			child, err := build(file, c, reg)
			if err != nil {
				return nil, err
			}
			r.Children = append(r.Children, child)
		}
	}
	return r, nil
}

func locate(err *errors.RouterError, file string, e *Entry) *errors.RouterError {
	if file == "" || e.line == 0 {
		return err
	}
	return err.WithLocation(file, e.line, e.column)
}

// Load reads, parses and builds the route file at path. The resulting
// table is validated so duplicate paths and names are reported here.
func Load(path string, reg *Registry) ([]*route.Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeRouteFile).Wrap(err)
	}

	entries, err := Parse(data)
	if err != nil {
		rerr := errors.New(errors.CodeRouteFile).Wrap(err)
		if line := yamlErrorLine(err); line > 0 {
			rerr = rerr.WithLocation(path, line, 1)
		}
		return nil, rerr
	}

	routes, err := Build(path, entries, reg)
	if err != nil {
		return nil, err
	}

	if _, err := route.GenerateURLs(routes); err != nil {
		return nil, errors.FromRouteError(err)
	}
	return routes, nil
}

// yamlErrorLine extracts the line number yaml.v3 puts in syntax errors,
// e.g. "yaml: line 3: did not find expected key".
func yamlErrorLine(err error) int {
	var line int
	msg := err.Error()
	if i := strings.Index(msg, "line "); i >= 0 {
		fmt.Sscanf(msg[i:], "line %d", &line)
	}
	return line
}
