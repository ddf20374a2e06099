// Package appctx provides the application context handed to components:
// the active router, a logger and typed values registered at startup.
package appctx

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vango-dev/flxrouter/pkg/router"
)

// Context is built once per application (or session) and passed to the
// components that need the router or shared services.
type Context struct {
	router *router.Router
	logger *slog.Logger

	mu     sync.RWMutex
	values map[string]any
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		c.logger = l
	}
}

// New creates a context around r.
func New(r *router.Router, opts ...Option) *Context {
	c := &Context{
		router: r,
		values: make(map[string]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Router returns the active router.
func (c *Context) Router() *router.Router {
	return c.router
}

// Logger returns the application logger.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// Key is a type-safe key for values held by a Context.
type Key[T any] struct {
	name string
}

// NewKey creates a key. Keys with the same name address the same value.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the key's name.
func (k Key[T]) Name() string {
	return k.name
}

// Provide stores val under k, replacing any previous value.
func Provide[T any](c *Context, k Key[T], val T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[k.name] = val
}

// Lookup returns the value stored under k.
func Lookup[T any](c *Context, k Key[T]) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	val, ok := c.values[k.name].(T)
	return val, ok
}

// MustLookup returns the value stored under k or panics.
func MustLookup[T any](c *Context, k Key[T]) T {
	val, ok := Lookup(c, k)
	if !ok {
		panic("appctx: no value for key " + k.name)
	}
	return val
}

type contextKey struct{}

// WithContext returns a copy of ctx carrying c.
func WithContext(ctx context.Context, c *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the Context carried by ctx.
func FromContext(ctx context.Context) (*Context, bool) {
	c, ok := ctx.Value(contextKey{}).(*Context)
	return c, ok
}
