package router

import (
	"context"
	"log/slog"

	"github.com/vango-dev/flxrouter/pkg/route"
	"github.com/vango-dev/flxrouter/pkg/routestore"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "flxrouter"

// Config describes a router and the resolver behind it.
type Config struct {
	// Routes is the route tree.
	Routes []*route.Route

	// UseHistory records pushed navigations in the History and follows
	// its pop events.
	UseHistory bool

	// UseMemory persists every pushed URL in the Store and restores it
	// when the resolver is created.
	UseMemory bool

	// UseLocal makes a router's view a root view even when nested in a
	// view of another router.
	UseLocal bool

	// Entry is the query resolved at creation when no URL was restored.
	Entry route.Query

	// Location is the URL a router created by New navigates to once
	// attached, typically the request path. Empty means none.
	Location string
}

// Option configures a Resolver.
type Option func(*options)

type options struct {
	history  History
	store    routestore.Store
	storeKey string
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
	ctx      context.Context
}

func defaultOptions() options {
	return options{
		storeKey: routestore.DefaultKey,
		ctx:      context.Background(),
	}
}

// WithHistory sets the history. Default: a new MemoryHistory.
func WithHistory(h History) Option {
	return func(o *options) {
		o.history = h
	}
}

// WithStore sets the last-route store. Default: a new routestore.MemoryStore.
func WithStore(s routestore.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithStoreKey sets the key the last route is stored under.
// Default: routestore.DefaultKey.
func WithStoreKey(key string) Option {
	return func(o *options) {
		o.storeKey = key
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics records navigations in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTracer sets the tracer. Default: the global provider's "flxrouter" tracer.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// WithContext sets the parent context of spans and store calls.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		o.ctx = ctx
	}
}

func (o *options) fill() {
	if o.history == nil {
		o.history = NewMemoryHistory()
	}
	if o.store == nil {
		o.store = routestore.NewMemoryStore()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(defaultTracerName)
	}
	if o.ctx == nil {
		o.ctx = context.Background()
	}
}
