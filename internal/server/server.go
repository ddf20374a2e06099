package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/flxrouter/internal/config"
	"github.com/vango-dev/flxrouter/pkg/appctx"
	"github.com/vango-dev/flxrouter/pkg/render"
	"github.com/vango-dev/flxrouter/pkg/route"
	"github.com/vango-dev/flxrouter/pkg/router"
	"github.com/vango-dev/flxrouter/pkg/routestore"
	"github.com/vango-dev/flxrouter/pkg/view"
)

// ClientCookie identifies a browser across sessions. Its value scopes the
// key under which the last route is stored.
const ClientCookie = "flx_client"

// Server serves pages and navigation sessions for one route table.
type Server struct {
	config   *config.Config
	logger   *slog.Logger
	store    routestore.Store
	registry *prometheus.Registry
	metrics  *router.Metrics
	requests *httpMetrics
	tracer   trace.Tracer
	shell    Shell
	title    string
	provide  []func(*appctx.Context)
	renderer *render.Renderer
	sessions *SessionManager
	upgrader websocket.Upgrader

	mu     sync.RWMutex
	routes []*route.Route

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithStore sets the last-route store. Default: a MemoryStore.
func WithStore(st routestore.Store) Option {
	return func(s *Server) { s.store = st }
}

// WithRegistry sets the Prometheus registry served at /metrics.
// Default: a new registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// WithTracer sets the tracer for request and navigation spans.
// Default: otel.Tracer("flxrouter").
func WithTracer(t trace.Tracer) Option {
	return func(s *Server) { s.tracer = t }
}

// WithShell sets the document wrapping rendered pages.
func WithShell(shell Shell, title string) Option {
	return func(s *Server) {
		s.shell = shell
		s.title = title
	}
}

// WithProvide registers fn to populate every session's app context.
func WithProvide(fn func(*appctx.Context)) Option {
	return func(s *Server) { s.provide = append(s.provide, fn) }
}

// New creates a server for routes. The table is validated here.
func New(cfg *config.Config, routes []*route.Route, opts ...Option) (*Server, error) {
	if _, err := route.GenerateURLs(routes); err != nil {
		return nil, err
	}

	s := &Server{
		config: cfg,
		routes: routes,
		shell:  DefaultShell,
		title:  "flxrouter",
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.store == nil {
		s.store = routestore.NewMemoryStore()
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("flxrouter")
	}

	s.metrics = router.NewMetrics(router.WithRegistry(s.registry))
	s.requests = newHTTPMetrics(s.registry)
	s.sessions = newSessionManager(s.registry, s.logger)
	s.renderer = render.NewRenderer(render.RendererConfig{Pretty: cfg.Server.Pretty})
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requests.instrument)
	r.Use(tracing(s.tracer))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/ws", s.HandleWebSocket)
	r.Get("/*", s.HandlePage)
	return r
}

// Routes returns the current route table.
func (s *Server) Routes() []*route.Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.routes
}

// SetRoutes replaces the route table for new requests and every live
// session. An invalid table is rejected and nothing changes.
func (s *Server) SetRoutes(routes []*route.Route) error {
	if _, err := route.GenerateURLs(routes); err != nil {
		return err
	}

	s.mu.Lock()
	s.routes = routes
	s.mu.Unlock()

	s.sessions.Each(func(sess *Session) {
		sess.Dispatch(func() {
			if err := sess.router.SetRoutes(routes); err != nil {
				sess.logger.Error("route table rejected", "error", err)
			}
		})
	})
	return nil
}

// Sessions returns the session manager.
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// Registry returns the Prometheus registry served at /metrics.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

func (s *Server) routerConfig(location string) router.Config {
	rc := s.config.Router
	return router.Config{
		Routes:     s.Routes(),
		UseHistory: rc.UseHistory,
		UseMemory:  rc.UseMemory,
		Entry:      route.URL(rc.Entry),
		Location:   location,
	}
}

func (s *Server) storeKey(clientID string) string {
	return s.config.Store.Key + ":" + clientID
}

func clientID(r *http.Request) string {
	if c, err := r.Cookie(ClientCookie); err == nil && c.Value != "" {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	return ""
}

// HandlePage renders the page for the request path. Unknown paths are
// answered with 404 and an empty app element.
func (s *Server) HandlePage(w http.ResponseWriter, r *http.Request) {
	id := clientID(r)
	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     ClientCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   r.TLS != nil,
		})
	}

	cfg := s.routerConfig(r.URL.Path)
	cfg.Entry = route.Query{}
	cfg.UseHistory = false
	cfg.UseMemory = false

	rt, err := router.New(cfg,
		router.WithLogger(s.logger.With("request_id", middleware.GetReqID(r.Context()))),
		router.WithMetrics(s.metrics),
		router.WithTracer(s.tracer),
		router.WithContext(r.Context()),
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer rt.Resolver().Close()

	app := appctx.New(rt, appctx.WithLogger(s.logger))
	for _, fn := range s.provide {
		fn(app)
	}

	v := view.New(staticHost{},
		view.WithRouter(rt),
		view.WithLogger(s.logger),
		view.WithContext(appctx.WithContext(r.Context(), app)),
	)
	_ = v.Connect()
	defer v.Disconnect()

	status := http.StatusOK
	if rt.Route() == nil {
		status = http.StatusNotFound
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte("<!DOCTYPE html>"))
	if err := s.renderer.RenderToWriter(w, s.shell(s.title, v.Render())); err != nil {
		s.logger.Error("page render failed", "path", r.URL.Path, "error", err)
	}
}

// staticHost renders once; lazy fragments are filled in by the session.
type staticHost struct{}

func (staticHost) RequestUpdate()   {}
func (staticHost) Dispatch(func()) {}

// HandleWebSocket upgrades the request and starts a session. The query
// parameter "path" is the page's location.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	cid := clientID(r)
	if cid == "" {
		cid = uuid.NewString()
	}
	sess := newSession(uuid.NewString(), cid, conn, s.renderer, s.logger)

	location := r.URL.Query().Get("path")
	if s.config.Router.UseMemory && location == s.config.Router.Entry {
		location = ""
	}

	if err := s.startSession(sess, location); err != nil {
		s.logger.Error("session start failed", "error", err)
		conn.Close()
		return
	}
}

func (s *Server) startSession(sess *Session, location string) error {
	ctx, cancel := sessionContext(sess)

	rt, err := router.New(s.routerConfig(location),
		router.WithHistory(sess),
		router.WithStore(s.store),
		router.WithStoreKey(s.storeKey(sess.ClientID)),
		router.WithLogger(sess.logger),
		router.WithMetrics(s.metrics),
		router.WithTracer(s.tracer),
		router.WithContext(ctx),
	)
	if err != nil {
		cancel()
		return err
	}
	rt.AddHost(sess)

	app := appctx.New(rt, appctx.WithLogger(sess.logger))
	for _, fn := range s.provide {
		fn(app)
	}

	v := view.New(sess,
		view.WithRouter(rt),
		view.WithLogger(sess.logger),
		view.WithContext(appctx.WithContext(ctx, app)),
	)
	sess.router = rt
	sess.view = v
	_ = v.Connect()

	url := currentURL(rt)
	s.sessions.Add(sess)
	sess.Start()
	sess.RequestUpdate()
	sess.logger.Info("session started", "client", sess.ClientID, "url", url)
	return nil
}

func currentURL(rt *router.Router) string {
	if cur := rt.Route(); cur != nil {
		return cur.URL
	}
	return ""
}

// Run listens on the configured address until ctx is done, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes all sessions and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	timeout := s.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.sessions.Shutdown()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
