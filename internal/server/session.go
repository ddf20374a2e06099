package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/flxrouter/pkg/render"
	"github.com/vango-dev/flxrouter/pkg/route"
	"github.com/vango-dev/flxrouter/pkg/router"
	"github.com/vango-dev/flxrouter/pkg/view"
)

const (
	writeTimeout      = 10 * time.Second
	readTimeout       = 60 * time.Second
	heartbeatInterval = 30 * time.Second
	dispatchQueueSize = 64
	sendQueueSize     = 64
)

// Session is one WebSocket connection with its own router and root view.
//
// It is the router's History: pushed states become pushState messages and
// pop messages from the client are fed to the OnPop listeners. It is also
// the view host, so every update renders on the session loop.
type Session struct {
	ID       string
	ClientID string

	conn     *websocket.Conn
	logger   *slog.Logger
	renderer *render.Renderer

	router *router.Router
	view   *view.RouterView

	pops    map[int]func(*router.State)
	nextPop int

	dispatchCh chan func()
	renderCh   chan struct{}
	sendCh     chan Message
	done       chan struct{}
	closed     atomic.Bool
	closeOnce  sync.Once
}

func newSession(id, clientID string, conn *websocket.Conn, renderer *render.Renderer, logger *slog.Logger) *Session {
	return &Session{
		ID:         id,
		ClientID:   clientID,
		conn:       conn,
		logger:     logger.With("session", id),
		renderer:   renderer,
		pops:       make(map[int]func(*router.State)),
		dispatchCh: make(chan func(), dispatchQueueSize),
		renderCh:   make(chan struct{}, 1),
		sendCh:     make(chan Message, sendQueueSize),
		done:       make(chan struct{}),
	}
}

// PushState implements router.History.
func (s *Session) PushState(st router.State) {
	s.send(Message{Type: MsgPushState, URL: st.URL})
}

// OnPop implements router.History.
func (s *Session) OnPop(fn func(*router.State)) (cancel func()) {
	id := s.nextPop
	s.nextPop++
	s.pops[id] = fn
	return func() {
		delete(s.pops, id)
	}
}

// pop feeds st to the pop listeners. A nil st is an entry the session
// never pushed, such as the page's initial one.
func (s *Session) pop(st *router.State) {
	for _, fn := range s.pops {
		fn(st)
	}
}

// RequestUpdate implements view.Host and router.Host.
func (s *Session) RequestUpdate() {
	select {
	case s.renderCh <- struct{}{}:
	default:
	}
}

// Dispatch implements view.Host. fn runs on the session loop.
func (s *Session) Dispatch(fn func()) {
	if s.closed.Load() {
		return
	}
	select {
	case s.dispatchCh <- fn:
	case <-s.done:
	}
}

// Router returns the session's router.
func (s *Session) Router() *router.Router {
	return s.router
}

// View returns the session's root view.
func (s *Session) View() *view.RouterView {
	return s.view
}

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) send(msg Message) {
	if s.closed.Load() {
		return
	}
	select {
	case s.sendCh <- msg:
	case <-s.done:
	default:
		s.logger.Warn("send queue full, dropping message", "type", msg.Type)
	}
}

// Start runs the session loops. It returns immediately.
func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
	go s.eventLoop()
}

// Close ends the session. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)
		s.conn.Close()
	})
}

func (s *Session) readLoop() {
	defer s.Close()

	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		s.conn.SetReadDeadline(time.Now().Add(readTimeout))

		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("invalid message", "error", err)
			continue
		}
		s.handle(msg)
	}
}

// handle moves a client message onto the session loop.
func (s *Session) handle(msg Message) {
	switch msg.Type {
	case MsgPush, MsgTo:
		q := route.Named(msg.Name, msg.Parameters)
		if msg.URL != "" {
			q = route.URL(msg.URL)
		}
		push := msg.Type == MsgPush
		s.Dispatch(func() {
			if push {
				s.router.Push(q)
			} else {
				s.router.To(q)
			}
		})

	case MsgPop:
		st := msg.State
		s.Dispatch(func() { s.pop(st) })

	default:
		s.logger.Warn("unknown message type", "type", msg.Type)
	}
}

func (s *Session) writeLoop() {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-s.sendCh:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteJSON(msg); err != nil {
				s.logger.Error("write error", "error", err)
				s.Close()
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Close()
				return
			}

		case <-s.done:
			return
		}
	}
}

func (s *Session) eventLoop() {
	defer s.teardown()

	for {
		select {
		case fn := <-s.dispatchCh:
			s.execute(fn)

		case <-s.renderCh:
			s.render()

		case <-s.done:
			return
		}
	}
}

func (s *Session) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("dispatch panic", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}

// render sends the root view's HTML.
func (s *Session) render() {
	html, err := s.renderer.RenderToString(s.view.Render())
	if err != nil {
		s.logger.Error("render failed", "error", err)
		return
	}

	msg := Message{Type: MsgRender, HTML: html}
	if cur := s.router.Route(); cur != nil {
		msg.URL = cur.URL
	}
	s.send(msg)
}

func (s *Session) teardown() {
	s.view.Disconnect()
	s.router.Detach()
	s.router.Resolver().Close()
	s.logger.Debug("session closed")
}

// sessionContext is the context handed to loaders of a session's views. It
// ends with the session.
func sessionContext(s *Session) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-s.done:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
