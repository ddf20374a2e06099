package server

import "github.com/vango-dev/flxrouter/pkg/router"

// Message types.
const (
	MsgPush      = "push"
	MsgTo        = "to"
	MsgPop       = "pop"
	MsgRender    = "render"
	MsgPushState = "pushState"
)

// Message is a frame exchanged with the page script.
type Message struct {
	Type       string            `json:"type"`
	URL        string            `json:"url,omitempty"`
	Name       string            `json:"name,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty"`
	HTML       string            `json:"html,omitempty"`

	// State is the history entry state of a pop, null for entries the
	// session never pushed.
	State *router.State `json:"state,omitempty"`
}
