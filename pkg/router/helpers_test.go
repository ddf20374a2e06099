package router

import (
	"bytes"
	"log/slog"

	"github.com/vango-dev/flxrouter/pkg/route"
)

func testRoutes() []*route.Route {
	return []*route.Route{
		{Path: "/", Name: "home"},
		{Path: "/settings", Name: "settings"},
		{
			Path: "/users",
			Name: "users",
			Children: []*route.Route{
				{Path: ""},
				{Path: ":userId", Name: "user"},
			},
		},
		{Path: "/files/*", Name: "files"},
	}
}

func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

type recordingView struct {
	routes  []*route.Normalized
	updates int
}

func (v *recordingView) SetRoute(r *route.Normalized) { v.routes = append(v.routes, r) }
func (v *recordingView) RequestUpdate()               { v.updates++ }

type countingHost struct{ updates int }

func (h *countingHost) RequestUpdate() { h.updates++ }
