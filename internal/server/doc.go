// Package server serves flxrouter applications over HTTP.
//
// GET requests render the page for their path on the server. The page
// script then opens a WebSocket at /ws; each connection gets a Session
// owning its own router and root view. Sessions run a single event loop:
// navigation messages from the client, lazy-load completions and render
// requests are all handled there, so routers and views never see
// concurrent access.
//
// Wire protocol, JSON text frames:
//
//	client -> server  {"type":"push","url":"/users/42"}
//	                  {"type":"to","name":"user","parameters":{"userId":"42"}}
//	                  {"type":"pop","url":"/settings"}
//	server -> client  {"type":"render","html":"...","url":"/users/42"}
//	                  {"type":"pushState","url":"/users/42"}
//
// The server also exposes /healthz and Prometheus metrics at /metrics.
package server
