// Package render serializes vdom trees to HTML.
//
// The renderer is used to produce the initial page for a navigation and
// the HTML fragments pushed to connected clients after every route change.
//
//	r := render.NewRenderer(render.RendererConfig{})
//	html, err := r.RenderToString(view.Render())
package render
