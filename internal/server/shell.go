package server

import (
	"github.com/vango-dev/flxrouter/pkg/vdom"
)

// Shell wraps the rendered root view into a full document.
type Shell func(title string, app *vdom.VNode) *vdom.VNode

// appID is the id of the element the page script re-renders into.
const appID = "app"

// DefaultShell is a bare document with the page script.
func DefaultShell(title string, app *vdom.VNode) *vdom.VNode {
	return Document(title, nil, app)
}

// Document builds a page whose app element holds app. header is rendered
// above the app element and is not replaced by session renders.
func Document(title string, header, app *vdom.VNode) *vdom.VNode {
	return vdom.Html(
		vdom.Head(
			vdom.Title(vdom.Text(title)),
		),
		vdom.Body(
			header,
			vdom.Div(vdom.ID(appID), app),
			vdom.Script(vdom.Raw(clientScript)),
		),
	)
}

// clientScript connects to /ws, turns same-origin link clicks into push
// messages and mirrors the browser history.
const clientScript = `
(function() {
  'use strict';
  var app = document.getElementById('app');
  var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
  var ws = new WebSocket(proto + '//' + location.host + '/ws?path=' + encodeURIComponent(location.pathname));

  function send(msg) {
    if (ws.readyState === WebSocket.OPEN) ws.send(JSON.stringify(msg));
  }

  ws.onmessage = function(e) {
    var msg = JSON.parse(e.data);
    if (msg.type === 'render') {
      app.innerHTML = msg.html;
      if (msg.url && msg.url !== location.pathname) history.replaceState({url: msg.url}, '', msg.url);
    } else if (msg.type === 'pushState') {
      history.pushState({url: msg.url}, '', msg.url);
    }
  };

  document.addEventListener('click', function(e) {
    var a = e.target.closest('a');
    if (!a || a.origin !== location.origin || a.hasAttribute('download')) return;
    e.preventDefault();
    send({type: 'push', url: a.pathname});
  });

  window.addEventListener('popstate', function(e) {
    send({type: 'pop', state: e.state});
  });
})();
`
