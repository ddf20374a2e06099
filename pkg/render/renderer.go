package render

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/flxrouter/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty indents nested block elements. Development only.
	Pretty bool

	// Indent is one indentation level in pretty mode. Default: two spaces.
	Indent string
}

// Renderer serializes VNode trees to HTML. It holds no per-render state
// and is safe for concurrent use.
type Renderer struct {
	config RendererConfig
}

// NewRenderer returns a Renderer for config.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders node to a string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var sb strings.Builder
	if err := r.RenderToWriter(&sb, node); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderToWriter streams node to w. It stops at the first write error.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	hw := &htmlWriter{w: w, pretty: r.config.Pretty, indent: r.config.Indent}
	hw.node(node, 0)
	return hw.err
}

// htmlWriter carries the first write error so the tree walk can stay flat.
type htmlWriter struct {
	w      io.Writer
	pretty bool
	indent string
	err    error
}

func (hw *htmlWriter) write(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

func (hw *htmlWriter) newline() {
	if hw.pretty {
		hw.write("\n")
	}
}

func (hw *htmlWriter) pad(depth int) {
	if hw.pretty && depth > 0 {
		hw.write(strings.Repeat(hw.indent, depth))
	}
}

func (hw *htmlWriter) node(n *vdom.VNode, depth int) {
	if n == nil || hw.err != nil {
		return
	}

	switch n.Kind {
	case vdom.KindElement:
		hw.element(n, depth)
	case vdom.KindText:
		hw.write(escapeHTML(n.Text))
	case vdom.KindRaw:
		hw.write(n.Text)
	case vdom.KindFragment:
		for _, c := range n.Children {
			hw.node(c, depth)
		}
	case vdom.KindComponent:
		if n.Comp != nil {
			hw.node(n.Comp.Render(), depth)
		}
	default:
		hw.err = fmt.Errorf("render: unknown node kind %d", n.Kind)
	}
}

func (hw *htmlWriter) element(n *vdom.VNode, depth int) {
	hw.pad(depth)
	hw.write("<" + n.Tag)
	hw.attrs(n.Props)
	hw.write(">")

	if isVoidElement(n.Tag) {
		hw.newline()
		return
	}

	block := len(n.Children) > 0 && !isInlineElement(n.Tag)
	if block {
		hw.newline()
	}
	for _, c := range n.Children {
		hw.node(c, depth+1)
	}
	if block {
		hw.pad(depth)
	}

	hw.write("</" + n.Tag + ">")
	hw.newline()
}

// attrs writes props in key order. Keys starting with "_" are internal.
func (hw *htmlWriter) attrs(props vdom.Props) {
	keys := make([]string, 0, len(props))
	for k := range props {
		if !strings.HasPrefix(k, "_") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := props[k]
		if b, ok := v.(bool); ok && isBooleanAttr(k) {
			if b {
				hw.write(" " + k)
			}
			continue
		}
		if s := attrString(v); s != "" {
			hw.write(" " + k + `="` + escapeAttr(s) + `"`)
		}
	}
}

func attrString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
