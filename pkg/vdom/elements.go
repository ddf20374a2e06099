package vdom

// createElement builds an element from factory arguments. Attributes
// accept Attr and []Attr; everything else goes through addChildren.
func createElement(tag string, args []any) *VNode {
	node := &VNode{Kind: KindElement, Tag: tag, Props: Props{}}
	for _, arg := range args {
		switch v := arg.(type) {
		case Attr:
			node.setAttr(v)
		case []Attr:
			for _, a := range v {
				node.setAttr(a)
			}
		default:
			node.Children = addChildren(node.Children, arg)
		}
	}
	return node
}

// setAttr stores a on the element. The "key" attribute becomes the node key.
func (v *VNode) setAttr(a Attr) {
	switch {
	case a.IsEmpty():
	case a.Key == "key":
		v.Key, _ = a.Value.(string)
	default:
		v.Props[a.Key] = a.Value
	}
}

// Document structure elements

func Html(args ...any) *VNode   { return createElement("html", args) }
func Head(args ...any) *VNode   { return createElement("head", args) }
func Body(args ...any) *VNode   { return createElement("body", args) }
func Title(args ...any) *VNode  { return createElement("title", args) }
func Meta(args ...any) *VNode   { return createElement("meta", args) }
func Script(args ...any) *VNode { return createElement("script", args) }

// Content sectioning elements

func Header(args ...any) *VNode  { return createElement("header", args) }
func Footer(args ...any) *VNode  { return createElement("footer", args) }
func Main(args ...any) *VNode    { return createElement("main", args) }
func Nav(args ...any) *VNode     { return createElement("nav", args) }
func Section(args ...any) *VNode { return createElement("section", args) }
func Article(args ...any) *VNode { return createElement("article", args) }
func H1(args ...any) *VNode      { return createElement("h1", args) }
func H2(args ...any) *VNode      { return createElement("h2", args) }
func H3(args ...any) *VNode      { return createElement("h3", args) }

// Text content elements

func Div(args ...any) *VNode { return createElement("div", args) }
func P(args ...any) *VNode   { return createElement("p", args) }
func Ul(args ...any) *VNode  { return createElement("ul", args) }
func Li(args ...any) *VNode  { return createElement("li", args) }
func Dl(args ...any) *VNode  { return createElement("dl", args) }
func Dt(args ...any) *VNode  { return createElement("dt", args) }
func Dd(args ...any) *VNode  { return createElement("dd", args) }

// Inline text semantics

func A(args ...any) *VNode      { return createElement("a", args) }
func Span(args ...any) *VNode   { return createElement("span", args) }
func Strong(args ...any) *VNode { return createElement("strong", args) }
func Code(args ...any) *VNode   { return createElement("code", args) }
func Br(args ...any) *VNode     { return createElement("br", args) }

// Forms

func Label(args ...any) *VNode  { return createElement("label", args) }
func Input(args ...any) *VNode  { return createElement("input", args) }
func Button(args ...any) *VNode { return createElement("button", args) }
