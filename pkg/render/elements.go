package render

// voidElements are elements that cannot have children and have no closing tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

func isVoidElement(tag string) bool {
	return voidElements[tag]
}

// inlineElements don't need newlines in pretty-printed output.
var inlineElements = map[string]bool{
	"a":      true,
	"b":      true,
	"br":     true,
	"code":   true,
	"em":     true,
	"i":      true,
	"label":  true,
	"small":  true,
	"span":   true,
	"strong": true,
	"title":  true,
}

func isInlineElement(tag string) bool {
	return inlineElements[tag]
}

// booleanAttrs are rendered as just the attribute name when true.
var booleanAttrs = map[string]bool{
	"async":    true,
	"checked":  true,
	"defer":    true,
	"disabled": true,
	"hidden":   true,
	"open":     true,
	"readonly": true,
	"required": true,
	"selected": true,
}

func isBooleanAttr(name string) bool {
	return booleanAttrs[name]
}
