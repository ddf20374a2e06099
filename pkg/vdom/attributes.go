package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Value sets the value attribute.
func Value(v string) Attr { return attr("value", v) }

// Checked sets the checked boolean attribute.
func Checked(checked bool) Attr { return attr("checked", checked) }

// Data creates a data-* attribute.
// Example: Data("link", "true") → data-link="true"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// AriaCurrent sets the aria-current attribute.
func AriaCurrent(value string) Attr { return attr("aria-current", value) }

// Key creates a key attribute for reconciliation.
func Key(key string) Attr { return attr("key", key) }
