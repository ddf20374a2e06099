package vdom

import "fmt"

// addChildren appends arg to children. Nil values are dropped, strings
// become text nodes and components are mounted.
func addChildren(children []*VNode, arg any) []*VNode {
	switch v := arg.(type) {
	case *VNode:
		if v != nil {
			children = append(children, v)
		}
	case []*VNode:
		for _, c := range v {
			children = addChildren(children, c)
		}
	case string:
		children = append(children, Text(v))
	case Component:
		if n := Mount(v); n != nil {
			children = append(children, n)
		}
	}
	return children
}

// Text returns an escaped text node.
func Text(content string) *VNode {
	return &VNode{Kind: KindText, Text: content}
}

// Textf is Text with fmt.Sprintf formatting.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Raw returns a node whose content is written without escaping.
func Raw(html string) *VNode {
	return &VNode{Kind: KindRaw, Text: html}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	node := &VNode{Kind: KindFragment}
	for _, c := range children {
		node.Children = addChildren(node.Children, c)
	}
	return node
}

// If returns node when condition holds.
func If(condition bool, node *VNode) *VNode {
	if !condition {
		return nil
	}
	return node
}

// Range maps items to nodes, dropping nil results.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	out := make([]*VNode, 0, len(items))
	for i, item := range items {
		if n := fn(item, i); n != nil {
			out = append(out, n)
		}
	}
	return out
}
