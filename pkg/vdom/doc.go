// Package vdom provides the virtual node tree rendered by router views.
//
// VNode is the building block for elements, text, fragments, components
// and raw HTML. Components are anything with a Render method, which lets a
// router view embed the component bound to its route fragment without
// knowing its concrete type.
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Users")),
//	    A(Href("/users/42"), Text("Ada")),
//	)
package vdom
