// Package demo is a small application showing flxrouter features: a
// layout with a navigation bar, a users section with a nested router view
// and a lazily loaded user page.
package demo
