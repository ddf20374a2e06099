// Package routefile loads route tables from YAML or JSON files.
//
// A route file is a list of entries:
//
//	- path: /
//	  component: home
//	- path: /users/
//	  component: layout
//	  children:
//	    - path: ""
//	      name: users
//	      component: user-list
//	    - path: :userId
//	      name: user
//	      component: user-detail
//	      lazy: true
//	- path: /about
//	  text: About this app
//
// Components are looked up by name in a Registry. Lazy entries resolve their
// component through a loader the first time a router view shows them. Text
// entries render a static paragraph.
package routefile
