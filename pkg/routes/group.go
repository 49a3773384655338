// Package routes declares HTTP routes as data so domain packages can
// describe their endpoints without touching the mux directly.
package routes

import "net/http"

// Group collects routes under a shared prefix. Children nest, with
// prefixes concatenated outermost first.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register wires every route in the given groups onto the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		register(mux, "", group)
	}
}

func register(mux *http.ServeMux, parent string, group Group) {
	prefix := parent + group.Prefix
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+prefix+route.Pattern, route.Handler)
	}
	for _, child := range group.Children {
		register(mux, prefix, child)
	}
}
