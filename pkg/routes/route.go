package routes

import "net/http"

// Route binds one HTTP method and pattern to its handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}
