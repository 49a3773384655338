// Package middleware provides an ordered HTTP middleware stack and the
// standard entries used by every module: request logging and CORS.
package middleware

import "net/http"

// System holds an ordered middleware stack.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
}

type stack struct {
	entries []func(http.Handler) http.Handler
}

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

func (s *stack) Use(fn func(http.Handler) http.Handler) {
	s.entries = append(s.entries, fn)
}

// Apply wraps the handler so the first registered middleware runs
// outermost.
func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.entries) - 1; i >= 0; i-- {
		handler = s.entries[i](handler)
	}
	return handler
}
