package middleware

import (
	"net/http"
	"slices"
)

// Func wraps an http.Handler with cross-cutting behavior.
type Func func(http.Handler) http.Handler

// System manages an ordered stack of HTTP middleware.
// The first Func added is the outermost wrapper.
type System interface {
	Use(mws ...Func)
	Apply(handler http.Handler) http.Handler
}

type stack []Func

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

// Use appends mws to the stack, skipping nil entries.
func (s *stack) Use(mws ...Func) {
	for _, mw := range mws {
		if mw != nil {
			*s = append(*s, mw)
		}
	}
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for _, mw := range slices.Backward(*s) {
		handler = mw(handler)
	}
	return handler
}
