package cookiebridge

import "net/http"

// Middleware defines the interface for HTTP middleware compatible with ServeMux.
type Middleware interface {
	Handler(http.Handler) http.Handler
}

// MiddlewareFunc adapts a plain func(http.Handler) http.Handler to Middleware.
type MiddlewareFunc func(http.Handler) http.Handler

// Handler calls f(next).
func (f MiddlewareFunc) Handler(next http.Handler) http.Handler {
	return f(next)
}
