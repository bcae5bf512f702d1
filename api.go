package cookiebridge

import "net/http"

// APIHandlerFunc is a handler for API routes that receives a response
// writer with cookie support. The request passed to it carries the parsed
// cookies, see FromRequest.
//
// Usage:
//
//	http.Handle("/api/logout", cookiebridge.APIHandlerFunc(func(w cookiebridge.ResponseWriter, r *http.Request) {
//		w.ClearCookie("token", cookiebridge.Options{})
//		w.WriteHeader(http.StatusNoContent)
//	}))
type APIHandlerFunc func(w ResponseWriter, r *http.Request)

// ServeHTTP applies the default bridge and calls f.
func (f APIHandlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cw, cr := Apply(w, r)
	f(cw, cr)
}
