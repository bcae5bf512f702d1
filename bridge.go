// Package cookiebridge attaches cookie reading and writing to net/http
// requests and responses, and hands the parsed cookies to rendering code.
//
// Incoming Cookie headers are parsed once per request and stored in the
// request context. Responses are wrapped so handlers can call SetCookie and
// ClearCookie; every call appends one Set-Cookie directive and never
// replaces directives already set by other code.
//
// Usage:
//
//	bridge := cookiebridge.New(
//		cookiebridge.WithDefaults(cookiebridge.Options{Path: "/", Secure: true}),
//	)
//
//	mux := cookiebridge.NewServeMux()
//	mux.Use(bridge)
//
//	mux.HandleAPI("/api/theme", func(w cookiebridge.ResponseWriter, r *http.Request) {
//		theme := cookiebridge.FromRequest(r).Get("theme")
//		if theme == "" {
//			w.SetCookie("theme", "dark", cookiebridge.Options{MaxAge: 3600})
//		}
//	})
//
//	http.ListenAndServe(":8080", mux)
package cookiebridge

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// Bridge installs cookie support on requests and responses.
type Bridge struct {
	defaults Options
	log      logrus.FieldLogger
}

// Option configures a Bridge created with New.
type Option func(*Bridge)

// WithDefaults sets options applied to every cookie the bridge writes.
// Path, Domain, SameSite and Encode fill empty fields; Secure, HttpOnly and
// Partitioned are switched on when set here.
func WithDefaults(defaults Options) Option {
	return Option(func(b *Bridge) {
		b.defaults = defaults
	})
}

// WithLogger sets the logger used to report rejected or late cookies.
func WithLogger(log logrus.FieldLogger) Option {
	return Option(func(b *Bridge) {
		b.log = log
	})
}

// New creates a Bridge. Without options it writes cookies exactly as given
// and logs through the logrus standard logger.
func New(opts ...Option) *Bridge {
	b := &Bridge{
		log: logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

var defaultBridge = New()

// Handler is the middleware form of Apply. The first installation on a
// response also marks it as varying on the Cookie header.
func (b *Bridge) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := findCookieWriter(w); !ok && !hasHeaderToken(w.Header(), "Vary", "Cookie") {
			w.Header().Add("Vary", "Cookie")
		}
		cw, cr := b.Apply(w, r)
		next.ServeHTTP(cw, cr)
	})
}

// Apply attaches the request cookies to r and installs a cookie writer on w.
// Both halves are no-ops when already done.
func (b *Bridge) Apply(w http.ResponseWriter, r *http.Request) (ResponseWriter, *http.Request) {
	return b.Install(w), InjectRequest(r)
}

// Install returns w extended with SetCookie and ClearCookie. If a cookie
// writer is already installed on w, or on a writer it wraps, that writer is
// reused.
func (b *Bridge) Install(w http.ResponseWriter) ResponseWriter {
	if rw, ok := w.(ResponseWriter); ok {
		return rw
	}

	if cw, ok := findCookieWriter(w); ok {
		return &delegateWriter{ResponseWriter: w, CookieWriter: cw}
	}

	return &responseWriter{
		ResponseWriter: w,
		defaults:       b.defaults,
		log:            b.log,
	}
}

// Install installs a cookie writer on w using the default bridge.
func Install(w http.ResponseWriter) ResponseWriter {
	return defaultBridge.Install(w)
}

// Apply applies the default bridge to w and r.
func Apply(w http.ResponseWriter, r *http.Request) (ResponseWriter, *http.Request) {
	return defaultBridge.Apply(w, r)
}
