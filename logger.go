package cookiebridge

import (
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(data []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(data)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Logger returns a middleware that logs one entry per request with the
// method, path, status, latency, client ip and the number of Set-Cookie
// directives on the response. Cookie values are never logged.
func Logger(log logrus.FieldLogger) Middleware {
	return MiddlewareFunc(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)

			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}

			ip, _, _ := net.SplitHostPort(r.RemoteAddr)

			log.WithFields(logrus.Fields{
				"status":      status,
				"latency":     time.Since(start).String(),
				"ip":          ip,
				"method":      r.Method,
				"path":        r.URL.Path,
				"set_cookies": len(w.Header().Values(SetCookieHeader)),
			}).Info("request")
		})
	})
}
