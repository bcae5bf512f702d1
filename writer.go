package cookiebridge

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// SetCookieHeader is the response header every directive is appended to.
const SetCookieHeader = "Set-Cookie"

// ErrHeaderWritten is returned when a cookie is written after the response
// header has already been sent.
var ErrHeaderWritten = errors.New("cookiebridge: response header already written")

// CookieWriter writes Set-Cookie directives to a response.
type CookieWriter interface {
	// SetCookie appends a directive storing value under name.
	SetCookie(name, value string, opts Options) error

	// ClearCookie appends a directive expiring name. Path defaults to "/".
	ClearCookie(name string, opts Options) error
}

// ResponseWriter is an http.ResponseWriter that can also write cookies.
type ResponseWriter interface {
	http.ResponseWriter
	CookieWriter
}

type responseWriter struct {
	http.ResponseWriter
	defaults    Options
	log         logrus.FieldLogger
	wroteHeader bool
}

var _ ResponseWriter = &responseWriter{}

// WriteHeader marks the header as sent for final statuses only, cookies can
// still be added after an informational 1xx response.
func (rw *responseWriter) WriteHeader(status int) {
	if status >= http.StatusOK {
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *responseWriter) Write(data []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(data)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func (rw *responseWriter) SetCookie(name, value string, opts Options) error {
	return rw.append(name, value, opts.merge(rw.defaults))
}

func (rw *responseWriter) ClearCookie(name string, opts Options) error {
	opts = opts.merge(rw.defaults)
	if opts.Path == "" {
		opts.Path = "/"
	}
	opts.MaxAge = -1
	opts.Expires = time.Unix(0, 0)
	return rw.append(name, "", opts)
}

func (rw *responseWriter) append(name, value string, opts Options) error {
	if rw.wroteHeader {
		rw.log.WithField("cookie", name).Warn("cookie written after response header")
		return ErrHeaderWritten
	}

	directive, err := Serialize(name, value, opts)
	if err != nil {
		rw.log.WithField("cookie", name).WithError(err).Warn("cookie rejected")
		return err
	}

	appendHeader(rw.Header(), SetCookieHeader, directive)
	rw.log.WithField("cookie", name).Debug("cookie appended")
	return nil
}

// appendHeader reads the full list stored under key, appends value and
// writes the list back, so entries set by other code are kept.
func appendHeader(h http.Header, key, value string) {
	existing := h.Values(key)
	values := make([]string, 0, len(existing)+1)
	values = append(values, existing...)
	values = append(values, value)
	h[http.CanonicalHeaderKey(key)] = values
}

// truncateHeader keeps the first n values stored under key.
func truncateHeader(h http.Header, key string, n int) {
	values := h.Values(key)
	if n >= len(values) {
		return
	}
	if n <= 0 {
		h.Del(key)
		return
	}
	h[http.CanonicalHeaderKey(key)] = values[:n:n]
}

// hasHeaderToken reports whether the comma separated list stored under key
// contains token, ignoring case.
func hasHeaderToken(h http.Header, key, token string) bool {
	for _, v := range h.Values(key) {
		for _, t := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(t), token) {
				return true
			}
		}
	}
	return false
}

// delegateWriter keeps an outer wrapper for body writes while cookie
// calls go to a writer installed further down the chain.
type delegateWriter struct {
	http.ResponseWriter
	CookieWriter
}

func (dw *delegateWriter) Unwrap() http.ResponseWriter {
	return dw.ResponseWriter
}

// findCookieWriter walks the Unwrap chain of w looking for an installed
// CookieWriter.
func findCookieWriter(w http.ResponseWriter) (CookieWriter, bool) {
	for w != nil {
		if cw, ok := w.(CookieWriter); ok {
			return cw, true
		}
		u, ok := w.(interface{ Unwrap() http.ResponseWriter })
		if !ok {
			return nil, false
		}
		w = u.Unwrap()
	}
	return nil, false
}
