package cookiebridge

import (
	"context"
	"maps"
	"net/http"
	"strings"
)

// Cookies is the read-only view of the cookies sent with a request. It is
// what handlers and templates receive from the bridge.
type Cookies struct {
	header string
	values map[string]string
}

// NewCookies parses header and returns the resulting Cookies.
func NewCookies(header string) *Cookies {
	return &Cookies{
		header: header,
		values: ParseCookies(header),
	}
}

// Get returns the value of the named cookie, or "" if it was not sent.
func (c *Cookies) Get(name string) string {
	return c.values[name]
}

// Lookup returns the value of the named cookie and whether it was sent.
func (c *Cookies) Lookup(name string) (string, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Has reports whether the named cookie was sent.
func (c *Cookies) Has(name string) bool {
	_, ok := c.values[name]
	return ok
}

// GetAll returns a copy of every cookie sent with the request.
func (c *Cookies) GetAll() map[string]string {
	return maps.Clone(c.values)
}

// Len returns the number of distinct cookie names.
func (c *Cookies) Len() int {
	return len(c.values)
}

// Header returns the raw Cookie header the values were parsed from.
func (c *Cookies) Header() string {
	return c.header
}

// String implements fmt.Stringer and returns the raw Cookie header.
func (c *Cookies) String() string {
	return c.header
}

type cookiesKey struct{}

// NewContext returns a copy of ctx carrying c.
func NewContext(ctx context.Context, c *Cookies) context.Context {
	return context.WithValue(ctx, cookiesKey{}, c)
}

// FromContext returns the Cookies stored in ctx, if any.
func FromContext(ctx context.Context) (*Cookies, bool) {
	c, ok := ctx.Value(cookiesKey{}).(*Cookies)
	return c, ok && c != nil
}

// FromRequest returns the cookies attached to r by InjectRequest. When no
// bridge has run for r the Cookie header is parsed on the spot.
func FromRequest(r *http.Request) *Cookies {
	if c, ok := FromContext(r.Context()); ok {
		return c
	}
	return NewCookies(requestHeader(r))
}

// InjectRequest attaches the parsed request cookies to the request context.
// It is a no-op when the cookies are already attached.
func InjectRequest(r *http.Request) *http.Request {
	if _, ok := FromContext(r.Context()); ok {
		return r
	}
	return r.WithContext(NewContext(r.Context(), NewCookies(requestHeader(r))))
}

// requestHeader joins every Cookie header line, HTTP/2 clients may split
// cookies across several.
func requestHeader(r *http.Request) string {
	return strings.Join(r.Header.Values("Cookie"), "; ")
}
