package cookiebridge

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var (
	// ErrInvalidCookie is returned when a cookie cannot be serialized into a
	// valid Set-Cookie directive (bad name, value, path, domain or expiry).
	ErrInvalidCookie = errors.New("cookiebridge: invalid cookie")

	// ErrSameSiteNoneInsecure is returned when SameSite=None is requested
	// without the Secure attribute. Browsers reject such cookies.
	ErrSameSiteNoneInsecure = errors.New("cookiebridge: SameSite=None requires Secure")
)

// Options holds the attributes of a cookie written to a response.
//
// MaxAge follows net/http semantics: 0 means no Max-Age attribute, a
// negative value expires the cookie immediately (rendered as Max-Age=0)
// and a positive value is a lifetime in seconds.
type Options struct {
	Path        string
	Domain      string
	Expires     time.Time
	MaxAge      int
	Secure      bool
	HttpOnly    bool
	SameSite    http.SameSite
	Partitioned bool

	// Encode transforms the value before it is written. Defaults to
	// url.PathEscape, the inverse of the decoding done by ParseCookies.
	Encode func(string) string
}

// Serialize renders a single Set-Cookie directive for name and value with
// the given options.
func Serialize(name, value string, opts Options) (string, error) {
	cookie, err := newCookie(name, value, opts)
	if err != nil {
		return "", err
	}
	return cookie.String(), nil
}

func newCookie(name, value string, opts Options) (*http.Cookie, error) {
	encode := opts.Encode
	if encode == nil {
		encode = url.PathEscape
	}

	cookie := &http.Cookie{
		Name:        name,
		Value:       encode(value),
		Path:        opts.Path,
		Domain:      opts.Domain,
		Expires:     opts.Expires,
		MaxAge:      opts.MaxAge,
		Secure:      opts.Secure,
		HttpOnly:    opts.HttpOnly,
		SameSite:    opts.SameSite,
		Partitioned: opts.Partitioned,
	}

	if cookie.SameSite == http.SameSiteNoneMode && !cookie.Secure {
		return nil, fmt.Errorf("cookie %q: %w", name, ErrSameSiteNoneInsecure)
	}

	if err := cookie.Valid(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCookie, err)
	}

	return cookie, nil
}

// merge fills the zero fields of opts from defaults. Secure and HttpOnly
// can only be turned on by defaults, never off.
func (opts Options) merge(defaults Options) Options {
	if opts.Path == "" {
		opts.Path = defaults.Path
	}
	if opts.Domain == "" {
		opts.Domain = defaults.Domain
	}
	if opts.SameSite == 0 {
		opts.SameSite = defaults.SameSite
	}
	if opts.Encode == nil {
		opts.Encode = defaults.Encode
	}
	opts.Secure = opts.Secure || defaults.Secure
	opts.HttpOnly = opts.HttpOnly || defaults.HttpOnly
	opts.Partitioned = opts.Partitioned || defaults.Partitioned
	return opts
}
