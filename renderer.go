package cookiebridge

import (
	"bytes"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Renderer renders HTML templates with the request cookies made available
// to them. Templates are loaded lazily from an fs.FS and cached until
// explicitly reloaded.
//
// Every template rendered through Html or Page receives two extra values:
// .Cookies, the *Cookies of the request, and .CookieHeader, the raw Cookie
// header.
//
// Usage:
//
//	//go:embed templates
//	var templatesFS embed.FS
//
//	renderer := cookiebridge.NewRenderer(templatesFS, ".html")
//
//	http.Handle("/", renderer.Page("index", func(ctx *cookiebridge.PageContext) (cookiebridge.Vals, error) {
//		return cookiebridge.Vals{"Theme": ctx.Cookies.Get("theme")}, nil
//	}))
type Renderer struct {
	dir       fs.FS
	pattern   string
	templates *template.Template
	loaded    atomic.Bool
	mu        sync.Mutex
	funcs     template.FuncMap
	log       logrus.FieldLogger
}

// NewRenderer creates a new Renderer that loads templates from the given
// filesystem matching the specified pattern (e.g., ".html", ".tmpl").
// Templates are named by their path relative to the filesystem root,
// with the pattern suffix removed.
func NewRenderer(dir fs.FS, pattern string) *Renderer {
	return &Renderer{
		dir:       dir,
		pattern:   pattern,
		templates: template.New(""),
		funcs:     template.FuncMap{},
		log:       logrus.StandardLogger(),
	}
}

// Vals is a convenience type for passing data to templates.
type Vals map[string]any

// PageContext is handed to a PageFunc before its template is rendered.
type PageContext struct {
	Request *http.Request
	Writer  ResponseWriter
	Cookies *Cookies
}

// PageFunc loads the values of a page on the server. It may read and write
// cookies through the context before anything is rendered.
type PageFunc func(ctx *PageContext) (Vals, error)

var buffers = sync.Pool{
	New: func() any {
		return &bytes.Buffer{}
	},
}

// SetLogger sets the logger used to report page failures.
func (v *Renderer) SetLogger(log logrus.FieldLogger) {
	v.log = log
}

// Funcs registers custom template functions that will be available
// in all templates. This must be called before any templates are rendered.
func (v *Renderer) Funcs(funcs template.FuncMap) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for n, f := range funcs {
		v.funcs[n] = f
	}
}

// Page returns a handler that applies the cookie bridge, runs fn and renders
// the named template with the values it returned. A nil fn renders the
// template with the cookies only.
//
// When fn fails the response is a 500 and the Set-Cookie directives fn
// appended are dropped; directives set before the page ran are kept.
func (v *Renderer) Page(name string, fn PageFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cw, cr := Apply(w, r)

		var vals Vals
		if fn != nil {
			before := len(cw.Header().Values(SetCookieHeader))

			var err error
			vals, err = fn(&PageContext{Request: cr, Writer: cw, Cookies: FromRequest(cr)})
			if err != nil {
				v.log.WithError(err).WithField("page", name).Error("page failed")
				truncateHeader(cw.Header(), SetCookieHeader, before)
				http.Error(cw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
		}

		if err := v.Html(cw, cr, name, vals); err != nil {
			v.log.WithError(err).WithField("page", name).Error("render failed")
			http.Error(cw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	})
}

// Html renders the named template with the given values plus the request
// cookies and writes the result to the HTTP response. The Content-Type is
// set to "text/html; charset=utf-8" and the status code to 200 OK. Nothing
// is written when rendering fails.
func (v *Renderer) Html(w http.ResponseWriter, r *http.Request, template string, vals Vals) error {
	buf := buffers.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		buffers.Put(buf)
	}()

	cookies := FromRequest(r)
	data := make(Vals, len(vals)+2)
	for k, val := range vals {
		data[k] = val
	}
	data["Cookies"] = cookies
	data["CookieHeader"] = cookies.Header()

	if err := v.Render(buf, template, data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(buf.Bytes())
	return err
}

// Render executes the named template with the given values and writes
// the output to w. Templates are loaded lazily on first use and cached
// for subsequent renders.
func (v *Renderer) Render(w io.Writer, template string, vals Vals) error {
	if !v.loaded.Load() {
		if err := v.load(); err != nil {
			return err
		}
	}

	return v.templates.ExecuteTemplate(w, template, vals)
}

// Reload marks all templates as stale, forcing them to be reloaded
// on the next render.
func (v *Renderer) Reload() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.templates = template.New("")
	v.loaded.Store(false)
}

func (v *Renderer) load() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.loaded.Load() {
		return nil
	}

	v.templates.Funcs(v.funcs)

	err := fs.WalkDir(v.dir, ".", func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if e.IsDir() || filepath.Ext(path) != v.pattern {
			return nil
		}

		buf, err := fs.ReadFile(v.dir, path)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(path, v.pattern)
		_, err = v.templates.New(name).Parse(string(buf))
		return err
	})

	if err != nil {
		return err
	}

	v.loaded.Store(true)
	return nil
}
