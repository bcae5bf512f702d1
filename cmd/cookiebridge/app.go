package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/bluescreen10/cookiebridge"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

//go:embed templates
var templatesFS embed.FS

type App struct {
	config   *Config
	bridge   *cookiebridge.Bridge
	renderer *cookiebridge.Renderer
	log      *logrus.Logger
}

type setCookieRequest struct {
	Name     string `json:"name" form:"name,required"`
	Value    string `json:"value" form:"value"`
	MaxAge   int    `json:"maxAge" form:"maxAge"`
	HttpOnly bool   `json:"httpOnly" form:"httpOnly"`
}

func newApp(cfg *Config, log *logrus.Logger) (*App, error) {
	defaults, err := cfg.cookieDefaults()
	if err != nil {
		return nil, err
	}

	templates, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, err
	}

	renderer := cookiebridge.NewRenderer(templates, ".html")
	renderer.SetLogger(log)

	return &App{
		config: cfg,
		bridge: cookiebridge.New(
			cookiebridge.WithDefaults(defaults),
			cookiebridge.WithLogger(log),
		),
		renderer: renderer,
		log:      log,
	}, nil
}

func (a *App) indexPage(ctx *cookiebridge.PageContext) (cookiebridge.Vals, error) {
	visitor, ok := ctx.Cookies.Lookup(a.config.VisitorCookieName)
	if !ok {
		visitor = uuid.NewString()
		err := ctx.Writer.SetCookie(a.config.VisitorCookieName, visitor, cookiebridge.Options{
			MaxAge:   int(a.config.VisitorTTL.Seconds()),
			HttpOnly: true,
		})
		if err != nil {
			return nil, err
		}
	}

	return cookiebridge.Vals{
		"Visitor":    visitor,
		"NewVisitor": !ok,
	}, nil
}

func (a *App) listCookies(w cookiebridge.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cookiebridge.FromRequest(r).GetAll())
}

func (a *App) setCookie(w cookiebridge.ResponseWriter, r *http.Request) {
	var req setCookieRequest
	if err := cookiebridge.ParseBody(r, &req); err != nil {
		http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}

	err := w.SetCookie(req.Name, req.Value, cookiebridge.Options{
		MaxAge:   req.MaxAge,
		HttpOnly: req.HttpOnly,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// browsers posting the index form go back to the page
	if isForm(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func isForm(r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

func (a *App) clearCookie(w cookiebridge.ResponseWriter, r *http.Request) {
	if err := w.ClearCookie(r.PathValue("name"), cookiebridge.Options{}); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *App) routes() http.Handler {
	mux := cookiebridge.NewServeMux()
	mux.Use(cookiebridge.Logger(a.log))
	mux.Use(a.bridge)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})

	mux.HandlePage("GET /{$}", a.renderer, "index", a.indexPage)

	api := mux.Group("/api")
	api.HandleAPI("GET /cookies", a.listCookies)
	api.HandleAPI("POST /cookies", a.setCookie)
	api.HandleAPI("DELETE /cookies/{name}", a.clearCookie)

	return mux
}

func (a *App) Start() error {
	s := &http.Server{
		Addr:         a.config.ListenAddr,
		Handler:      a.routes(),
		ReadTimeout:  a.config.HTTPReadTimeout,
		WriteTimeout: a.config.HTTPWriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			a.log.WithError(err).Error("shutdown failed")
		}
	}()

	a.log.Infof("Listening on %s", a.config.ListenAddr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
