package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testConfig() *Config {
	return &Config{
		ListenAddr:        ":0",
		CookiePath:        "/",
		SecureCookies:     true,
		SameSite:          "lax",
		VisitorCookieName: "visitor_id",
		VisitorTTL:        time.Hour,
		LogLevel:          "info",
	}
}

func newTestApp(t *testing.T) http.Handler {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	app, err := newApp(testConfig(), log)
	if err != nil {
		t.Fatal(err)
	}
	return app.routes()
}

func TestIndexSetsVisitorCookie(t *testing.T) {
	h := newTestApp(t)

	r := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status '200' got '%d'", w.Code)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "visitor_id" {
		t.Fatalf("expected visitor cookie got '%v'", cookies)
	}

	c := cookies[0]
	if !c.Secure || !c.HttpOnly || c.SameSite != http.SameSiteLaxMode || c.Path != "/" || c.MaxAge != 3600 {
		t.Fatalf("unexpected cookie attributes '%s'", c.String())
	}

	if !strings.Contains(w.Body.String(), c.Value) {
		t.Fatalf("expected body to contain visitor id '%s'", c.Value)
	}
}

func TestIndexReturningVisitor(t *testing.T) {
	h := newTestApp(t)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Cookie", "visitor_id=abc; theme=dark")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if got := w.Result().Header.Values("Set-Cookie"); len(got) != 0 {
		t.Fatalf("expected no cookies got '%v'", got)
	}

	body := w.Body.String()
	if !strings.Contains(body, "Welcome back, visitor abc") || !strings.Contains(body, "<td>theme</td><td>dark</td>") {
		t.Fatalf("unexpected body '%s'", body)
	}
}

func TestListCookies(t *testing.T) {
	h := newTestApp(t)

	r := httptest.NewRequest("GET", "/api/cookies", nil)
	r.Header.Set("Cookie", "a=1; b=hello%20world")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	expected := `{"a":"1","b":"hello world"}`
	if body := strings.TrimSpace(w.Body.String()); body != expected {
		t.Fatalf("expected '%s' got '%s'", expected, body)
	}
}

func TestSetCookieEndpoint(t *testing.T) {
	h := newTestApp(t)

	r := httptest.NewRequest("POST", "/api/cookies", strings.NewReader(`{"name":"theme","value":"dark","maxAge":60}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status '204' got '%d'", w.Code)
	}

	expected := "theme=dark; Path=/; Max-Age=60; Secure; SameSite=Lax"
	if got := w.Result().Header.Values("Set-Cookie"); len(got) != 1 || got[0] != expected {
		t.Fatalf("expected '%s' got '%v'", expected, got)
	}
}

func TestSetCookieEndpointInvalid(t *testing.T) {
	h := newTestApp(t)

	for _, body := range []string{`not json`, `{"name":"bad name","value":"x"}`} {
		r := httptest.NewRequest("POST", "/api/cookies", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status '400' for '%s' got '%d'", body, w.Code)
		}
	}
}

func TestSetCookieEndpointForm(t *testing.T) {
	h := newTestApp(t)

	r := httptest.NewRequest("POST", "/api/cookies", strings.NewReader("name=theme&value=dark&maxAge=&httpOnly=on"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected status '303' got '%d'", w.Code)
	}

	if loc := w.Result().Header.Get("Location"); loc != "/" {
		t.Fatalf("expected location '/' got '%s'", loc)
	}

	expected := "theme=dark; Path=/; HttpOnly; Secure; SameSite=Lax"
	if got := w.Result().Header.Values("Set-Cookie"); len(got) != 1 || got[0] != expected {
		t.Fatalf("expected '%s' got '%v'", expected, got)
	}
}

func TestSetCookieEndpointUnsupportedBody(t *testing.T) {
	h := newTestApp(t)

	r := httptest.NewRequest("POST", "/api/cookies", strings.NewReader("theme=dark"))
	r.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status '400' got '%d'", w.Code)
	}
}

func TestClearCookieEndpoint(t *testing.T) {
	h := newTestApp(t)

	r := httptest.NewRequest("DELETE", "/api/cookies/theme", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status '204' got '%d'", w.Code)
	}

	expected := "theme=; Path=/; Expires=Thu, 01 Jan 1970 00:00:00 GMT; Max-Age=0; Secure; SameSite=Lax"
	if got := w.Result().Header.Values("Set-Cookie"); len(got) != 1 || got[0] != expected {
		t.Fatalf("expected '%s' got '%v'", expected, got)
	}
}

func TestHealthz(t *testing.T) {
	h := newTestApp(t)

	r := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Body.String() != "ok" {
		t.Fatalf("expected 'ok' got '%s'", w.Body.String())
	}
}
