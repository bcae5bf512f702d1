package main

import (
	"net/http"
	"testing"

	"github.com/urfave/cli"
)

func TestParseSameSite(t *testing.T) {
	tests := map[string]http.SameSite{
		"":       0,
		"lax":    http.SameSiteLaxMode,
		"Strict": http.SameSiteStrictMode,
		" none ": http.SameSiteNoneMode,
	}

	for in, want := range tests {
		got, err := parseSameSite(in)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("expected '%v' for '%s' got '%v'", want, in, got)
		}
	}

	if _, err := parseSameSite("sometimes"); err == nil {
		t.Fatal("expected error for invalid value")
	}
}

func TestCookieDefaults(t *testing.T) {
	cfg := testConfig()
	cfg.CookiePath = "app"
	cfg.CookieDomain = "example.com"

	opts, err := cfg.cookieDefaults()
	if err != nil {
		t.Fatal(err)
	}

	if opts.Path != "/app" || opts.Domain != "example.com" || !opts.Secure || opts.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected defaults '%+v'", opts)
	}
}

func TestCookieDefaultsNoneRequiresSecure(t *testing.T) {
	cfg := testConfig()
	cfg.SameSite = "none"
	cfg.SecureCookies = false

	if _, err := cfg.cookieDefaults(); err == nil {
		t.Fatal("expected error")
	}
}

func TestServeFlags(t *testing.T) {
	t.Setenv("COOKIE_DOMAIN", "example.org")

	cfg := &Config{}
	var ran bool

	app := cli.NewApp()
	app.Name = "cookiebridge"
	app.Flags = serveFlags(cfg)
	app.Action = func(c *cli.Context) error {
		ran = true
		return nil
	}

	if err := app.Run([]string{"cookiebridge", "--listen", ":9090", "--same-site", "strict"}); err != nil {
		t.Fatal(err)
	}

	if !ran {
		t.Fatal("expected action to run")
	}

	if cfg.ListenAddr != ":9090" || cfg.SameSite != "strict" || cfg.CookieDomain != "example.org" {
		t.Fatalf("unexpected config '%+v'", cfg)
	}

	if !cfg.SecureCookies || cfg.VisitorCookieName != "visitor_id" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults '%+v'", cfg)
	}
}
