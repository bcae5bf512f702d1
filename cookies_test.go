package cookiebridge_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/bluescreen10/cookiebridge"
)

func TestCookies(t *testing.T) {
	c := cookiebridge.NewCookies("a=1; b=")

	if v := c.Get("a"); v != "1" {
		t.Fatalf("expected '1' got '%s'", v)
	}

	if v, ok := c.Lookup("b"); !ok || v != "" {
		t.Fatalf("expected empty value for 'b' got '%s' '%v'", v, ok)
	}

	if c.Has("missing") {
		t.Fatal("expected 'missing' to be absent")
	}

	if c.Len() != 2 {
		t.Fatalf("expected '2' got '%d'", c.Len())
	}

	all := c.GetAll()
	all["a"] = "changed"
	if v := c.Get("a"); v != "1" {
		t.Fatalf("expected GetAll to return a copy, got '%s'", v)
	}

	if c.String() != "a=1; b=" {
		t.Fatalf("expected raw header got '%s'", c.String())
	}
}

func TestContext(t *testing.T) {
	if _, ok := cookiebridge.FromContext(context.Background()); ok {
		t.Fatal("expected no cookies in empty context")
	}

	c := cookiebridge.NewCookies("a=1")
	ctx := cookiebridge.NewContext(context.Background(), c)

	got, ok := cookiebridge.FromContext(ctx)
	if !ok || got != c {
		t.Fatal("expected cookies from context")
	}
}

func TestInjectRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Add("Cookie", "a=1")
	r.Header.Add("Cookie", "b=2")

	r1 := cookiebridge.InjectRequest(r)
	c1 := cookiebridge.FromRequest(r1)
	if c1.Get("a") != "1" || c1.Get("b") != "2" {
		t.Fatalf("expected 'a=1 b=2' got '%v'", c1.GetAll())
	}

	r2 := cookiebridge.InjectRequest(r1)
	if r2 != r1 {
		t.Fatal("expected InjectRequest to be a no-op the second time")
	}
}

func TestFromRequestWithoutBridge(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)

	c := cookiebridge.FromRequest(r)
	if c == nil || c.Len() != 0 {
		t.Fatal("expected empty cookies")
	}

	r.Header.Set("Cookie", "a=1")
	if v := cookiebridge.FromRequest(r).Get("a"); v != "1" {
		t.Fatalf("expected '1' got '%s'", v)
	}
}
