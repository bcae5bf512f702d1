package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bluescreen10/cookiebridge"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

type Config struct {
	ListenAddr        string
	CookieDomain      string
	CookiePath        string
	SecureCookies     bool
	SameSite          string
	VisitorCookieName string
	VisitorTTL        time.Duration
	HTTPReadTimeout   time.Duration
	HTTPWriteTimeout  time.Duration
	LogLevel          string
}

func serveFlags(cfg *Config) []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:        "listen, l",
			Usage:       "address the server listens on",
			EnvVar:      "LISTEN_ADDR",
			Value:       ":8080",
			Destination: &cfg.ListenAddr,
		},
		cli.StringFlag{
			Name:        "cookie-domain",
			Usage:       "Domain attribute added to every cookie (host-only when empty)",
			EnvVar:      "COOKIE_DOMAIN",
			Destination: &cfg.CookieDomain,
		},
		cli.StringFlag{
			Name:        "cookie-path",
			Usage:       "default Path attribute of written cookies",
			EnvVar:      "COOKIE_PATH",
			Value:       "/",
			Destination: &cfg.CookiePath,
		},
		cli.BoolTFlag{
			Name:        "secure-cookies",
			Usage:       "mark every cookie Secure (default: true)",
			EnvVar:      "SECURE_COOKIES",
			Destination: &cfg.SecureCookies,
		},
		cli.StringFlag{
			Name:        "same-site",
			Usage:       "default SameSite attribute: lax, strict, none or empty",
			EnvVar:      "COOKIE_SAME_SITE",
			Value:       "lax",
			Destination: &cfg.SameSite,
		},
		cli.StringFlag{
			Name:        "visitor-cookie",
			Usage:       "name of the cookie identifying a visitor",
			EnvVar:      "VISITOR_COOKIE_NAME",
			Value:       "visitor_id",
			Destination: &cfg.VisitorCookieName,
		},
		cli.DurationFlag{
			Name:        "visitor-ttl",
			Usage:       "lifetime of the visitor cookie",
			EnvVar:      "VISITOR_TTL",
			Value:       365 * 24 * time.Hour,
			Destination: &cfg.VisitorTTL,
		},
		cli.DurationFlag{
			Name:        "read-timeout",
			EnvVar:      "HTTP_READ_TIMEOUT",
			Value:       15 * time.Second,
			Destination: &cfg.HTTPReadTimeout,
		},
		cli.DurationFlag{
			Name:        "write-timeout",
			EnvVar:      "HTTP_WRITE_TIMEOUT",
			Value:       60 * time.Second,
			Destination: &cfg.HTTPWriteTimeout,
		},
		cli.StringFlag{
			Name:        "log-level",
			EnvVar:      "LOG_LEVEL",
			Value:       "info",
			Destination: &cfg.LogLevel,
		},
	}
}

func parseSameSite(s string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return 0, nil
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("invalid same-site value %q", s)
	}
}

// cookieDefaults validates the cookie related settings and returns them as
// bridge defaults.
func (c *Config) cookieDefaults() (cookiebridge.Options, error) {
	sameSite, err := parseSameSite(c.SameSite)
	if err != nil {
		return cookiebridge.Options{}, err
	}

	if sameSite == http.SameSiteNoneMode && !c.SecureCookies {
		return cookiebridge.Options{}, errors.New("same-site none requires secure cookies")
	}

	if c.VisitorCookieName == "" {
		return cookiebridge.Options{}, errors.New("missing visitor cookie name")
	}

	path := c.CookiePath
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return cookiebridge.Options{
		Path:     path,
		Domain:   c.CookieDomain,
		Secure:   c.SecureCookies,
		SameSite: sameSite,
	}, nil
}

func (c *Config) logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetLevel(level)
	return log, nil
}
