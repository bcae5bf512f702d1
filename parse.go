package cookiebridge

import (
	"net/url"
	"strings"
)

// ParseCookies parses a Cookie request header of the form
// "name=value; name2=value2" into a map of cookie names to values.
//
// Parsing is best effort: fragments without '=' or with an empty name are
// skipped, surrounding double quotes are removed from values, and values are
// URL-decoded when possible (a value that fails to decode is kept as is).
// When a name appears more than once the last value wins.
//
// An empty header yields an empty, non-nil map.
func ParseCookies(header string) map[string]string {
	cookies := make(map[string]string)

	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}

		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		cookies[name] = decodeValue(strings.TrimSpace(value))
	}

	return cookies
}

func decodeValue(value string) string {
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}

	if !strings.Contains(value, "%") {
		return value
	}

	decoded, err := url.PathUnescape(value)
	if err != nil {
		return value
	}
	return decoded
}
