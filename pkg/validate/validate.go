// Package validate holds the input rules for target URLs and short codes.
package validate

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	codeRe   = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)
	ipv4Re   = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)
	labelRe  = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)
	suffixes = []string{".ico", ".svg", ".txt", ".xml", ".js", ".css", ".png", ".jpg", ".webmanifest"}
)

// Codes that collide with platform routes or asset paths and are never
// allocated as short links.
var reservedCodes = map[string]struct{}{
	"favicon": {}, "favicon.svg": {}, "favicon.ico": {}, "vite.svg": {},
	"robots": {}, "robots.txt": {}, "sitemap": {}, "sitemap.xml": {},
	"dashboard": {}, "login": {}, "register": {}, "settings": {}, "profile": {},
	"api": {}, "assets": {}, "static": {}, "public": {}, "healthz": {},
	"admin": {}, "root": {}, "system": {}, "config": {}, "null": {}, "undefined": {},
}

// ValidCode reports whether code is an acceptable custom short code.
func ValidCode(code string) bool {
	return codeRe.MatchString(code)
}

// ReservedCode reports whether code is refused because it collides with a
// platform route or looks like a static asset.
func ReservedCode(code string) bool {
	if _, ok := reservedCodes[strings.ToLower(code)]; ok {
		return true
	}
	lower := strings.ToLower(code)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// ValidURL reports whether raw is an absolute http/https URL with a
// plausible host: an IPv4 literal, or a dotted domain whose labels are
// alphanumeric-with-hyphens and whose TLD has at least two characters.
func ValidURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	host := u.Hostname()
	if ipv4Re.MatchString(host) {
		return true
	}
	if !strings.Contains(host, ".") || strings.HasPrefix(host, ".") || strings.HasSuffix(host, ".") {
		return false
	}
	parts := strings.Split(host, ".")
	if len(parts[len(parts)-1]) < 2 {
		return false
	}
	for _, p := range parts {
		if p == "" || !labelRe.MatchString(p) {
			return false
		}
	}
	return true
}

// FormatURL trims raw and prefixes https:// when no scheme is present.
func FormatURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "https://" + raw
	}
	return raw
}
