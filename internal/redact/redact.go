// Package redact masks secrets in values nexus prints or logs: server
// environment variables, request headers and URLs with embedded credentials.
package redact

import (
	"net/url"
	"strings"
)

// secretKeyPatterns are substrings of key names that usually hold secrets.
// Matching is case-insensitive.
var secretKeyPatterns = []string{
	"TOKEN",
	"KEY",
	"SECRET",
	"PASSWORD",
	"AUTH",
	"CREDENTIAL",
	"PRIVATE",
	"COOKIE",
}

// tokenPrefixes identify well-known credential formats regardless of key name.
var tokenPrefixes = []string{
	"ghp_", // GitHub personal access token
	"gho_",
	"ghu_",
	"ghs_",
	"ghr_",
	"github_pat_",
	"sk-", // OpenAI/Anthropic keys
	"AKIA",
	"xoxb-", // Slack
	"xoxp-",
	"Bearer ",
}

// Map returns a copy of m with every sensitive value masked.
func Map(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = Pair(k, v)
	}
	return out
}

// Pair masks v when either the key name or the value itself looks secret.
func Pair(key, value string) string {
	if SensitiveKey(key) || HasTokenPrefix(value) {
		return Value(value)
	}
	return value
}

// Value masks s, keeping the last four characters of longer values.
func Value(s string) string {
	if len(s) <= 4 {
		return "********"
	}
	return "****" + s[len(s)-4:]
}

// URL replaces the password of a URL with embedded credentials.
// Unparseable input is returned unchanged.
func URL(raw string) string {
	if raw == "" {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.User == nil {
		return raw
	}
	password, ok := parsed.User.Password()
	if !ok || password == "" {
		return raw
	}
	parsed.User = url.UserPassword(parsed.User.Username(), Value(password))
	return parsed.String()
}

// SensitiveKey reports whether a key name suggests a secret value.
func SensitiveKey(key string) bool {
	upper := strings.ToUpper(key)
	for _, p := range secretKeyPatterns {
		if strings.Contains(upper, p) {
			return true
		}
	}
	return false
}

// HasTokenPrefix reports whether value starts with a known token prefix.
func HasTokenPrefix(value string) bool {
	for _, p := range tokenPrefixes {
		if strings.HasPrefix(value, p) {
			return true
		}
	}
	return false
}
