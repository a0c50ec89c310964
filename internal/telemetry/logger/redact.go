package logger

import (
	"log/slog"
	"net/url"
	"strings"
)

// Key fragments that mark an attribute as a credential. Plain "key" is not
// listed: hotkeys are public addresses and must stay readable.
var sensitiveKeyPatterns = []string{
	"api_key",
	"apikey",
	"password",
	"secret",
	"token",
	"credential",
	"authorization",
	"bearer",
}

const redactedValue = "***REDACTED***"

// redactSensitive masks credential attributes and user info embedded in
// URL-valued attributes.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		if strVal != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
		if strings.Contains(strVal, "://") {
			return slog.String(a.Key, RedactURL(strVal))
		}
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// RedactURL masks the password of a URL's user info and any query
// parameter whose name looks like a credential. Values that do not parse
// as URLs are returned unchanged.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	changed := false
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "xxxxx")
			changed = true
		}
	}
	q := u.Query()
	for name := range q {
		if IsSensitiveKey(name) {
			q.Set(name, "xxxxx")
			changed = true
		}
	}
	if !changed {
		return raw
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(strings.ReplaceAll(key, "-", "_"))
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
