package app

import (
	"net/url"
	"strings"
)

// dbNameFromURL accepts both URL and key=value DSN forms.
func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		if name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/")); name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		name, ok := strings.CutPrefix(token, "dbname=")
		if !ok {
			continue
		}
		if name = strings.Trim(strings.TrimSpace(name), `"'`); name != "" {
			return name
		}
	}

	return ""
}

// redactDBURL hides the password of URL style connection strings. DSN
// strings are reduced to their host.
func redactDBURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		return parsed.Redacted()
	}

	for _, token := range strings.Fields(trimmed) {
		if host, ok := strings.CutPrefix(token, "host="); ok {
			return "host=" + host
		}
	}
	return ""
}
