package github

import (
	"net/url"
	"strings"
)

// ParseUsername accepts either a bare GitHub handle or a profile URL
// (https://github.com/user) and returns the handle, or "" if none can be
// extracted.
func ParseUsername(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	if !strings.Contains(trimmed, "/") && !strings.Contains(trimmed, " ") {
		return trimmed
	}

	candidate := trimmed
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return ""
	}
	if host := strings.ToLower(parsed.Hostname()); host != "" && host != "github.com" && host != "www.github.com" {
		return ""
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return ""
	}
	return segments[0]
}
