// Package redact masks credential material in command text before it is
// persisted. The rules target what actually leaks into shell history:
// exported variables, inline assignments, password flags, auth headers,
// credentials embedded in URLs, and well-known token literals.
package redact

import "regexp"

const placeholder = "[REDACTED]"

type rule struct {
	pattern *regexp.Regexp
	replace string
}

var rules = []rule{
	// Assignments keep the variable name so the history stays readable:
	// export AWS_SECRET_ACCESS_KEY=... -> export AWS_SECRET_ACCESS_KEY=[REDACTED]
	{
		regexp.MustCompile(`(?i)((?:export\s+)?[\w-]*(?:password|passwd|pwd|secret|token|api[_-]?key|access[_-]?key)[\w-]*)(\s*[=:]\s*)(?:"[^"]*"|'[^']*'|[^\s'"]+)`),
		"${1}${2}" + placeholder,
	},

	// Password-style flags, both --flag=value and --flag value.
	{
		regexp.MustCompile(`(?i)(--(?:password|passwd|token|secret|api-key|access-key)(?:=|\s+))(?:"[^"]*"|'[^']*'|[^\s'"]+)`),
		"${1}" + placeholder,
	},

	// curl -H "Authorization: Bearer ..." and friends.
	{
		regexp.MustCompile(`(?i)(authorization:\s*(?:bearer|basic|token)\s+)[^\s'"]+`),
		"${1}" + placeholder,
	},
	{
		regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9_.-]{20,}`),
		placeholder,
	},

	// user:password@ in URLs; the host stays visible.
	{
		regexp.MustCompile(`(https?://)[^/\s:@]+:[^/\s@]+@`),
		"${1}" + placeholder + "@",
	},

	// Token literals with unmistakable shapes.
	{regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`), placeholder},
	{regexp.MustCompile(`\bgh[opusr]_[A-Za-z0-9]{36,}\b`), placeholder},
	{regexp.MustCompile(`\bxox[baprs]-[0-9A-Za-z-]{10,}\b`), placeholder},
	{regexp.MustCompile(`\b[sr]k_live_[0-9a-zA-Z]{24,}\b`), placeholder},
	{regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----`), placeholder},
}

// Apply masks credential material in one command line. The second return
// reports whether anything was masked; reapplying to already-masked text
// is a no-op.
func Apply(command string) (string, bool) {
	out := command
	for _, r := range rules {
		out = r.pattern.ReplaceAllString(out, r.replace)
	}
	return out, out != command
}
