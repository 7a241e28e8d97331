// Package redact strips credentials, connection details, SQL and file paths
// from strings before they are logged. Store errors frequently echo the
// DSN or the failing statement; callers pass them through Error first.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
	RedactedHostPlaceholder       = "[REDACTED_HOST]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Applied in order; later rules see the output of earlier ones.
var rules = []rule{
	{
		// scheme://user:pass@ keeps the scheme so the backend stays identifiable
		pattern:     regexp.MustCompile(`(?i)\b([a-z][a-z0-9+.\-]*://)[^\s/@]+@`),
		replacement: "${1}" + RedactedCredentialPlaceholder + "@",
	},
	{
		// key/value DSN form: password=secret
		pattern:     regexp.MustCompile(`(?i)\b(password|passwd|pwd)\s*[=:]\s*\S+`),
		replacement: "${1}=" + RedactedCredentialPlaceholder,
	},
	{
		// statements are matched case-sensitively so prose like "failed to update" survives
		pattern:     regexp.MustCompile(`\b(?:SELECT|INSERT INTO|UPDATE|DELETE FROM)\s[^;]*`),
		replacement: RedactedSQLPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}(?::\d{1,5})?\b`),
		replacement: RedactedHostPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?:/[\w.\-]+){2,}`),
		replacement: RedactedPathPlaceholder,
	},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
