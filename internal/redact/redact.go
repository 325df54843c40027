// Package redact provides utilities for scrubbing sensitive information from
// strings before they are logged. Error messages flowing out of the storage
// layer, the auth layer or the sidecar transport can contain connection
// strings, credentials or tokens; this package keeps them out of log output.
package redact

import "regexp"

// Placeholders substituted for matched sensitive fragments.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
)

var (
	// Database connection strings with embedded credentials.
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql|db|database)://[^@\s]+@`)

	// Password and secret assignments.
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd|secret)([=:\s]['"]?)[^'"&\s]{3,}`)

	// API keys and bearer tokens.
	apiKeyRegex = regexp.MustCompile(`(?i)(api[_-]?key|token|bearer)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`)

	// JWT tokens (three base64url segments, first two starting with eyJ).
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Filesystem paths.
	unixPathRegex = regexp.MustCompile(`(/[\w.-]+){2,}`)

	patternPlaceholders = []struct {
		pattern     *regexp.Regexp
		placeholder string
	}{
		// JWTs first so a "token eyJ..." fragment is tagged as a JWT rather
		// than swallowed by the generic key pattern.
		{jwtTokenRegex, "[REDACTED_JWT]"},
		{dbConnRegex, RedactedCredentialPlaceholder},
		{passwordRegex, RedactedCredentialPlaceholder},
		{apiKeyRegex, RedactedKeyPlaceholder},
		{unixPathRegex, RedactedPathPlaceholder},
	}
)

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, p := range patternPlaceholders {
		result = p.pattern.ReplaceAllString(result, p.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's message.
// Returns an empty string for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
