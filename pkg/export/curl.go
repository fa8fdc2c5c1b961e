package export

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidEndpoint indicates an endpoint that is not an http(s) URL or
// carries characters a shell would interpret.
var ErrInvalidEndpoint = errors.New("invalid curl endpoint")

const shellMeta = " \t\r\n'\"\\`$;&|<>(){}*"

// ValidateEndpoint accepts an empty endpoint (DefaultEndpoint applies) or an
// absolute http(s) URL free of shell metacharacters.
func ValidateEndpoint(endpoint string) error {
	if endpoint == "" {
		return nil
	}
	if strings.ContainsAny(endpoint, shellMeta) {
		return fmt.Errorf("%w: %q contains shell metacharacters", ErrInvalidEndpoint, endpoint)
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q must be an http(s) url", ErrInvalidEndpoint, endpoint)
	}
	return nil
}

// Curl renders a shell command that POSTs v as pretty JSON to endpoint.
// An empty endpoint falls back to DefaultEndpoint. The body between the
// single quotes after -d is the pretty JSON exactly as MarshalIndent emits it.
func Curl(v any, endpoint string) (string, error) {
	body, err := MarshalIndent(v)
	if err != nil {
		return "", err
	}
	return curlCommand(endpoint, string(body)), nil
}

// CurlShell is Curl with single quotes in the body written as '\'' so the
// command can be pasted into a POSIX shell when the text contains apostrophes.
func CurlShell(v any, endpoint string) (string, error) {
	body, err := MarshalIndent(v)
	if err != nil {
		return "", err
	}
	return curlCommand(endpoint, strings.ReplaceAll(string(body), "'", `'\''`)), nil
}

// CurlBody extracts the text between the single quotes after -d in a
// command produced by Curl. It returns an empty string when cmd has no -d segment.
func CurlBody(cmd string) string {
	_, after, ok := strings.Cut(cmd, "-d '")
	if !ok {
		return ""
	}
	return strings.TrimSuffix(after, "'")
}

func curlCommand(endpoint, body string) string {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	var b strings.Builder
	b.WriteString("curl ")
	b.WriteString(endpoint)
	b.WriteString(" \\\n")
	b.WriteString("-H \"Content-Type: application/json\" \\\n")
	b.WriteString("-H \"Authorization: Bearer YOUR_API_KEY\" \\\n")
	b.WriteString("-d '")
	b.WriteString(body)
	b.WriteString("'")
	return b.String()
}
