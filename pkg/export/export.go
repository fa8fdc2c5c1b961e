// Package export turns a JSON-serializable value into the artifacts a user
// takes away from the builder: a cURL command, a saved .json file, or a
// clipboard copy. Host capabilities are injected as small ports so the same
// logic runs in the CLI, the HTTP service, and tests.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	// DefaultEndpoint is embedded in cURL templates when no endpoint is given.
	DefaultEndpoint = "https://api.example.com/generate"
	// DefaultFilename names downloads when no filename is given.
	DefaultFilename = "prompt.json"
	// ContentType is the media type of every exported document.
	ContentType = "application/json"
)

// MarshalIndent encodes v as two-space indented JSON without HTML escaping
// and without a trailing newline.
func MarshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
