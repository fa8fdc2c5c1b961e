// Package exports persists prompt outputs as JSON files in blob storage.
// Each export is a database record pointing at a blob written through the
// export download pipeline; expired exports are removed by Cleanup.
package exports

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Export is a stored prompt output file.
type Export struct {
	ID         uuid.UUID  `json:"id"`
	PromptID   *uuid.UUID `json:"prompt_id"`
	Filename   string     `json:"filename"`
	StorageKey string     `json:"storage_key"`
	SizeBytes  int64      `json:"size_bytes"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CreateCommand carries the data needed to store a new export.
// Output, when present, is a raw output document validated before upload.
// When Output is empty the saved prompt identified by PromptID is projected instead.
type CreateCommand struct {
	PromptID *uuid.UUID      `json:"prompt_id,omitempty"`
	Filename string          `json:"filename,omitempty"`
	Output   json.RawMessage `json:"output,omitempty"`
}

// CleanupResult reports the outcome of a retention sweep.
type CleanupResult struct {
	Before     time.Time `json:"before"`
	Removed    int       `json:"removed"`
	FreedBytes int64     `json:"freed_bytes"`
	BlobErrors int       `json:"blob_errors"`
}
