package exports

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/quill/pkg/query"
	"github.com/JaimeStill/quill/pkg/repository"
)

const columns = "id, prompt_id, filename, storage_key, size_bytes, created_at"

var projection = query.
	NewProjectionMap("public", "exports", "e").
	Project("id", "ID").
	Project("prompt_id", "PromptID").
	Project("filename", "Filename").
	Project("storage_key", "StorageKey").
	Project("size_bytes", "SizeBytes").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for export queries.
type Filters struct {
	PromptID *uuid.UUID `json:"prompt_id,omitempty"`
	Filename *string    `json:"filename,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	var promptID any
	if f.PromptID != nil {
		promptID = *f.PromptID
	}

	return b.
		WhereEquals("PromptID", promptID).
		WhereContains("Filename", f.Filename)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// A malformed prompt_id is ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if pid := values.Get("prompt_id"); pid != "" {
		if id, err := uuid.Parse(pid); err == nil {
			f.PromptID = &id
		}
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	return f
}

func scanExport(s repository.Scanner) (Export, error) {
	var e Export
	err := s.Scan(
		&e.ID,
		&e.PromptID,
		&e.Filename,
		&e.StorageKey,
		&e.SizeBytes,
		&e.CreatedAt,
	)
	return e, err
}
