// Package prompts implements the prompt builder domain for quill.
// It owns the editing State, its projection into the Output wire shape,
// validation at the boundaries, and persistence of named prompt drafts.
package prompts

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Prompt is a named, persisted prompt draft.
type Prompt struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	State       State     `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to save a new prompt draft.
type CreateCommand struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	State       State   `json:"state"`
}

// UpdateCommand carries the data needed to replace an existing prompt draft.
type UpdateCommand struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	State       State   `json:"state"`
}

// Value encodes the state as JSON for a jsonb column.
func (s State) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan decodes a jsonb column into the state.
func (s *State) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*s = State{}
		return nil
	default:
		return fmt.Errorf("scan state: unsupported type %T", src)
	}
	return json.Unmarshal(data, s)
}
