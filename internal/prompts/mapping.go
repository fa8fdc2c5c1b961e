package prompts

import (
	"net/url"

	"github.com/JaimeStill/quill/pkg/query"
	"github.com/JaimeStill/quill/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "prompts", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("description", "Description").
	Project("state", "State").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Expression("state", "->'story'->>'genre'", "Genre").
	Expression("state", "->>'mainTask'", "MainTask")

var defaultSort = query.SortField{
	Field: "UpdatedAt", Descending: true,
}

// Filters contains optional filtering criteria for prompt queries.
// Name uses case-insensitive contains matching; Genre matches the story genre exactly.
type Filters struct {
	Name  *string `json:"name,omitempty"`
	Genre *string `json:"genre,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Name", f.Name).
		WhereEquals("Genre", f.Genre)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}
	if g := values.Get("genre"); g != "" {
		f.Genre = &g
	}

	return f
}

func scanPrompt(s repository.Scanner) (Prompt, error) {
	var p Prompt
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.State,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
