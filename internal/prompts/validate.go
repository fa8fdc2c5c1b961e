package prompts

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed output.schema.json
var outputSchema []byte

const outputSchemaURL = "output.schema.json"

var compileOutputSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(outputSchemaURL, bytes.NewReader(outputSchema)); err != nil {
		return nil, fmt.Errorf("load output schema: %w", err)
	}
	return compiler.Compile(outputSchemaURL)
})

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every field of a State or Output that failed validation.
// It matches ErrInvalidState with errors.Is.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return fmt.Sprintf("%s: %s", ErrInvalidState, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidState
}

// Details exposes the failing fields to HTTP error responses.
func (e *ValidationError) Details() any {
	return e.Fields
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Validate checks the invariants the editor is expected to uphold.
// Build does not call Validate; boundaries that accept state do.
func Validate(s State) error {
	verr := &ValidationError{}

	if strings.TrimSpace(s.MainTask) == "" {
		verr.add("mainTask", "required")
	}
	if s.Limits.MinWords < 0 {
		verr.add("limits.minWords", "must not be negative")
	}
	if s.Limits.MaxWords < s.Limits.MinWords {
		verr.add("limits.maxWords", fmt.Sprintf("must be at least minWords (%d)", s.Limits.MinWords))
	}
	if s.Limits.Chapters < 0 {
		verr.add("limits.chapters", "must not be negative")
	}
	if s.Limits.Uniqueness < 0 {
		verr.add("limits.uniqueness", "must not be negative")
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// ValidateOutput checks a JSON document against the Output schema and the
// word limit ordering, then decodes it.
func ValidateOutput(data []byte) (Output, error) {
	schema, err := compileOutputSchema()
	if err != nil {
		return Output{}, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Output{}, &ValidationError{
			Fields: []FieldError{{Field: "$", Message: err.Error()}},
		}
	}

	if err := schema.Validate(doc); err != nil {
		return Output{}, schemaError(err)
	}

	var out Output
	if err := json.Unmarshal(data, &out); err != nil {
		return Output{}, decodeError(err)
	}

	if out.Limits.MaxWords < out.Limits.MinWords {
		return Output{}, &ValidationError{
			Fields: []FieldError{{
				Field:   "limits.maxWords",
				Message: fmt.Sprintf("must be at least minWords (%d)", out.Limits.MinWords),
			}},
		}
	}

	return out, nil
}

// decodeError reports a document the schema accepted but Output cannot hold,
// such as an integer beyond the range of int.
func decodeError(err error) error {
	field := "$"
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field = typeErr.Field
	}
	return &ValidationError{
		Fields: []FieldError{{Field: field, Message: err.Error()}},
	}
}

func schemaError(err error) error {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("validate output: %w", err)
	}

	result := &ValidationError{}
	for _, leaf := range leafCauses(verr) {
		field := strings.TrimPrefix(leaf.InstanceLocation, "/")
		field = strings.ReplaceAll(field, "/", ".")
		if field == "" {
			field = "$"
		}
		result.add(field, leaf.Message)
	}
	return result
}

func leafCauses(verr *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(verr.Causes) == 0 {
		return []*jsonschema.ValidationError{verr}
	}
	var leaves []*jsonschema.ValidationError
	for _, c := range verr.Causes {
		leaves = append(leaves, leafCauses(c)...)
	}
	return leaves
}
