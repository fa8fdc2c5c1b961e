package prompts_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/quill/internal/prompts"
)

func fieldNames(err error) []string {
	var verr *prompts.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	names := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		names[i] = f.Field
	}
	return names
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*prompts.State)
		fields []string
	}{
		{"valid", func(*prompts.State) {}, nil},
		{"equal word limits", func(s *prompts.State) { s.Limits.MaxWords = s.Limits.MinWords }, nil},
		{"blank task", func(s *prompts.State) { s.MainTask = "   " }, []string{"mainTask"}},
		{"min exceeds max", func(s *prompts.State) { s.Limits.MinWords = 600 }, []string{"limits.maxWords"}},
		{"negative min", func(s *prompts.State) { s.Limits.MinWords = -1 }, []string{"limits.minWords"}},
		{"negative chapters", func(s *prompts.State) { s.Limits.Chapters = -2 }, []string{"limits.chapters"}},
		{"negative uniqueness", func(s *prompts.State) { s.Limits.Uniqueness = -0.1 }, []string{"limits.uniqueness"}},
		{
			"multiple failures",
			func(s *prompts.State) {
				s.MainTask = ""
				s.Limits.Chapters = -1
			},
			[]string{"mainTask", "limits.chapters"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := storyState()
			tt.mutate(&s)

			err := prompts.Validate(s)
			if tt.fields == nil {
				if err != nil {
					t.Fatalf("Validate error = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, prompts.ErrInvalidState) {
				t.Fatalf("Validate error = %v, want ErrInvalidState", err)
			}
			if diff := cmp.Diff(tt.fields, fieldNames(err)); diff != "" {
				t.Errorf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildIgnoresValidation(t *testing.T) {
	s := storyState()
	s.MainTask = ""
	s.Limits.MinWords = 900

	out := prompts.Build(s)
	if out.Limits.MinWords != 900 || out.Task != "" {
		t.Errorf("Build altered invalid state: %+v", out)
	}
}

func TestValidateOutput(t *testing.T) {
	valid, err := json.Marshal(prompts.Build(storyState()))
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	t.Run("valid document", func(t *testing.T) {
		out, err := prompts.ValidateOutput(valid)
		if err != nil {
			t.Fatalf("ValidateOutput error: %v", err)
		}
		if diff := cmp.Diff(prompts.Build(storyState()), out); diff != "" {
			t.Errorf("decoded mismatch (-want +got):\n%s", diff)
		}
	})

	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{"task":`},
		{"missing limits", `{"task":"t","rules":[],"storyConfig":{"genre":"","plot":"","specifics":[]},"moderation":{"allowVulgar":false,"allowCussing":false}}`},
		{"wrong type", strings.Replace(string(valid), `"task":"Write a story"`, `"task":7`, 1)},
		{"unknown field", strings.Replace(string(valid), `"task":`, `"extra": 1, "task":`, 1)},
		{"negative chapters", strings.Replace(string(valid), `"maxChapters":3`, `"maxChapters":-3`, 1)},
		{"inverted limits", strings.Replace(string(valid), `"minWords":100`, `"minWords":900`, 1)},
		{"max words overflows int", strings.Replace(string(valid), `"maxWords":500`, `"maxWords":1e30`, 1)},
		{"chapters overflow int", strings.Replace(string(valid), `"maxChapters":3`, `"maxChapters":99999999999999999999`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := prompts.ValidateOutput([]byte(tt.input))
			if !errors.Is(err, prompts.ErrInvalidState) {
				t.Errorf("ValidateOutput error = %v, want ErrInvalidState", err)
			}
			if len(fieldNames(err)) == 0 {
				t.Error("expected at least one field error")
			}
			if status := prompts.MapHTTPStatus(err); status != http.StatusUnprocessableEntity {
				t.Errorf("MapHTTPStatus = %d, want 422", status)
			}
		})
	}

	t.Run("overflow names the field", func(t *testing.T) {
		_, err := prompts.ValidateOutput([]byte(strings.Replace(string(valid), `"maxWords":500`, `"maxWords":1e30`, 1)))
		if diff := cmp.Diff([]string{"limits.maxWords"}, fieldNames(err)); diff != "" {
			t.Errorf("fields mismatch (-want +got):\n%s", diff)
		}
	})
}
