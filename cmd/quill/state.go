package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/JaimeStill/quill/internal/prompts"
)

// readState decodes a state file over DefaultState, so omitted fields keep
// their defaults. JSON is accepted because it is valid YAML. Unknown keys
// are rejected to catch typos such as "maxWord".
func readState(path string, stdin io.Reader) (prompts.State, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return prompts.State{}, fmt.Errorf("open state: %w", err)
		}
		defer f.Close()
		r = f
	}

	return decodeState(r)
}

func decodeState(r io.Reader) (prompts.State, error) {
	s := prompts.DefaultState()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return prompts.State{}, fmt.Errorf("decode state: empty document")
		}
		return prompts.State{}, fmt.Errorf("decode state: %w", err)
	}

	return s, nil
}
