package api

import (
	"github.com/JaimeStill/quill/internal/exports"
	"github.com/JaimeStill/quill/internal/generation"
	"github.com/JaimeStill/quill/internal/prompts"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Prompts    prompts.System
	Exports    exports.System
	Generation generation.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	promptsSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
		runtime.Export,
	)

	exportsSystem := exports.New(
		runtime.Database.Connection(),
		runtime.Storage,
		promptsSystem,
		runtime.Logger,
		runtime.Pagination,
		runtime.Export,
	)

	return &Domain{
		Prompts:    promptsSystem,
		Exports:    exportsSystem,
		Generation: generation.New(runtime.Provider, runtime.Logger),
	}
}
