package exports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/quill/internal/prompts"
	"github.com/JaimeStill/quill/pkg/pagination"
	"github.com/JaimeStill/quill/pkg/storage"
)

// System defines the public contract for export domain operations.
type System interface {
	Handler(maxBodySize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Export], error)

	Find(ctx context.Context, id uuid.UUID) (*Export, error)
	Create(ctx context.Context, cmd CreateCommand) (*Export, error)
	// Download opens the stored blob for an export. The caller must close Body.
	Download(ctx context.Context, id uuid.UUID) (*Export, *storage.Blob, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Cleanup removes every export created before the cutoff along with its blob.
	Cleanup(ctx context.Context, before time.Time) (*CleanupResult, error)
}

// PromptSource resolves saved prompts into their output projection.
type PromptSource interface {
	Output(ctx context.Context, id uuid.UUID) (prompts.Output, error)
}
