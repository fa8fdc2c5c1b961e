package exports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/quill/internal/prompts"
	"github.com/JaimeStill/quill/pkg/export"
	"github.com/JaimeStill/quill/pkg/formatting"
	"github.com/JaimeStill/quill/pkg/pagination"
	"github.com/JaimeStill/quill/pkg/query"
	"github.com/JaimeStill/quill/pkg/repository"
	"github.com/JaimeStill/quill/pkg/storage"
)

const cleanupConcurrency = 8

type repo struct {
	db         *sql.DB
	storage    storage.System
	prompts    PromptSource
	logger     *slog.Logger
	pagination pagination.Config
	export     export.Config
}

// New creates an export repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	prompts PromptSource,
	logger *slog.Logger,
	pagination pagination.Config,
	export export.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		prompts:    prompts,
		logger:     logger.With("system", "exports"),
		pagination: pagination,
		export:     export,
	}
}

func (r *repo) Handler(maxBodySize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, r.export, maxBodySize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Export], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename", "StorageKey")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	result, err := repository.QueryPage(ctx, r.db, qb, page, scanExport)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	return result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Export, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	e, err := repository.QueryOne(ctx, r.db, q, args, scanExport)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Export, error) {
	out, err := r.resolve(ctx, cmd)
	if err != nil {
		return nil, err
	}

	filename := cmd.Filename
	if filename == "" {
		filename = r.export.Filename
	}
	name, err := export.CleanFilename(filename)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	dir := storage.Key(r.export.Prefix, id.String())
	key := storage.Key(dir, name)

	size, err := export.Download(ctx, storage.Saver(r.storage, dir), out, name)
	if err != nil {
		return nil, fmt.Errorf("upload export blob: %w", err)
	}

	q := `
		INSERT INTO exports(id, prompt_id, filename, storage_key, size_bytes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + columns

	args := []any{id, cmd.PromptID, name, key, int64(size)}

	e, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Export, error) {
		return repository.QueryOne(ctx, tx, q, args, scanExport)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		if repository.IsForeignKeyViolation(err) {
			return nil, prompts.ErrNotFound
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"export created",
		"id", e.ID,
		"filename", e.Filename,
		"size", formatting.FormatBytes(e.SizeBytes, 1),
	)
	return &e, nil
}

func (r *repo) Download(ctx context.Context, id uuid.UUID) (*Export, *storage.Blob, error) {
	e, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	blob, err := r.storage.Download(ctx, e.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: blob %s missing", ErrNotFound, e.StorageKey)
		}
		return nil, nil, fmt.Errorf("download export blob: %w", err)
	}

	return e, blob, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	e, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM exports WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, e.StorageKey); delErr != nil && !errors.Is(delErr, storage.ErrNotFound) {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"key", e.StorageKey,
			"error", delErr,
		)
	}

	r.logger.Info("export deleted", "id", id)
	return nil
}

func (r *repo) Cleanup(ctx context.Context, before time.Time) (*CleanupResult, error) {
	q, args, err := query.NewBuilder(projection).
		WhereBefore("CreatedAt", before).
		BuildDelete()
	if err != nil {
		return nil, err
	}

	removed, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]Export, error) {
		return repository.QueryMany(ctx, tx, q, args, scanExport)
	})
	if err != nil {
		return nil, fmt.Errorf("delete expired exports: %w", err)
	}

	result := &CleanupResult{
		Before:  before,
		Removed: len(removed),
	}

	for _, e := range removed {
		result.FreedBytes += e.SizeBytes
	}
	result.BlobErrors = purgeBlobs(ctx, r.storage, r.logger, removed)

	r.logger.Info(
		"export cleanup complete",
		"before", before,
		"removed", result.Removed,
		"freed", formatting.FormatBytes(result.FreedBytes, 1),
		"blob_errors", result.BlobErrors,
	)

	return result, nil
}

func (r *repo) resolve(ctx context.Context, cmd CreateCommand) (prompts.Output, error) {
	if len(cmd.Output) > 0 && string(cmd.Output) != "null" {
		return prompts.ValidateOutput(cmd.Output)
	}

	if cmd.PromptID == nil {
		return prompts.Output{}, fmt.Errorf("%w: output or prompt_id required", ErrInvalidExport)
	}

	return r.prompts.Output(ctx, *cmd.PromptID)
}

// purgeBlobs deletes the blobs behind removed exports concurrently and
// returns the number of deletes that failed. Missing blobs are not failures.
func purgeBlobs(ctx context.Context, store storage.System, logger *slog.Logger, removed []Export) int {
	var failed atomic.Int32
	var g errgroup.Group
	g.SetLimit(cleanupConcurrency)

	for _, e := range removed {
		g.Go(func() error {
			err := store.Delete(ctx, e.StorageKey)
			if err == nil || errors.Is(err, storage.ErrNotFound) {
				return nil
			}
			failed.Add(1)
			logger.Warn("expired blob delete failed", "key", e.StorageKey, "error", err)
			return err
		})
	}

	g.Wait()
	return int(failed.Load())
}
