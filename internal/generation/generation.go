// Package generation sends built prompt outputs to an LLM provider and
// parses the returned story into titled chapters.
package generation

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/JaimeStill/quill/internal/prompts"
	"github.com/JaimeStill/quill/pkg/export"
	"github.com/JaimeStill/quill/pkg/formatting"
)

// Chapter is a single generated chapter. Content is markdown; HTML is its rendering.
type Chapter struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	HTML    string `json:"html"`
	Words   int    `json:"words"`
}

// Result is a generated story.
type Result struct {
	Title    string    `json:"title"`
	Chapters []Chapter `json:"chapters"`
	Words    int       `json:"words"`
}

type response struct {
	Title    string `json:"title"`
	Chapters []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"chapters"`
}

// System defines the public contract for story generation.
type System interface {
	Handler(maxBodySize int64) *Handler
	Generate(ctx context.Context, out prompts.Output) (*Result, error)
}

type generator struct {
	client Client
	logger *slog.Logger
}

// New creates a generation system backed by client.
// A nil client yields a system whose Generate returns ErrProviderUnavailable.
func New(client Client, logger *slog.Logger) System {
	return &generator{
		client: client,
		logger: logger.With("system", "generation"),
	}
}

func (g *generator) Handler(maxBodySize int64) *Handler {
	return NewHandler(g, g.logger, maxBodySize)
}

func (g *generator) Generate(ctx context.Context, out prompts.Output) (*Result, error) {
	if g.client == nil {
		return nil, ErrProviderUnavailable
	}

	user, err := export.MarshalIndent(out)
	if err != nil {
		return nil, fmt.Errorf("encode prompt: %w", err)
	}

	content, err := g.client.Complete(ctx, Instructions(out), string(user))
	if err != nil {
		return nil, err
	}

	resp, err := formatting.Parse[response](content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	if len(resp.Chapters) == 0 {
		return nil, fmt.Errorf("%w: no chapters", ErrInvalidResponse)
	}

	if limit := out.Limits.MaxChapters; limit > 0 && len(resp.Chapters) > limit {
		return nil, fmt.Errorf("%w: got %d, limit %d", ErrTooManyChapters, len(resp.Chapters), limit)
	}

	result := &Result{
		Title:    strings.TrimSpace(resp.Title),
		Chapters: make([]Chapter, 0, len(resp.Chapters)),
	}

	for _, c := range resp.Chapters {
		html, err := render(c.Content)
		if err != nil {
			return nil, fmt.Errorf("render chapter %q: %w", c.Title, err)
		}

		words := len(strings.Fields(c.Content))
		result.Words += words
		result.Chapters = append(result.Chapters, Chapter{
			Title:   strings.TrimSpace(c.Title),
			Content: c.Content,
			HTML:    html,
			Words:   words,
		})
	}

	g.logger.Info(
		"story generated",
		"title", result.Title,
		"chapters", len(result.Chapters),
		"words", result.Words,
	)

	return result, nil
}

func render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
