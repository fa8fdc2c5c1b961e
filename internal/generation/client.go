package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client sends a system and user message pair to a chat model and returns
// the text of the first choice.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAI implements Client with OpenAI-compatible chat completions.
// Transient failures (rate limits, 5xx, transport errors) are retried.
type OpenAI struct {
	client   openai.Client
	model    string
	attempts uint
	delay    time.Duration
	logger   *slog.Logger
}

// NewOpenAI creates an OpenAI client from the provider configuration.
// Returns ErrProviderUnavailable when no token is configured.
func NewOpenAI(cfg *Config, logger *slog.Logger) (*OpenAI, error) {
	if !cfg.Enabled() {
		return nil, ErrProviderUnavailable
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.Token),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if d := cfg.TimeoutDuration(); d > 0 {
		opts = append(opts, option.WithRequestTimeout(d))
	}

	return &OpenAI{
		client:   openai.NewClient(opts...),
		model:    cfg.Model,
		attempts: uint(cfg.Attempts),
		delay:    cfg.RetryDelayDuration(),
		logger:   logger.With("system", "provider"),
	}, nil
}

func (o *OpenAI) Complete(ctx context.Context, system, user string) (string, error) {
	var content string

	err := retry.Do(
		func() error {
			resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
				Model: openai.ChatModel(o.model),
				Messages: []openai.ChatCompletionMessageParamUnion{
					openai.SystemMessage(system),
					openai.UserMessage(user),
				},
			})
			if err != nil {
				return err
			}
			if len(resp.Choices) == 0 {
				return retry.Unrecoverable(ErrEmptyResponse)
			}
			content = resp.Choices[0].Message.Content
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(o.attempts),
		retry.Delay(o.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			o.logger.Warn("completion attempt failed", "attempt", n+1, "model", o.model, "error", err)
		}),
	)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	return content, nil
}

func retryable(err error) bool {
	if !retry.IsRecoverable(err) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}

	return true
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, system, user string) (string, error)

func (f ClientFunc) Complete(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}
