package tutor

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"classbot.app/tutor/common/llm"
	"classbot.app/tutor/internal/metrics"
)

// Purpose selects the empty-text sentinel and labels gateway metrics.
type Purpose string

const (
	PurposeChat    Purpose = "chat"
	PurposeSummary Purpose = "summary"
)

type CompletionRequest struct {
	Purpose       Purpose
	SystemText    string
	PriorTurns    []Turn
	FinalUserText string
	Temperature   float64
}

// UserPayload is the single user message sent to the model: the recent
// history block followed by the final instruction line.
func (r CompletionRequest) UserPayload() string {
	if len(r.PriorTurns) == 0 {
		return r.FinalUserText
	}
	return historyHeader + "\n" + RenderTranscript(r.PriorTurns) + "\n\n" + r.FinalUserText
}

// Gateway turns a prompt into completion text.
type Gateway interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type GatewayConfig struct {
	MaxRetries  int
	CallTimeout time.Duration
	MaxTokens   int
	BaseBackoff time.Duration
}

type llmGateway struct {
	client llm.Client
	cfg    GatewayConfig
}

func NewGateway(client llm.Client, cfg GatewayConfig) Gateway {
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &llmGateway{client: client, cfg: cfg}
}

func (g *llmGateway) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: req.SystemText},
		{Role: llm.RoleUser, Content: req.UserPayload()},
	}

	start := time.Now()
	var resp *llm.Response
	var err error
	for attempt := 0; attempt <= g.cfg.MaxRetries; attempt++ {
		resp, err = g.call(ctx, llm.Request{
			Messages:    messages,
			MaxTokens:   g.cfg.MaxTokens,
			Temperature: llm.Temp(req.Temperature),
		})
		if err == nil {
			break
		}
		if attempt == g.cfg.MaxRetries || !llm.IsRetryable(ctx, err) {
			break
		}

		backoff := g.cfg.BaseBackoff * time.Duration(1<<attempt)
		slog.WarnContext(ctx, "completion retry",
			"purpose", req.Purpose,
			"attempt", attempt+1,
			"backoff_ms", backoff.Milliseconds(),
			"error", err)

		select {
		case <-ctx.Done():
			return "", g.fail(ctx, req, start, ctx.Err())
		case <-time.After(backoff):
		}
	}

	if err != nil {
		return "", g.fail(ctx, req, start, err)
	}

	metrics.CompletionDuration.WithLabelValues(string(req.Purpose), "ok").Observe(time.Since(start).Seconds())

	if strings.TrimSpace(resp.Content) == "" {
		slog.WarnContext(ctx, "completion returned no text",
			"purpose", req.Purpose,
			"finish_reason", resp.FinishReason)
		return emptySentinel(req.Purpose), nil
	}

	return resp.Content, nil
}

func (g *llmGateway) fail(ctx context.Context, req CompletionRequest, start time.Time, err error) error {
	metrics.CompletionDuration.WithLabelValues(string(req.Purpose), "error").Observe(time.Since(start).Seconds())
	slog.ErrorContext(ctx, "completion failed",
		"purpose", req.Purpose,
		"model", g.client.Model(),
		"error", err)
	return &CompletionFailedError{Detail: err.Error(), Err: err}
}

func (g *llmGateway) call(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if g.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.CallTimeout)
		defer cancel()
	}
	return g.client.Chat(ctx, req)
}

func emptySentinel(p Purpose) string {
	if p == PurposeSummary {
		return NoSummarySentinel
	}
	return NoReplySentinel
}
