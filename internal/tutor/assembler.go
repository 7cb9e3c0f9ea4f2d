package tutor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"classbot.app/tutor/internal/metrics"
	"classbot.app/tutor/internal/model"
	"classbot.app/tutor/internal/store"
)

// Prompt is everything the model sees for one chat turn.
type Prompt struct {
	SystemPrompt    string
	Summary         string
	HighWaterMark   int64
	PriorTurns      []Turn // chronological
	NewTurn         string
	EstimatedTokens int
}

// Request converts the prompt into a chat completion request.
func (p *Prompt) Request(temperature float64) CompletionRequest {
	return CompletionRequest{
		Purpose:       PurposeChat,
		SystemText:    p.SystemPrompt,
		PriorTurns:    p.PriorTurns,
		FinalUserText: p.NewTurn,
		Temperature:   temperature,
	}
}

// Assembler builds prompts from the rolling summary plus the live tail.
// It only reads.
type Assembler struct {
	messages  store.MessageStore
	summaries store.SummaryStore
}

func NewAssembler(messages store.MessageStore, summaries store.SummaryStore) *Assembler {
	return &Assembler{messages: messages, summaries: summaries}
}

// Assemble returns the prompt for newUserText on threadID using at most n live messages.
// Any store failure aborts with ErrStoreUnavailable; no partial prompt is returned.
func (a *Assembler) Assemble(ctx context.Context, threadID int64, n int, newUserText string) (*Prompt, error) {
	if threadID == 0 {
		return nil, ErrNotFound
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative context limit %d", ErrValidation, n)
	}
	if strings.TrimSpace(newUserText) == "" {
		return nil, fmt.Errorf("%w: empty message", ErrValidation)
	}

	summary, err := a.loadSummary(ctx, threadID)
	if err != nil {
		return nil, err
	}

	recent, err := a.liveTail(ctx, threadID, n, summary.HighWaterMark)
	if err != nil {
		return nil, err
	}

	prompt := &Prompt{
		SystemPrompt:  systemPrompt(summary.Text),
		Summary:       summary.Text,
		HighWaterMark: summary.HighWaterMark,
		PriorTurns:    turnsFrom(recent),
		NewTurn:       newTurnPrefix + newUserText,
	}
	prompt.EstimatedTokens = EstimateTokens(prompt.SystemPrompt + "\n" + prompt.Request(0).UserPayload())
	metrics.PromptTokens.Observe(float64(prompt.EstimatedTokens))

	slog.DebugContext(ctx, "prompt assembled",
		"thread_id", threadID,
		"has_summary", summary.Text != "",
		"high_water_mark", summary.HighWaterMark,
		"prior_turns", len(prompt.PriorTurns),
		"estimated_tokens", prompt.EstimatedTokens)

	return prompt, nil
}

// Window returns the summary and the live tail Assemble would read, without
// building a prompt.
func (a *Assembler) Window(ctx context.Context, threadID int64, n int) (*model.Summary, []model.Message, error) {
	if threadID == 0 {
		return nil, nil, ErrNotFound
	}
	summary, err := a.loadSummary(ctx, threadID)
	if err != nil {
		return nil, nil, err
	}
	recent, err := a.liveTail(ctx, threadID, n, summary.HighWaterMark)
	if err != nil {
		return nil, nil, err
	}
	return summary, recent, nil
}

// loadSummary returns an empty summary with mark 0 for threads never compacted.
func (a *Assembler) loadSummary(ctx context.Context, threadID int64) (*model.Summary, error) {
	summary, err := a.summaries.Get(ctx, threadID)
	if errors.Is(err, store.ErrNotFound) {
		return &model.Summary{ThreadID: threadID}, nil
	}
	if err != nil {
		return nil, storeErr("get summary", err)
	}
	return summary, nil
}

// liveTail fetches the newest n messages and returns them oldest-first.
// Messages at or below mark are dropped; they only exist between a
// compaction's summary write and its delete.
func (a *Assembler) liveTail(ctx context.Context, threadID int64, n int, mark int64) ([]model.Message, error) {
	if n == 0 {
		return nil, nil
	}
	recent, err := a.messages.FetchRecent(ctx, threadID, n)
	if err != nil {
		return nil, storeErr("fetch recent messages", err)
	}

	slices.Reverse(recent)
	recent = slices.DeleteFunc(recent, func(m model.Message) bool {
		return m.Seq <= mark
	})
	if len(recent) > n {
		recent = recent[len(recent)-n:]
	}
	return recent, nil
}

func systemPrompt(summary string) string {
	if summary == "" {
		return TutorSystemPrompt
	}
	return TutorSystemPrompt + "\n" + summaryHeader + "\n" + summary + "\n"
}
