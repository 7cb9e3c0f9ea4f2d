package tutor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"classbot.app/tutor/common/logger"
	"classbot.app/tutor/internal/metrics"
	"classbot.app/tutor/internal/model"
	"classbot.app/tutor/internal/store"
)

type SkipReason string

const (
	ReasonBelowThreshold     SkipReason = "below threshold"
	ReasonNothingToSummarize SkipReason = "nothing to summarize"
)

type CompactResult struct {
	Skipped       bool
	Reason        SkipReason
	Count         int64 // live messages seen before compacting
	Summary       string
	HighWaterMark int64
	Pruned        int64
	Warning       *CompactionWarning
}

// Compactor folds all but the newest KeepRecent messages of a thread into its
// rolling summary once the thread holds Threshold live messages.
//
// The summary is written before the folded messages are deleted, so a
// concurrent reader sees either the old tail or the new summary, never a gap.
// The write is a compare-and-swap on the previous high-water mark; a losing
// compactor gets ErrCompactionConflict and mutates nothing.
type Compactor struct {
	messages  store.MessageStore
	summaries store.SummaryStore
	gateway   Gateway
	cfg       Config
}

func NewCompactor(messages store.MessageStore, summaries store.SummaryStore, gateway Gateway, cfg Config) *Compactor {
	return &Compactor{
		messages:  messages,
		summaries: summaries,
		gateway:   gateway,
		cfg:       cfg,
	}
}

func (c *Compactor) Compact(ctx context.Context, threadID int64) (CompactResult, error) {
	if threadID == 0 {
		return CompactResult{}, ErrNotFound
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		ThreadID:  logger.Ptr(threadID),
		Component: "tutor.compactor",
	})
	sc := logger.StartSpan(ctx, "tutor.compact")
	defer sc.End()
	ctx = sc.Context()

	result, err := c.compact(ctx, threadID)
	switch {
	case errors.Is(err, ErrCompactionConflict):
		metrics.Compactions.WithLabelValues("conflict").Inc()
	case err != nil:
		sc.RecordError(err)
		metrics.Compactions.WithLabelValues("error").Inc()
	case result.Skipped:
		metrics.Compactions.WithLabelValues("skipped").Inc()
	case result.Warning != nil:
		metrics.Compactions.WithLabelValues("warning").Inc()
	default:
		metrics.Compactions.WithLabelValues("compacted").Inc()
	}
	metrics.PrunedMessages.Add(float64(result.Pruned))

	return result, err
}

func (c *Compactor) compact(ctx context.Context, threadID int64) (CompactResult, error) {
	start := time.Now()

	prev, err := c.summaries.Get(ctx, threadID)
	if errors.Is(err, store.ErrNotFound) {
		prev = &model.Summary{ThreadID: threadID}
	} else if err != nil {
		return CompactResult{}, storeErr("get summary", err)
	}

	count, err := c.messages.Count(ctx, threadID)
	if err != nil {
		return CompactResult{}, storeErr("count messages", err)
	}
	if count < int64(c.cfg.Threshold) {
		slog.DebugContext(ctx, "compaction skipped",
			"reason", ReasonBelowThreshold,
			"count", count,
			"threshold", c.cfg.Threshold)
		return CompactResult{Skipped: true, Reason: ReasonBelowThreshold, Count: count}, nil
	}

	recent, err := c.messages.FetchRecent(ctx, threadID, c.cfg.KeepRecent)
	if err != nil {
		return CompactResult{}, storeErr("fetch recent messages", err)
	}
	if len(recent) < c.cfg.KeepRecent {
		return CompactResult{Skipped: true, Reason: ReasonNothingToSummarize, Count: count}, nil
	}
	cutoff := recent[len(recent)-1].Seq

	old, err := c.messages.FetchOlderThan(ctx, threadID, cutoff)
	if err != nil {
		return CompactResult{}, storeErr("fetch old messages", err)
	}
	if len(old) == 0 {
		return CompactResult{Skipped: true, Reason: ReasonNothingToSummarize, Count: count}, nil
	}

	fresh := old
	for len(fresh) > 0 && fresh[0].Seq <= prev.HighWaterMark {
		fresh = fresh[1:]
	}
	if len(fresh) == 0 {
		// Everything old is already covered by the summary; an earlier prune failed.
		return c.pruneStale(ctx, threadID, prev, count)
	}

	var transcript []Turn
	if c.cfg.CarrySummary {
		transcript = turnsFrom(fresh)
	} else {
		transcript = turnsFrom(old)
	}
	newMark := old[len(old)-1].Seq

	text, err := c.gateway.Complete(ctx, CompletionRequest{
		Purpose:       PurposeSummary,
		SystemText:    SummarizerInstruction,
		FinalUserText: c.summarizeRequest(prev.Text, transcript),
		Temperature:   c.cfg.SummaryTemperature,
	})
	if err != nil {
		return CompactResult{}, fmt.Errorf("summarize thread: %w", err)
	}

	if err := c.summaries.Upsert(ctx, threadID, text, newMark, prev.HighWaterMark); err != nil {
		if errors.Is(err, store.ErrConflict) {
			slog.WarnContext(ctx, "compaction lost summary race",
				"expected_mark", prev.HighWaterMark,
				"new_mark", newMark)
			return CompactResult{}, ErrCompactionConflict
		}
		return CompactResult{}, storeErr("upsert summary", err)
	}

	result := CompactResult{
		Count:         count,
		Summary:       text,
		HighWaterMark: newMark,
	}

	pruned, err := c.messages.DeleteUpTo(ctx, threadID, newMark)
	if err != nil {
		result.Warning = &CompactionWarning{HighWaterMark: newMark, Err: err}
		slog.WarnContext(ctx, "summary saved but pruning failed",
			"high_water_mark", newMark,
			"error", err)
	} else {
		result.Pruned = pruned
	}

	slog.InfoContext(ctx, "thread compacted",
		"count", count,
		"folded", len(transcript),
		"previous_mark", prev.HighWaterMark,
		"high_water_mark", newMark,
		"pruned", result.Pruned,
		"carry_summary", c.cfg.CarrySummary,
		"duration_ms", time.Since(start).Milliseconds())

	return result, nil
}

// pruneStale deletes messages the summary already covers. The summary itself
// is left untouched.
func (c *Compactor) pruneStale(ctx context.Context, threadID int64, prev *model.Summary, count int64) (CompactResult, error) {
	result := CompactResult{
		Skipped:       true,
		Reason:        ReasonNothingToSummarize,
		Count:         count,
		Summary:       prev.Text,
		HighWaterMark: prev.HighWaterMark,
	}

	pruned, err := c.messages.DeleteUpTo(ctx, threadID, prev.HighWaterMark)
	if err != nil {
		result.Warning = &CompactionWarning{HighWaterMark: prev.HighWaterMark, Err: err}
		slog.WarnContext(ctx, "stale message cleanup failed",
			"high_water_mark", prev.HighWaterMark,
			"error", err)
		return result, nil
	}

	result.Pruned = pruned
	slog.InfoContext(ctx, "stale messages pruned",
		"high_water_mark", prev.HighWaterMark,
		"pruned", pruned)
	return result, nil
}

func (c *Compactor) summarizeRequest(previous string, transcript []Turn) string {
	if c.cfg.CarrySummary && previous != "" {
		return summarizeRequest + previousSummaryHeader + "\n" + previous + "\n\n" + RenderTranscript(transcript)
	}
	return summarizeRequest + RenderTranscript(transcript)
}
