package tutor

import "fmt"

// Config carries the tunables of the context core. It is built once from
// core/config at startup and passed to every component that needs it.
type Config struct {
	ContextLimit       int // live messages rendered verbatim into each prompt
	Threshold          int // live message count that triggers compaction
	KeepRecent         int // newest messages compaction never folds
	CarrySummary       bool
	ChatTemperature    float64
	SummaryTemperature float64
}

func DefaultConfig() Config {
	return Config{
		ContextLimit:       12,
		Threshold:          30,
		KeepRecent:         12,
		CarrySummary:       false,
		ChatTemperature:    0.2,
		SummaryTemperature: 0.2,
	}
}

func (c Config) Validate() error {
	if c.ContextLimit <= 0 {
		return fmt.Errorf("context limit must be positive, got %d", c.ContextLimit)
	}
	if c.KeepRecent <= 0 {
		return fmt.Errorf("keep-recent must be positive, got %d", c.KeepRecent)
	}
	if c.Threshold <= c.KeepRecent {
		return fmt.Errorf("threshold (%d) must exceed keep-recent (%d)", c.Threshold, c.KeepRecent)
	}
	return nil
}
