// Package events defines the write-only event sink the simulation reports
// through. The core only ever appends; it never reads entries back.
package events

import "log/slog"

// Tone classifies an entry for presentation.
type Tone string

const (
	TonePositive   Tone = "positive"
	ToneNegative   Tone = "negative"
	ToneInfo       Tone = "info"
	ToneEvent      Tone = "event"
	ToneMoney      Tone = "money"
	ToneReputation Tone = "reputation"
)

// Entry is one tagged log line emitted by the core.
type Entry struct {
	Week int    `json:"week"`
	Day  int    `json:"day"`
	Tone Tone   `json:"tone"`
	Text string `json:"text"`
}

// Sink receives entries. Implementations must not call back into the
// simulation.
type Sink interface {
	Emit(e Entry)
}

// Reporter is the narrow emit function handed to subsystems. The controller
// wraps a Sink with the current week/day before passing it down.
type Reporter func(tone Tone, text string)

// SlogSink forwards entries to structured logging.
type SlogSink struct {
	Logger *slog.Logger
}

func (s SlogSink) Emit(e Entry) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("sim event", "week", e.Week, "day", e.Day, "tone", string(e.Tone), "text", e.Text)
}

// Memory buffers entries in order of emission. Used by tests and the runner's
// end-of-run report.
type Memory struct {
	Entries []Entry
}

func (m *Memory) Emit(e Entry) {
	m.Entries = append(m.Entries, e)
}

// ByTone returns the buffered entries matching a tone.
func (m *Memory) ByTone(t Tone) []Entry {
	var out []Entry
	for _, e := range m.Entries {
		if e.Tone == t {
			out = append(out, e)
		}
	}
	return out
}

// Discard drops every entry.
type Discard struct{}

func (Discard) Emit(Entry) {}
