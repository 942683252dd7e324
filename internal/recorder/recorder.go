package recorder

import (
	"time"

	"github.com/rs/zerolog"

	"MarketCross/internal/model"
)

// RunRow is a stored run log entry.
type RunRow struct {
	ID          int64
	Timestamp   time.Time
	Symbol      string
	Provider    string
	ShortPeriod int
	LongPeriod  int
	WindowDays  int
	Outcome     string // "ok" or the error kind
	Message     string
	Points      int
	Events      int
	DurationMS  int64
}

// Recorder keeps a log of analysis runs. Only run metadata is stored, never
// the computed series.
type Recorder interface {
	RecordRun(rec model.RunRecord) error
	RecentRuns(limit int) ([]RunRow, error)
	Close() error
}

// Hook adapts a Recorder to the collector run hook, logging write failures.
func Hook(rec Recorder, logger zerolog.Logger) func(model.RunRecord) {
	return func(run model.RunRecord) {
		if err := rec.RecordRun(run); err != nil {
			logger.Error().Err(err).Str("symbol", run.Symbol).Msg("record run")
		}
	}
}
