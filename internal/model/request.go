package model

import "time"

// AnalysisRequest is the input contract of the pipeline.
type AnalysisRequest struct {
	Symbol      string `json:"symbol"`
	ShortPeriod int    `json:"shortPeriod"`
	LongPeriod  int    `json:"longPeriod"`
	WindowDays  int    `json:"windowDays"`
	Provider    string `json:"provider"`
	Credential  string `json:"credential,omitempty"`
}

// AnalysisResult is the windowed series plus the crossovers visible in it.
type AnalysisResult struct {
	Series []IndicatorPoint `json:"series"`
	Events []CrossoverEvent `json:"events"`
}

// LastEvent returns the most recent event, if any.
func (r *AnalysisResult) LastEvent() (CrossoverEvent, bool) {
	if r == nil || len(r.Events) == 0 {
		return CrossoverEvent{}, false
	}
	return r.Events[len(r.Events)-1], true
}

// RunRecord summarizes one pipeline execution for the run log and metrics.
// Kind is empty on success.
type RunRecord struct {
	Symbol      string
	Provider    string
	ShortPeriod int
	LongPeriod  int
	WindowDays  int
	Kind        ErrorKind
	Message     string
	Points      int
	Events      int
	StartedAt   time.Time
	Duration    time.Duration
}

// Succeeded reports whether the run produced a result.
func (r RunRecord) Succeeded() bool { return r.Kind == "" }
