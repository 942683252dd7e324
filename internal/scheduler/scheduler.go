package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"MarketCross/internal/config"
	"MarketCross/internal/model"
	"MarketCross/internal/notifier"
)

// Analyzer runs one analysis pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error)
}

// Sender delivers a chat message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the watchlist on cron and answers chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Analyzer Analyzer
	Notifier Sender
	Config   *config.Config
	Logger   zerolog.Logger
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, analyzer Analyzer, sender Sender, cfg *config.Config, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Analyzer: analyzer,
		Notifier: sender,
		Config:   cfg,
		Logger:   logger,
		Ctx:      ctx,
	}
}

// RegisterAll registers one cron job per watchlist entry. Each job runs its
// own pipeline, so a failing entry never affects the others.
func (s *Scheduler) RegisterAll() error {
	for i, w := range s.Config.Watch {
		entry := w
		if _, err := s.Cron.AddFunc(entry.Cron, func() { s.runEntry(entry) }); err != nil {
			return fmt.Errorf("register watch[%d] %s: %w", i, entry.Symbol, err)
		}
		s.Logger.Info().Str("symbol", entry.Symbol).Str("cron", entry.Cron).Msg("watch entry registered")
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info().Int("entries", len(s.Config.Watch)).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info().Msg("scheduler stopped")
}

// RunNow executes every watchlist entry once (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	for _, w := range s.Config.Watch {
		s.runEntry(w)
	}
}

func watchRequest(w config.WatchEntry) model.AnalysisRequest {
	return model.AnalysisRequest{
		Symbol:      w.Symbol,
		ShortPeriod: w.ShortPeriod,
		LongPeriod:  w.LongPeriod,
		WindowDays:  w.WindowDays,
		Provider:    w.Provider,
	}
}

// runEntry analyzes one entry and alerts when the newest point is a crossover.
// It reports whether an alert was sent.
func (s *Scheduler) runEntry(w config.WatchEntry) bool {
	req := watchRequest(w)
	res, err := s.Analyzer.Analyze(s.Ctx, req)
	if err != nil {
		s.Logger.Error().Err(err).Str("symbol", w.Symbol).Msg("watch analysis failed")
		s.trySend(notifier.FormatError(w.Symbol, err))
		return false
	}

	event, ok := res.LastEvent()
	if !ok || len(res.Series) == 0 {
		return false
	}
	last := res.Series[len(res.Series)-1]
	if event.Date != last.Date {
		return false
	}
	s.Logger.Info().Str("symbol", w.Symbol).Str("kind", string(event.Kind)).Str("date", event.Date.String()).Msg("crossover detected")
	s.trySend(notifier.FormatCrossoverAlert(req, event, last))
	return true
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	switch fields[0] {
	case "/analyze":
		req, err := s.parseAnalyze(fields[1:])
		if err != nil {
			return err.Error()
		}
		res, err := s.Analyzer.Analyze(ctx, req)
		if err != nil {
			return notifier.FormatError(req.Symbol, err)
		}
		return notifier.FormatAnalysisSummary(req, res)
	case "/watchlist":
		return notifier.FormatWatchlist(s.Config.Watch)
	case "/indices":
		return notifier.FormatIndices(s.Config.Indices)
	default:
		return helpText
	}
}

const helpText = "Commands:\n• /analyze SYMBOL [short long days]\n• /watchlist\n• /indices"

// parseAnalyze reads "SYMBOL [short long days]", falling back to configured defaults.
func (s *Scheduler) parseAnalyze(args []string) (model.AnalysisRequest, error) {
	d := s.Config.Defaults
	req := model.AnalysisRequest{
		Symbol:      d.Symbol,
		ShortPeriod: d.ShortPeriod,
		LongPeriod:  d.LongPeriod,
		WindowDays:  d.WindowDays,
		Provider:    d.Provider,
	}
	if len(args) > 0 {
		req.Symbol = args[0]
	}
	targets := []*int{&req.ShortPeriod, &req.LongPeriod, &req.WindowDays}
	for i, a := range args[1:] {
		if i >= len(targets) {
			break
		}
		n, err := strconv.Atoi(a)
		if err != nil {
			return req, fmt.Errorf("not a number: %q\n\n%s", a, helpText)
		}
		*targets[i] = n
	}
	return req, nil
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Logger.Error().Err(err).Msg("send notification")
	}
}
