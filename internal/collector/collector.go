package collector

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"MarketCross/internal/calculator"
	"MarketCross/internal/model"
	"MarketCross/internal/strategy"
)

// DefaultFetchTimeout bounds a provider fetch when the caller sets none.
const DefaultFetchTimeout = 30 * time.Second

// RunHook observes every completed run. Hooks must not block for long.
type RunHook func(model.RunRecord)

// Collector sequences fetch, normalization, indicator computation, crossover
// detection and windowing for one request at a time. It holds no state
// between requests and is safe for concurrent use once hooks are registered.
type Collector struct {
	Registry *Registry
	Timeout  time.Duration
	Logger   zerolog.Logger

	hooks []RunHook
}

// NewCollector creates a new Collector.
func NewCollector(registry *Registry, timeout time.Duration, logger zerolog.Logger) *Collector {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Collector{Registry: registry, Timeout: timeout, Logger: logger}
}

// OnRun registers a hook called after each run, successful or not.
func (c *Collector) OnRun(h RunHook) {
	c.hooks = append(c.hooks, h)
}

// Analyze runs the full pipeline. Any failure is returned as a *model.Error
// and no partial result is produced.
func (c *Collector) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error) {
	started := time.Now()
	result, err := c.analyze(ctx, req)

	rec := model.RunRecord{
		Symbol:      strings.TrimSpace(req.Symbol),
		Provider:    normalizeName(req.Provider),
		ShortPeriod: req.ShortPeriod,
		LongPeriod:  req.LongPeriod,
		WindowDays:  req.WindowDays,
		StartedAt:   started,
		Duration:    time.Since(started),
	}

	if err != nil {
		perr := model.AsError(err)
		rec.Kind, rec.Message = perr.Kind, perr.Message
		c.Logger.Warn().
			Str("symbol", rec.Symbol).
			Str("provider", rec.Provider).
			Str("kind", string(perr.Kind)).
			Dur("duration", rec.Duration).
			Msg(perr.Message)
		c.emit(rec)
		return nil, perr
	}

	rec.Points, rec.Events = len(result.Series), len(result.Events)
	c.Logger.Info().
		Str("symbol", rec.Symbol).
		Str("provider", rec.Provider).
		Int("points", rec.Points).
		Int("events", rec.Events).
		Dur("duration", rec.Duration).
		Msg("analysis complete")
	c.emit(rec)
	return result, nil
}

func (c *Collector) analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error) {
	fetcher, credential, err := c.validate(req)
	if err != nil {
		return nil, err
	}

	raw, err := c.fetch(ctx, fetcher, strings.TrimSpace(req.Symbol), credential)
	if err != nil {
		return nil, err
	}

	series, err := calculator.Normalize(raw)
	if err != nil {
		return nil, err
	}

	points := calculator.ComputeSMAs(series, req.ShortPeriod, req.LongPeriod)
	events := strategy.DetectCrossovers(points)
	window := calculator.SelectWindow(points, req.WindowDays)

	return &model.AnalysisResult{
		Series: window,
		Events: calculator.FilterEvents(events, window),
	}, nil
}

// validate checks the request shape and resolves the provider and credential.
func (c *Collector) validate(req model.AnalysisRequest) (Fetcher, string, error) {
	if strings.TrimSpace(req.Symbol) == "" {
		return nil, "", model.NewError(model.KindValidation, "symbol is required")
	}
	if req.ShortPeriod <= 0 {
		return nil, "", model.NewError(model.KindValidation, "shortPeriod must be a positive integer")
	}
	if req.LongPeriod <= 0 {
		return nil, "", model.NewError(model.KindValidation, "longPeriod must be a positive integer")
	}
	if req.WindowDays <= 0 {
		return nil, "", model.NewError(model.KindValidation, "windowDays must be a positive integer")
	}

	fetcher, defaultCredential, ok := c.Registry.Lookup(req.Provider)
	if !ok {
		return nil, "", model.NewError(model.KindValidation, "unknown provider %q (available: %s)",
			req.Provider, strings.Join(c.Registry.Names(), ", "))
	}

	credential := strings.TrimSpace(req.Credential)
	if credential == "" {
		credential = defaultCredential
	}
	if credential == "" && fetcher.RequiresCredential() {
		return nil, "", model.NewError(model.KindAuth, "no credential supplied or configured for provider %s", fetcher.Name())
	}
	return fetcher, credential, nil
}

type fetchOutcome struct {
	series model.RawSeries
	err    error
}

// fetch awaits the provider call as a single unit bounded by the timeout,
// even if the fetcher itself ignores its context.
func (c *Collector) fetch(ctx context.Context, f Fetcher, symbol, credential string) (model.RawSeries, error) {
	fctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	done := make(chan fetchOutcome, 1)
	go func() {
		series, err := f.Fetch(fctx, symbol, credential)
		done <- fetchOutcome{series: series, err: err}
	}()

	select {
	case <-fctx.Done():
		return nil, c.contextError(fctx.Err(), f.Name())
	case out := <-done:
		if out.err == nil {
			return out.series, nil
		}
		if model.KindOf(out.err) != "" {
			return nil, out.err
		}
		if fctx.Err() != nil {
			return nil, c.contextError(fctx.Err(), f.Name())
		}
		return nil, model.WrapError(model.KindTransient, out.err, "%s: fetch failed", f.Name())
	}
}

func (c *Collector) contextError(err error, provider string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return model.WrapError(model.KindTransient, err, "%s: fetch timed out after %s", provider, c.Timeout)
	}
	return model.WrapError(model.KindTransient, err, "%s: fetch cancelled", provider)
}

func (c *Collector) emit(rec model.RunRecord) {
	for _, h := range c.hooks {
		h(rec)
	}
}
