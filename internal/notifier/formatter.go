package notifier

import (
	"fmt"
	"html"
	"strings"

	"MarketCross/internal/config"
	"MarketCross/internal/model"
)

// FormatCrossoverAlert formats a freshly detected crossover.
func FormatCrossoverAlert(req model.AnalysisRequest, event model.CrossoverEvent, last model.IndicatorPoint) string {
	var b strings.Builder
	icon, label := "📈", "Golden cross (bullish)"
	if event.Kind == model.Bearish {
		icon, label = "📉", "Death cross (bearish)"
	}
	b.WriteString(fmt.Sprintf("%s <b>%s</b> | %s\n\n", icon, html.EscapeString(req.Symbol), event.Date))
	b.WriteString(fmt.Sprintf("%s: SMA%d vs SMA%d\n", label, req.ShortPeriod, req.LongPeriod))
	b.WriteString(fmt.Sprintf("Close: %.2f\n", last.Close))
	if last.HasBoth() {
		b.WriteString(fmt.Sprintf("SMA%d: %.2f | SMA%d: %.2f\n", req.ShortPeriod, *last.ShortSMA, req.LongPeriod, *last.LongSMA))
	}
	return b.String()
}

// FormatAnalysisSummary formats a result for a chat reply.
func FormatAnalysisSummary(req model.AnalysisRequest, res *model.AnalysisResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> SMA%d/SMA%d via %s\n\n",
		html.EscapeString(req.Symbol), req.ShortPeriod, req.LongPeriod, html.EscapeString(req.Provider)))

	if len(res.Series) == 0 {
		b.WriteString("No data in window\n")
		return b.String()
	}
	first, last := res.Series[0], res.Series[len(res.Series)-1]
	b.WriteString(fmt.Sprintf("Window: %s → %s (%d days)\n", first.Date, last.Date, len(res.Series)))
	b.WriteString(fmt.Sprintf("Close: %.2f\n", last.Close))
	b.WriteString(fmt.Sprintf("SMA%d: %s | SMA%d: %s\n",
		req.ShortPeriod, formatOptional(last.ShortSMA), req.LongPeriod, formatOptional(last.LongSMA)))

	if len(res.Events) == 0 {
		b.WriteString("\nNo crossovers in window")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("\nCrossovers (%d):\n", len(res.Events)))
	for _, e := range res.Events {
		b.WriteString(fmt.Sprintf("  %s %s\n", e.Date, e.Kind))
	}
	return b.String()
}

// FormatError formats a pipeline failure.
func FormatError(symbol string, err error) string {
	e := model.AsError(err)
	return fmt.Sprintf("❌ %s: %s (%s)", html.EscapeString(symbol), html.EscapeString(e.Message), e.Kind)
}

// FormatIndices lists the configured presets.
func FormatIndices(indices []config.IndexPreset) string {
	var b strings.Builder
	b.WriteString("<b>Indices</b>\n")
	for _, idx := range indices {
		b.WriteString(fmt.Sprintf("• %s: %s\n", html.EscapeString(idx.Name), html.EscapeString(idx.Symbol)))
	}
	return b.String()
}

// FormatWatchlist lists the scheduled analyses.
func FormatWatchlist(entries []config.WatchEntry) string {
	if len(entries) == 0 {
		return "Watchlist is empty"
	}
	var b strings.Builder
	b.WriteString("<b>Watchlist</b>\n")
	for _, w := range entries {
		b.WriteString(fmt.Sprintf("• %s SMA%d/SMA%d %dd via %s [%s]\n",
			html.EscapeString(w.Symbol), w.ShortPeriod, w.LongPeriod, w.WindowDays, w.Provider, w.Cron))
	}
	return b.String()
}

func formatOptional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}
