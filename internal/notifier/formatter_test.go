package notifier

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"MarketCross/internal/config"
	"MarketCross/internal/model"
)

func ptr(v float64) *float64 { return &v }

var testReq = model.AnalysisRequest{Symbol: "^GDAXI", ShortPeriod: 190, LongPeriod: 212, WindowDays: 365, Provider: "yahoo"}

func TestFormatCrossoverAlert(t *testing.T) {
	day := model.NewDate(2024, 3, 1)
	last := model.IndicatorPoint{Date: day, Close: 17735.07, ShortSMA: ptr(16500.1), LongSMA: ptr(16490.9)}

	msg := FormatCrossoverAlert(testReq, model.CrossoverEvent{Date: day, Kind: model.Bullish}, last)
	assert.Contains(t, msg, "Golden cross (bullish)")
	assert.Contains(t, msg, "2024-03-01")
	assert.Contains(t, msg, "SMA190: 16500.10 | SMA212: 16490.90")

	msg = FormatCrossoverAlert(testReq, model.CrossoverEvent{Date: day, Kind: model.Bearish}, last)
	assert.Contains(t, msg, "Death cross (bearish)")
}

func TestFormatAnalysisSummary(t *testing.T) {
	d := model.NewDate(2024, 1, 1)
	res := &model.AnalysisResult{
		Series: []model.IndicatorPoint{
			{Date: d, Close: 10, ShortSMA: ptr(9)},
			{Date: d.AddDays(1), Close: 11, ShortSMA: ptr(10.5), LongSMA: ptr(10)},
		},
		Events: []model.CrossoverEvent{{Date: d.AddDays(1), Kind: model.Bullish}},
	}
	msg := FormatAnalysisSummary(testReq, res)
	assert.Contains(t, msg, "2024-01-01 → 2024-01-02 (2 days)")
	assert.Contains(t, msg, "SMA190: 10.50 | SMA212: 10.00")
	assert.Contains(t, msg, "2024-01-02 bullish")

	res.Events = nil
	assert.Contains(t, FormatAnalysisSummary(testReq, res), "No crossovers in window")

	res.Series[1].LongSMA = nil
	assert.Contains(t, FormatAnalysisSummary(testReq, res), "SMA212: n/a")

	assert.Contains(t, FormatAnalysisSummary(testReq, &model.AnalysisResult{}), "No data in window")
}

func TestFormatError_EscapesAndKeepsKind(t *testing.T) {
	msg := FormatError("<X>", model.NewError(model.KindSymbol, "unknown symbol"))
	assert.Equal(t, "❌ &lt;X&gt;: unknown symbol (SymbolError)", msg)

	msg = FormatError("X", errors.New("boom"))
	assert.Contains(t, msg, "(FormatError)")
}

func TestFormatIndicesAndWatchlist(t *testing.T) {
	msg := FormatIndices([]config.IndexPreset{{Name: "S&P 500", Symbol: "SPY"}})
	assert.Contains(t, msg, "S&amp;P 500: SPY")

	assert.Equal(t, "Watchlist is empty", FormatWatchlist(nil))
	msg = FormatWatchlist([]config.WatchEntry{{Symbol: "^GDAXI", Provider: "yahoo", ShortPeriod: 190, LongPeriod: 212, WindowDays: 365, Cron: "0 30 22 * * 1-5"}})
	assert.Contains(t, msg, "^GDAXI SMA190/SMA212 365d via yahoo [0 30 22 * * 1-5]")
}
