package strategy

import "MarketCross/internal/model"

// DetectCrossovers scans adjacent pairs for a strict change of side between
// the short and long SMA. Pairs where either SMA is absent, or where the two
// are equal on either day, produce nothing.
func DetectCrossovers(points []model.IndicatorPoint) []model.CrossoverEvent {
	events := make([]model.CrossoverEvent, 0)
	for i := 1; i < len(points); i++ {
		prev, curr := points[i-1], points[i]
		if !prev.HasBoth() || !curr.HasBoth() {
			continue
		}
		if kind, ok := classify(*prev.ShortSMA, *prev.LongSMA, *curr.ShortSMA, *curr.LongSMA); ok {
			events = append(events, model.CrossoverEvent{Date: curr.Date, Kind: kind})
		}
	}
	return events
}

func classify(prevShort, prevLong, currShort, currLong float64) (model.CrossoverKind, bool) {
	switch {
	case prevShort < prevLong && currShort > currLong:
		return model.Bullish, true
	case prevShort > prevLong && currShort < currLong:
		return model.Bearish, true
	default:
		return "", false
	}
}
