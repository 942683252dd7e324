package calculator

import (
	"sort"

	"MarketCross/internal/model"
)

// Normalize orders a raw series by date and keeps the last point seen for
// any repeated date. All history is retained for indicator warm-up.
func Normalize(raw model.RawSeries) (model.NormalizedSeries, error) {
	if len(raw) == 0 {
		return nil, model.NewError(model.KindEmptySeries, "provider returned no price points")
	}

	sorted := make([]model.PricePoint, len(raw))
	copy(sorted, raw)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	out := make(model.NormalizedSeries, 0, len(sorted))
	for _, p := range sorted {
		if n := len(out); n > 0 && out[n-1].Date == p.Date {
			out[n-1] = p // last write wins
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
