package calculator

import (
	"github.com/shopspring/decimal"

	"MarketCross/internal/model"
)

var day0 = model.NewDate(2024, 1, 1)

// seriesOf builds a normalized series of consecutive days from closes.
func seriesOf(closes ...float64) model.NormalizedSeries {
	s := make(model.NormalizedSeries, len(closes))
	for i, c := range closes {
		s[i] = model.PricePoint{Date: day0.AddDays(i), Close: decimal.NewFromFloat(c)}
	}
	return s
}
