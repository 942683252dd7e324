package calculator

import (
	"github.com/shopspring/decimal"

	"MarketCross/internal/model"
)

// ComputeSMAs augments every point of the series with its short and long
// trailing means. A period longer than the series leaves that average absent
// everywhere.
func ComputeSMAs(series model.NormalizedSeries, shortPeriod, longPeriod int) []model.IndicatorPoint {
	short := rollingMeans(series, shortPeriod)
	long := rollingMeans(series, longPeriod)

	points := make([]model.IndicatorPoint, len(series))
	for i, p := range series {
		points[i] = model.IndicatorPoint{
			Date:     p.Date,
			Close:    p.Close.InexactFloat64(),
			ShortSMA: short[i],
			LongSMA:  long[i],
		}
	}
	return points
}

// rollingMeans returns the trailing mean at each index, nil until period
// values have been seen. The running sum stays in decimal so equal means
// convert to the same float.
func rollingMeans(series model.NormalizedSeries, period int) []*float64 {
	out := make([]*float64, len(series))
	if period <= 0 || period > len(series) {
		return out
	}
	divisor := decimal.NewFromInt(int64(period))
	sum := decimal.Zero
	for i, p := range series {
		sum = sum.Add(p.Close)
		if i >= period {
			sum = sum.Sub(series[i-period].Close)
		}
		if i >= period-1 {
			mean := sum.Div(divisor).InexactFloat64()
			out[i] = &mean
		}
	}
	return out
}
