package calculator

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// calculateSMA is the plain trailing mean over the last period prices.
func calculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

func TestComputeSMAs_Scenario(t *testing.T) {
	series := seriesOf(10, 12, 11, 13, 15, 14, 16, 18, 17, 19)
	points := ComputeSMAs(series, 2, 4)
	require.Len(t, points, 10)

	wantShort := []float64{0, 11, 11.5, 12, 14, 14.5, 15, 17, 17.5, 18}
	wantLong := []float64{0, 0, 0, 11.5, 12.75, 13.25, 14.5, 15.75, 16.25, 17.5}

	assert.Nil(t, points[0].ShortSMA)
	for i := 1; i < 10; i++ {
		require.NotNil(t, points[i].ShortSMA, "short at %d", i)
		assert.InDelta(t, wantShort[i], *points[i].ShortSMA, 1e-9, "short at %d", i)
	}
	for i := 0; i < 3; i++ {
		assert.Nil(t, points[i].LongSMA, "long at %d", i)
	}
	for i := 3; i < 10; i++ {
		require.NotNil(t, points[i].LongSMA, "long at %d", i)
		assert.InDelta(t, wantLong[i], *points[i].LongSMA, 1e-9, "long at %d", i)
	}
	for i, p := range points {
		assert.Equal(t, series[i].Date, p.Date)
		assert.Equal(t, series[i].Close.InexactFloat64(), p.Close)
	}
}

func TestComputeSMAs_PeriodLongerThanHistory(t *testing.T) {
	points := ComputeSMAs(seriesOf(1, 2, 3), 2, 50)
	require.Len(t, points, 3)
	for _, p := range points {
		assert.Nil(t, p.LongSMA)
	}
	assert.NotNil(t, points[2].ShortSMA)
}

func TestComputeSMAs_PeriodOne(t *testing.T) {
	points := ComputeSMAs(seriesOf(5, 7), 1, 1)
	for _, p := range points {
		require.NotNil(t, p.ShortSMA)
		assert.Equal(t, p.Close, *p.ShortSMA)
		assert.Equal(t, p.Close, *p.LongSMA)
	}
}

func TestComputeSMAs_FlatStretchGivesEqualMeans(t *testing.T) {
	for _, price := range []float64{0.1, 3.3, 100.1, 16617.29} {
		closes := make([]float64, 20)
		for i := range closes {
			closes[i] = price
		}
		points := ComputeSMAs(seriesOf(closes...), 3, 7)
		for i := 6; i < len(points); i++ {
			require.True(t, points[i].HasBoth())
			assert.Equal(t, *points[i].ShortSMA, *points[i].LongSMA, "price %v day %d", price, i)
			assert.Equal(t, price, *points[i].LongSMA, "price %v day %d", price, i)
		}
	}
}

func TestComputeSMAs_MatchesTrailingMeanProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("length preserved and each SMA equals the trailing mean", prop.ForAll(
		func(closes []float64, shortPeriod, longPeriod int) bool {
			points := ComputeSMAs(seriesOf(closes...), shortPeriod, longPeriod)
			if len(points) != len(closes) {
				return false
			}
			for i, p := range points {
				if !smaMatches(closes[:i+1], shortPeriod, p.ShortSMA) || !smaMatches(closes[:i+1], longPeriod, p.LongSMA) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(1, 5000)),
		gen.IntRange(1, 30),
		gen.IntRange(1, 60),
	))

	properties.TestingRun(t)
}

// smaMatches compares a computed SMA against the reference trailing mean.
func smaMatches(prefix []float64, period int, got *float64) bool {
	want, err := calculateSMA(prefix, period)
	if err != nil {
		return got == nil
	}
	if got == nil {
		return false
	}
	diff := want - *got
	if diff < 0 {
		diff = -diff
	}
	return diff <= 1e-6*(1+want)
}
