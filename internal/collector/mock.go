package collector

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"MarketCross/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Provider  string // reported Name, "mock" when empty
	Price     float64
	Series    model.RawSeries
	Err       error
	Delay     time.Duration
	NeedsAuth bool
}

func (m *MockFetcher) Name() string {
	if m.Provider != "" {
		return m.Provider
	}
	return "mock"
}

func (m *MockFetcher) RequiresCredential() bool { return m.NeedsAuth }

func (m *MockFetcher) Fetch(ctx context.Context, _ string, _ string) (model.RawSeries, error) {
	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.Delay):
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Series != nil {
		out := make(model.RawSeries, len(m.Series))
		copy(out, m.Series)
		return out, nil
	}
	return generateMockSeries(m.Price, tradingDays(DefaultLookbackDays)), nil
}

// generateMockSeries produces count daily closes drifting around basePrice,
// ending yesterday.
func generateMockSeries(basePrice float64, count int) model.RawSeries {
	end := model.DateOf(time.Now().UTC())
	series := make(model.RawSeries, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		series[i] = model.PricePoint{
			Date:  end.AddDays(-(count - i)),
			Close: decimal.NewFromFloat(p).Round(4),
		}
	}
	return series
}
