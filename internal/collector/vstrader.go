package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"MarketCross/internal/model"
)

// VsTraderFetcher implements Fetcher using the vstrader REST API.
type VsTraderFetcher struct {
	BaseURL  string
	Client   *http.Client
	Lookback int // calendar days
}

// NewVsTraderFetcher creates a new fetcher with optional proxy support.
func NewVsTraderFetcher(baseURL, proxyURL string, lookbackDays int) *VsTraderFetcher {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	return &VsTraderFetcher{
		BaseURL:  baseURL,
		Client:   newHTTPClient(proxyURL),
		Lookback: lookbackDays,
	}
}

func (f *VsTraderFetcher) Name() string             { return "vstrader" }
func (f *VsTraderFetcher) RequiresCredential() bool { return true }

// vsBar is the expected JSON shape from the vstrader API.
type vsBar struct {
	Timestamp int64   `json:"timestamp"`
	Close     float64 `json:"close"`
}

func (f *VsTraderFetcher) Fetch(ctx context.Context, symbol, credential string) (model.RawSeries, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&limit=%d", f.BaseURL, url.QueryEscape(symbol), f.Lookback)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, model.WrapError(model.KindValidation, err, "vstrader: build request")
	}
	req.Header.Set("Authorization", "Bearer "+credential)

	body, err := doRequest(f.Client, req, f.Name())
	if err != nil {
		return nil, err
	}

	var bars []vsBar
	if err := json.Unmarshal(body, &bars); err != nil {
		return nil, model.WrapError(model.KindFormat, err, "vstrader: decode bars")
	}
	series := make(model.RawSeries, len(bars))
	for i, b := range bars {
		series[i] = model.PricePoint{
			Date:  model.DateOf(time.Unix(b.Timestamp, 0).UTC()),
			Close: decimal.NewFromFloat(b.Close),
		}
	}
	return series, nil
}
