package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"MarketCross/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	Lookback  int               // calendar days
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string, lookbackDays int) *YahooFetcher {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	return &YahooFetcher{
		BaseURL:  yahooBaseURL,
		Client:   newHTTPClient(proxyURL),
		Lookback: lookbackDays,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
			"DAX":    "^GDAXI",
			"SX5E":   "^STOXX50E",
			"N225":   "^N225",
		},
	}
}

func (f *YahooFetcher) Name() string             { return "yahoo" }
func (f *YahooFetcher) RequiresCredential() bool { return false }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[strings.ToUpper(symbol)]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				GMTOffset int64 `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooRange picks the smallest chart range covering the lookback.
func yahooRange(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	case days <= 730:
		return "2y"
	case days <= 1825:
		return "5y"
	case days <= 3650:
		return "10y"
	default:
		return "max"
	}
}

func (f *YahooFetcher) Fetch(ctx context.Context, symbol, _ string) (model.RawSeries, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), yahooRange(f.Lookback))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, model.WrapError(model.KindValidation, err, "yahoo: build request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	body, err := doRequest(f.Client, req, f.Name())
	if err != nil {
		return nil, err
	}
	return parseYahoo(body)
}

func parseYahoo(body []byte) (model.RawSeries, error) {
	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, model.WrapError(model.KindFormat, err, "yahoo: decode chart")
	}
	if e := chart.Chart.Error; e != nil {
		cause := fmt.Errorf("%s: %s", e.Code, e.Description)
		if strings.EqualFold(e.Code, "Not Found") {
			return nil, model.WrapError(model.KindSymbol, cause, "yahoo: unknown symbol")
		}
		return nil, model.WrapError(model.KindFormat, cause, "yahoo: api error")
	}
	if len(chart.Chart.Result) == 0 {
		return nil, model.NewError(model.KindFormat, "yahoo: chart result missing")
	}

	result := chart.Chart.Result[0]
	if len(result.Timestamp) == 0 {
		return model.RawSeries{}, nil
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) != len(result.Timestamp) {
		return nil, model.NewError(model.KindFormat, "yahoo: close prices do not line up with timestamps")
	}

	closes := result.Indicators.Quote[0].Close
	series := make(model.RawSeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue // skip null bars (holidays etc.)
		}
		// shift into exchange-local time so the bar lands on its trading day
		local := time.Unix(ts+result.Meta.GMTOffset, 0).UTC()
		series = append(series, model.PricePoint{
			Date:  model.DateOf(local),
			Close: decimal.NewFromFloat(*closes[i]),
		})
	}
	return series, nil
}
