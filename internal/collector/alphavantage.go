package collector

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"MarketCross/internal/model"
)

const alphaVantageBaseURL = "https://www.alphavantage.co/query"

// AlphaVantageFetcher implements Fetcher using the Alpha Vantage daily time series.
// The payload is an object keyed by date, newest first, with string prices.
type AlphaVantageFetcher struct {
	BaseURL  string
	Client   *http.Client
	Lookback int // calendar days
}

// NewAlphaVantageFetcher creates a new fetcher with optional proxy support.
func NewAlphaVantageFetcher(proxyURL string, lookbackDays int) *AlphaVantageFetcher {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	return &AlphaVantageFetcher{
		BaseURL:  alphaVantageBaseURL,
		Client:   newHTTPClient(proxyURL),
		Lookback: lookbackDays,
	}
}

func (f *AlphaVantageFetcher) Name() string             { return "alphavantage" }
func (f *AlphaVantageFetcher) RequiresCredential() bool { return true }

func (f *AlphaVantageFetcher) Fetch(ctx context.Context, symbol, credential string) (model.RawSeries, error) {
	// compact covers the latest 100 trading days; anything longer needs full.
	outputSize := "full"
	if f.Lookback <= 100 {
		outputSize = "compact"
	}
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", symbol)
	q.Set("outputsize", outputSize)
	q.Set("apikey", credential)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, model.WrapError(model.KindValidation, err, "alphavantage: build request")
	}
	body, err := doRequest(f.Client, req, f.Name())
	if err != nil {
		return nil, err
	}
	return parseAlphaVantage(body)
}

func parseAlphaVantage(body []byte) (model.RawSeries, error) {
	if !gjson.ValidBytes(body) {
		return nil, model.NewError(model.KindFormat, "alphavantage: response is not valid JSON")
	}
	root := gjson.ParseBytes(body)

	if msg := root.Get("Error Message"); msg.Exists() {
		if mentionsAPIKey(msg.String()) {
			return nil, model.WrapError(model.KindAuth, errors.New(msg.String()), "alphavantage: api key rejected")
		}
		return nil, model.WrapError(model.KindSymbol, errors.New(msg.String()), "alphavantage: unknown or unsupported symbol")
	}
	for _, key := range []string{"Note", "Information"} {
		if msg := root.Get(key); msg.Exists() {
			return nil, classifyNotice(msg.String())
		}
	}

	var daily gjson.Result
	root.ForEach(func(key, value gjson.Result) bool {
		if key.String() == "Time Series (Daily)" {
			daily = value
			return false
		}
		return true
	})
	if !daily.IsObject() {
		return nil, model.NewError(model.KindFormat, "alphavantage: daily time series missing from response")
	}

	var (
		series  model.RawSeries
		failure error
	)
	daily.ForEach(func(key, value gjson.Result) bool {
		date, err := model.ParseDate(key.String())
		if err != nil {
			failure = model.WrapError(model.KindFormat, err, "alphavantage: bad date %q", key.String())
			return false
		}
		raw := value.Get(`4\. close`)
		if !raw.Exists() {
			failure = model.NewError(model.KindFormat, "alphavantage: close missing for %s", key.String())
			return false
		}
		price, err := decimal.NewFromString(raw.String())
		if err != nil {
			failure = model.WrapError(model.KindFormat, err, "alphavantage: bad close %q for %s", raw.String(), key.String())
			return false
		}
		series = append(series, model.PricePoint{Date: date, Close: price})
		return true
	})
	if failure != nil {
		return nil, failure
	}
	return series, nil
}

// classifyNotice maps a Note or Information body. Only rate-limit wording is
// worth retrying.
func classifyNotice(msg string) *model.Error {
	lower := strings.ToLower(msg)
	cause := errors.New(msg)
	switch {
	case strings.Contains(lower, "premium"):
		return model.WrapError(model.KindAuth, cause, "alphavantage: request needs a premium api key")
	case mentionsAPIKey(msg) && strings.Contains(lower, "invalid"):
		return model.WrapError(model.KindAuth, cause, "alphavantage: api key rejected")
	case strings.Contains(lower, "frequency"), strings.Contains(lower, "rate limit"), strings.Contains(lower, "requests per"):
		return model.WrapError(model.KindTransient, cause, "alphavantage: rate limit reached")
	default:
		return model.WrapError(model.KindFormat, cause, "alphavantage: unexpected notice in response")
	}
}

func mentionsAPIKey(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "apikey") || strings.Contains(lower, "api key")
}
