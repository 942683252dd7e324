package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"MarketCross/internal/model"
)

const maxBodyBytes = 32 << 20

// newHTTPClient builds a client with optional proxy support.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// doRequest executes req and returns the body of a 2xx response. Every
// failure comes back classified.
func doRequest(client *http.Client, req *http.Request, provider string) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, model.WrapError(model.KindTransient, err, "%s: request timed out", provider)
		}
		return nil, model.WrapError(model.KindTransient, err, "%s: request failed", provider)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, model.WrapError(model.KindTransient, err, "%s: read body", provider)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyStatus(provider, resp.StatusCode, body)
	}
	return body, nil
}

// classifyStatus maps a non-success HTTP status onto the error taxonomy.
func classifyStatus(provider string, status int, body []byte) *model.Error {
	cause := fmt.Errorf("status %d, body: %s", status, truncate(body, 256))
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return model.WrapError(model.KindAuth, cause, "%s: credential rejected (status %d)", provider, status)
	case status == http.StatusNotFound:
		return model.WrapError(model.KindSymbol, cause, "%s: symbol not found", provider)
	case status == http.StatusTooManyRequests:
		return model.WrapError(model.KindTransient, cause, "%s: rate limited", provider)
	case status == http.StatusRequestTimeout || status >= 500:
		return model.WrapError(model.KindTransient, cause, "%s: upstream unavailable (status %d)", provider, status)
	default:
		return model.WrapError(model.KindFormat, cause, "%s: unexpected status %d", provider, status)
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
