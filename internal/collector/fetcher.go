package collector

import (
	"context"
	"sort"
	"strings"

	"MarketCross/internal/model"
)

// DefaultLookbackDays is the static history over-provision requested from
// every provider: three years of calendar days, about 750 trading days. The
// default 212-day long SMA plus a 365-day window needs 576.
const DefaultLookbackDays = 1095

// tradingDays estimates the sessions in a span of calendar days, allowing
// for weekends and up to ten exchange holidays a year.
func tradingDays(calendarDays int) int {
	return calendarDays*5/7 - calendarDays*10/365
}

// Fetcher turns a symbol and credential into a provider-neutral raw series.
// Implementations make one outbound call per Fetch and never retry. The
// returned order is whatever the provider used.
type Fetcher interface {
	Name() string
	RequiresCredential() bool
	Fetch(ctx context.Context, symbol, credential string) (model.RawSeries, error)
}

type registration struct {
	fetcher    Fetcher
	credential string
}

// Registry resolves provider names to fetchers and their default credentials.
type Registry struct {
	entries map[string]registration
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registration)}
}

// Register adds a fetcher under its Name. defaultCredential is used when a
// request carries none.
func (r *Registry) Register(f Fetcher, defaultCredential string) {
	r.entries[normalizeName(f.Name())] = registration{fetcher: f, credential: defaultCredential}
}

// Lookup returns the fetcher and default credential for a provider name.
func (r *Registry) Lookup(name string) (Fetcher, string, bool) {
	reg, ok := r.entries[normalizeName(name)]
	return reg.fetcher, reg.credential, ok
}

// Names lists the registered providers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
