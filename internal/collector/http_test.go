package collector

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"MarketCross/internal/model"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   model.ErrorKind
	}{
		{http.StatusUnauthorized, model.KindAuth},
		{http.StatusForbidden, model.KindAuth},
		{http.StatusNotFound, model.KindSymbol},
		{http.StatusTooManyRequests, model.KindTransient},
		{http.StatusRequestTimeout, model.KindTransient},
		{http.StatusInternalServerError, model.KindTransient},
		{http.StatusBadGateway, model.KindTransient},
		{http.StatusServiceUnavailable, model.KindTransient},
		{http.StatusBadRequest, model.KindFormat},
		{http.StatusMovedPermanently, model.KindFormat},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := classifyStatus("test", tt.status, []byte("body"))
			assert.Equal(t, tt.want, err.Kind)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate([]byte("abc"), 5))
	assert.Equal(t, "ab...", truncate([]byte("abcdef"), 2))
}
