package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartOK = `{"chart":{"result":[{"meta":{"symbol":"NVDA"},
"timestamp":[1759968000,1759881600,1760054400,1760313600],
"indicators":{"quote":[{"close":[101.5,100.0,null,103.25]}]}}],"error":null}}`

const chartNotFound = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`

func newTestYahoo(t *testing.T, handler http.HandlerFunc) *YahooFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	return f
}

func TestYahooFetcher_ParsesAndSortsCloses(t *testing.T) {
	var gotPath, gotRange string
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRange = r.URL.Query().Get("range")
		w.Write([]byte(chartOK))
	})

	s, err := f.FetchDailyCloses(context.Background(), "NVDA", PeriodOneMonth)
	require.NoError(t, err)

	assert.Equal(t, "/NVDA", gotPath)
	assert.Equal(t, "1mo", gotRange)
	assert.Equal(t, "NVDA", s.Ticker)
	// null bar skipped, ascending by date
	assert.Equal(t, []float64{100.0, 101.5, 103.25}, s.Closes())
	for i := 1; i < len(s.Points); i++ {
		assert.True(t, s.Points[i-1].Date.Before(s.Points[i].Date))
	}
}

func TestYahooFetcher_SymbolMap(t *testing.T) {
	var gotPath string
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(chartOK))
	})
	s, err := f.FetchDailyCloses(context.Background(), "SPX", PeriodOneMonth)
	require.NoError(t, err)
	assert.Equal(t, "/^GSPC", gotPath)
	assert.Equal(t, "SPX", s.Ticker)
}

func TestYahooFetcher_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"unknown symbol", http.StatusNotFound, chartNotFound, "delisted"},
		{"server error", http.StatusInternalServerError, "oops", "status 500"},
		{"invalid json", http.StatusOK, "{not json", "invalid json"},
		{"empty result", http.StatusOK, `{"chart":{"result":[{"timestamp":[],"indicators":{"quote":[{"close":[]}]}}],"error":null}}`, "no data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := f.FetchDailyCloses(context.Background(), "ZZZZ", PeriodOneMonth)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDataUnavailable)
			assert.True(t, strings.Contains(err.Error(), tt.wantMsg), err.Error())
		})
	}
}

func TestYahooFetcher_ContextCancelled(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartOK))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.FetchDailyCloses(ctx, "NVDA", PeriodOneMonth)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}
