package agmarknet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFetcher(serverURL string) *Fetcher {
	f := NewFetcher()
	f.buildURL = func(_, _, _, _, _, _ string) string { return serverURL }
	return f
}

func TestFetchPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(resultsPage))
	}))
	defer srv.Close()

	result := testFetcher(srv.URL).FetchPrices(context.Background(), "onion", "maharashtra", "", "01-Aug-2026", "31-Aug-2026")
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.TotalRecords)
}

func TestFetchPricesDistrictFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(resultsPage))
	}))
	defer srv.Close()

	result := testFetcher(srv.URL).FetchPrices(context.Background(), "onion", "maharashtra", "nashik", "01-Aug-2026", "31-Aug-2026")
	require.True(t, result.Success)
	require.Equal(t, 1, result.TotalRecords)
	assert.Equal(t, "Nashik", result.Data[0]["District_Name"])
}

func TestFetchPricesUnknownCommodity(t *testing.T) {
	result := NewFetcher().FetchPrices(context.Background(), "xylophone", "maharashtra", "", "01-Aug-2026", "31-Aug-2026")
	assert.False(t, result.Success)
	assert.Equal(t, "Commodity 'xylophone' not found.", result.Err)
}

func TestFetchPricesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	result := testFetcher(srv.URL).FetchPrices(context.Background(), "onion", "maharashtra", "", "01-Aug-2026", "31-Aug-2026")
	assert.False(t, result.Success)
	assert.Contains(t, result.Err, "Failed to fetch data")
}
