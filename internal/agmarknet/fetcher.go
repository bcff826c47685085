package agmarknet

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Result is the outcome of a price fetch. Err holds a message instead of
// failing the call so downstream callers can relay it to the model.
type Result struct {
	Success      bool                `json:"success"`
	Data         []map[string]string `json:"data,omitempty"`
	TotalRecords int                 `json:"total_records"`
	Err          string              `json:"error,omitempty"`
}

// Fetcher retrieves mandi price data from Agmarknet, resolving commodity
// and state names with fuzzy matching.
type Fetcher struct {
	httpc *http.Client

	// overridable for tests
	buildURL func(commodityID, stateID, commodityName, stateName, startDate, endDate string) string
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		httpc:    &http.Client{Timeout: 60 * time.Second},
		buildURL: BuildURL,
	}
}

// FetchPrices fetches whole-state price data for the commodity over the
// given date range, then filters by district when one is supplied. Date
// format is DD-Mon-YYYY, e.g. 01-Aug-2025.
func (f *Fetcher) FetchPrices(ctx context.Context, commodity, state, district, startDate, endDate string) Result {
	commodityObj := MatchMapping(commodity, Commodities)
	if commodityObj == nil {
		return Result{Err: fmt.Sprintf("Commodity '%s' not found.", commodity)}
	}
	stateObj := MatchMapping(state, States)
	if stateObj == nil {
		return Result{Err: fmt.Sprintf("State '%s' not found.", state)}
	}

	u := f.buildURL(commodityObj.Value, stateObj.Value, commodityObj.Text, stateObj.Text, startDate, endDate)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Result{Err: fmt.Sprintf("Failed to fetch data: %v", err)}
	}
	resp, err := f.httpc.Do(req)
	if err != nil {
		return Result{Err: fmt.Sprintf("Failed to fetch data: %v", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Result{Err: fmt.Sprintf("Failed to fetch data: status %d", resp.StatusCode)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Err: fmt.Sprintf("Failed to fetch data: %v", err)}
	}

	records, err := ParseTable(string(body))
	if err != nil {
		return Result{Err: err.Error()}
	}
	if district != "" {
		records = FilterRecords(district, records, "District_Name")
	}
	return Result{Success: true, Data: records, TotalRecords: len(records)}
}
