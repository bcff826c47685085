package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"agri-curator/internal/agmarknet"
)

// PriceFetcherTool fetches mandi crop prices from Agmarknet.
type PriceFetcherTool struct {
	fetcher *agmarknet.Fetcher
}

func NewPriceFetcher() *PriceFetcherTool {
	return &PriceFetcherTool{fetcher: agmarknet.NewFetcher()}
}

func (t *PriceFetcherTool) Name() string { return "PriceFetcherTool" }

func (t *PriceFetcherTool) Description() string {
	return "Fetch crop price data from Agmarknet. Inputs: commodity, state, optional district, start_date, end_date (DD-Mon-YYYY). Returns a JSON with success flag, data list and total_records or error."
}

// Run always returns a JSON payload; fetch failures are encoded in the
// payload's error field rather than surfaced as tool errors.
func (t *PriceFetcherTool) Run(ctx context.Context, args map[string]any) (string, error) {
	commodity := stringArg(args, "commodity")
	state := stringArg(args, "state")
	district := stringArg(args, "district")
	startDate := stringArg(args, "start_date")
	endDate := stringArg(args, "end_date")

	if commodity == "" || state == "" || startDate == "" || endDate == "" {
		return marshalResult(agmarknet.Result{
			Err: "missing required arguments: commodity, state, start_date and end_date are required",
		})
	}

	result := t.fetcher.FetchPrices(ctx, commodity, state, district, startDate, endDate)
	return marshalResult(result)
}

func marshalResult(r agmarknet.Result) (string, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal price result: %w", err)
	}
	return string(raw), nil
}
