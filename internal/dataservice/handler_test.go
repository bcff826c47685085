package dataservice

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testServer(t *testing.T) (*httptest.Server, *Store) {
	t.Helper()
	store := testStore(t)
	e := echo.New()
	NewHandler(store, zap.NewNop()).Register(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, store
}

func getData(t *testing.T, url string) map[string]any {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Data
}

func TestGetHistoryTypeFilter(t *testing.T) {
	srv, store := testServer(t)
	require.NoError(t, store.Put("conversation_history", "conv-1", map[string]any{
		"farmer_message_history":  []any{"hello"},
		"curator_message_history": []any{"routing"},
	}))

	data := getData(t, srv.URL+"/api/data?collection_name=conversation_history&_id=conv-1&message_history_type=farmer_message_history")
	require.Len(t, data, 1)
	assert.Contains(t, data, "farmer_message_history")
	assert.NotContains(t, data, "curator_message_history")
}

func TestGetHistoryTypeFilterUnknownKey(t *testing.T) {
	srv, store := testServer(t)
	require.NoError(t, store.Put("conversation_history", "conv-1", map[string]any{
		"farmer_message_history": []any{"hello"},
	}))

	// an unknown history type returns the whole document unchanged
	data := getData(t, srv.URL+"/api/data?collection_name=conversation_history&_id=conv-1&message_history_type=ghost_message_history")
	assert.Contains(t, data, "farmer_message_history")
}

func TestGetWithoutFilter(t *testing.T) {
	srv, store := testServer(t)
	require.NoError(t, store.Put("user_inputs", "conv-1", map[string]any{"location": "Nashik"}))

	data := getData(t, srv.URL+"/api/data?collection_name=user_inputs&_id=conv-1")
	assert.Equal(t, "Nashik", data["location"])
}

func TestGetMissingParams(t *testing.T) {
	srv, _ := testServer(t)
	resp, err := http.Get(srv.URL + "/api/data?collection_name=user_inputs")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
