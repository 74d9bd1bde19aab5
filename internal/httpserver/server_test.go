package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bridgetools/bba-go/internal/httpserver"
	"github.com/bridgetools/bba-go/internal/store"
	"github.com/bridgetools/bba-go/pkg/bba"
	"github.com/bridgetools/bba-go/pkg/bba/enginetest"
	"github.com/bridgetools/bba-go/pkg/bba/logging"
	"github.com/bridgetools/bba-go/pkg/runner"
)

const testDeal = "N:AKQJ.AKQ.AKQ.AKQ 5432.7654.432.T9 T98.T98.765.8765 76.J32.JT98.J432"

func newTestHandler(t *testing.T, script ...string) http.Handler {
	t.Helper()
	factory := func(ctx context.Context) (bba.Engine, error) {
		return enginetest.New(script...), nil
	}
	run, err := runner.New(factory, runner.Config{Log: logging.Discard()})
	require.NoError(t, err)
	st, err := store.Open(t.TempDir() + "/archive.db")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return httpserver.New(run, st, logging.Discard(), 0).Routes()
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	decoded := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)
	rec, body := doJSON(t, h, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])
	assert.EqualValues(t, 0, body["auctions"])
}

func TestGenerateArchivesAndServesAuction(t *testing.T) {
	h := newTestHandler(t, "1NT")

	rec, body := doJSON(t, h, http.MethodPost, "/api/auction/generate",
		`{"deal":{"pbn":"`+testDeal+`","dealer":"N","vulnerability":"None","scoring":"IMPs"},"scenario":"1NT openings"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])
	assert.Equal(t, []any{"1NT", "Pass", "Pass", "Pass"}, body["auction"])
	assert.Equal(t, "1NT", body["contract"])
	require.NotNil(t, body["id"])
	id := int64(body["id"].(float64))

	rec, one := doJSON(t, h, http.MethodGet, "/api/auctions/"+strconv.FormatInt(id, 10), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testDeal, one["deal"])
	assert.Equal(t, "N", one["dealer"])
	assert.Equal(t, []any{"1NT", "Pass", "Pass", "Pass"}, one["auction"])

	rec, list := doJSON(t, h, http.MethodGet, "/api/auctions?limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	auctions, ok := list["auctions"].([]any)
	require.True(t, ok)
	assert.Len(t, auctions, 1)
}

func TestGenerateRejectsBadDealer(t *testing.T) {
	h := newTestHandler(t)
	rec, body := doJSON(t, h, http.MethodPost, "/api/auction/generate",
		`{"deal":{"pbn":"`+testDeal+`","dealer":"Q","vulnerability":"None"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEqual(t, true, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestGenerateRejectsBadDeal(t *testing.T) {
	h := newTestHandler(t)
	rec, body := doJSON(t, h, http.MethodPost, "/api/auction/generate",
		`{"deal":{"pbn":"not a deal","dealer":"N","vulnerability":"None"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEqual(t, true, body["success"])
}

func TestGenerateRejectsBadBody(t *testing.T) {
	h := newTestHandler(t)
	rec, _ := doJSON(t, h, http.MethodPost, "/api/auction/generate", "{")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAuctionMissing(t *testing.T) {
	h := newTestHandler(t)
	rec, _ := doJSON(t, h, http.MethodGet, "/api/auctions/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListRejectsBadLimit(t *testing.T) {
	h := newTestHandler(t)
	rec, _ := doJSON(t, h, http.MethodGet, "/api/auctions?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
