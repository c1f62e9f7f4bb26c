package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"folio/internal/database"
	"folio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *database.MemStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	store := database.NewMemStore(log)
	require.NoError(t, database.Seed(context.Background(), store, time.Now()))

	r := gin.New()
	r.Use(RequestLogger(log))
	NewHandler(service.NewPortfolio(store, log), log).Register(r)
	return r, store
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

const relianceRow = `{"name":"Reliance Industries","symbol":"RELIANCE","units":"10","buyingPrice":"2000","purchaseDate":"2023-01-15","type":"Stock"}`

func TestHealth(t *testing.T) {
	r, _ := setupRouter(t)
	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	r, _ := setupRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestMarketData(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodGet, "/api/market-data", "")
	require.Equal(t, http.StatusOK, w.Code)
	var quotes []map[string]any
	decode(t, w, &quotes)
	assert.Len(t, quotes, len(database.SeedQuotes()))
	assert.Equal(t, "NIFTY50", quotes[0]["symbol"])

	w = do(r, http.MethodGet, "/api/market-data/tcs", "")
	require.Equal(t, http.StatusOK, w.Code)
	var q map[string]any
	decode(t, w, &q)
	assert.Equal(t, "TCS", q["symbol"])
	assert.Equal(t, "3892.4", q["price"])

	w = do(r, http.MethodGet, "/api/market-data/NOPE", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Symbol not found"}`, w.Body.String())
}

func TestMarketMoversAndSegments(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodGet, "/api/market/movers", "")
	require.Equal(t, http.StatusOK, w.Code)
	var movers struct {
		Gainers []map[string]any `json:"gainers"`
		Losers  []map[string]any `json:"losers"`
	}
	decode(t, w, &movers)
	require.NotEmpty(t, movers.Gainers)
	assert.Equal(t, "RELIANCE", movers.Gainers[0]["symbol"])
	require.NotEmpty(t, movers.Losers)
	assert.Equal(t, "ADANIENT", movers.Losers[0]["symbol"])

	w = do(r, http.MethodGet, "/api/market/segments", "")
	require.Equal(t, http.StatusOK, w.Code)
	var segs map[string][]map[string]any
	decode(t, w, &segs)
	assert.Len(t, segs["indices"], 3)
	assert.Len(t, segs["crypto"], 4)
}

func TestNews(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodGet, "/api/news", "")
	require.Equal(t, http.StatusOK, w.Code)
	var all []map[string]any
	decode(t, w, &all)
	assert.Len(t, all, 3)

	w = do(r, http.MethodGet, "/api/news?category=international", "")
	require.Equal(t, http.StatusOK, w.Code)
	var intl []map[string]any
	decode(t, w, &intl)
	require.Len(t, intl, 1)
	assert.Equal(t, "Reuters", intl[0]["source"])
}

func TestSearchStocks(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodGet, "/api/stocks/search", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Query parameter required"}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/stocks/search?q=bank", "")
	require.Equal(t, http.StatusOK, w.Code)
	var res []map[string]any
	decode(t, w, &res)
	require.Len(t, res, 2)
	assert.Equal(t, "NIFTYBANK", res[0]["symbol"])
	assert.Equal(t, "HDFCBANK", res[1]["symbol"])
	assert.NotContains(t, res[0], "change")
}

func TestPortfolioCRUD(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodPost, "/api/portfolio", relianceRow)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]any
	decode(t, w, &created)
	assert.EqualValues(t, 1, created["id"])
	assert.Equal(t, "RELIANCE", created["symbol"])
	assert.Equal(t, "10", created["units"])

	w = do(r, http.MethodGet, "/api/portfolio", "")
	require.Equal(t, http.StatusOK, w.Code)
	var items []map[string]any
	decode(t, w, &items)
	assert.Len(t, items, 1)

	w = do(r, http.MethodPut, "/api/portfolio/1", `{"units":"25"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated map[string]any
	decode(t, w, &updated)
	assert.Equal(t, "25", updated["units"])
	assert.Equal(t, "Reliance Industries", updated["name"])

	w = do(r, http.MethodPut, "/api/portfolio/1", `{"type":"Bond"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPut, "/api/portfolio/99", `{"units":"1"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Portfolio item not found"}`, w.Body.String())

	w = do(r, http.MethodDelete, "/api/portfolio/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(r, http.MethodDelete, "/api/portfolio/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(r, http.MethodDelete, "/api/portfolio/abc", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateHolding_Invalid(t *testing.T) {
	r, store := setupRouter(t)

	w := do(r, http.MethodPost, "/api/portfolio", `{"name":"TCS","units":"0","buyingPrice":"10","purchaseDate":"2023-01-15","type":"Stock"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
	}
	decode(t, w, &body)
	assert.Equal(t, "Invalid data", body.Message)
	assert.Equal(t, []string{"TCS: Units must be a positive number"}, body.Errors)

	w = do(r, http.MethodPost, "/api/portfolio", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	hs, err := store.GetHoldings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, hs)
}

func TestHoldings_HugeExponentRejected(t *testing.T) {
	r, store := setupRouter(t)

	w := do(r, http.MethodPost, "/api/portfolio", `{"name":"TCS","units":"1e999999999","buyingPrice":"10","purchaseDate":"2023-01-15","type":"Stock"}`)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Invalid data","errors":["TCS: Units must be a positive number"]}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/portfolio/upload-csv", `{"csvData":[
		{"name":"TCS","units":"10","buyingPrice":"1e999999999","purchaseDate":"2023-01-15","type":"Stock"}
	]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"successful":0,"failed":1,"errors":["Row with name \"TCS\": Buying price must be a positive number"]}`, w.Body.String())

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/portfolio", relianceRow).Code)
	w = do(r, http.MethodPut, "/api/portfolio/1", `{"units":"1e999999999"}`)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Invalid data","errors":["Unknown: Units must be a positive number"]}`, w.Body.String())

	h, err := store.GetHolding(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "10", h.Units.String())

	for _, path := range []string{"/api/portfolio/analysis", "/api/portfolio/export?format=xlsx"} {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, path, "").Code, path)
	}
}

func TestUploadCSV_PartialSuccess(t *testing.T) {
	r, store := setupRouter(t)

	body := `{"csvData":[
		{"name":"Reliance","units":"100","buyingPrice":"2400.50","purchaseDate":"2023-01-15","type":"Stock"},
		{"name":"Broken","units":"10","buyingPrice":"10","purchaseDate":"15-01-2023","type":"Stock"},
		{"name":"Bitcoin","units":"0.5","buyingPrice":"3500000","purchaseDate":"2023-06-01","type":"Crypto"}
	]}`
	w := do(r, http.MethodPost, "/api/portfolio/upload-csv", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"successful":2,"failed":1,"errors":["Row with name \"Broken\": Purchase date must be in YYYY-MM-DD format"]}`, w.Body.String())

	hs, err := store.GetHoldings(context.Background())
	require.NoError(t, err)
	require.Len(t, hs, 2)
	assert.Equal(t, "Reliance", hs[0].Name)
	assert.Equal(t, "Bitcoin", hs[1].Name)
}

func TestUploadCSV_BadShape(t *testing.T) {
	r, _ := setupRouter(t)
	for _, body := range []string{`{}`, `{"csvData":"a,b"}`, `{"csvData":null}`, `[]`} {
		w := do(r, http.MethodPost, "/api/portfolio/upload-csv", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.JSONEq(t, `{"message":"Invalid CSV data format"}`, w.Body.String())
	}

	w := do(r, http.MethodPost, "/api/portfolio/upload-csv", `{"csvData":[]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"successful":0,"failed":0,"errors":[]}`, w.Body.String())
}

func TestImportCSV(t *testing.T) {
	r, _ := setupRouter(t)

	text := "Name,Units,Buying Price,Purchase Date,Type\nReliance,100,2400.50,2023-01-15,Stock\nBad,x,1,2023-01-15,Stock\n"
	req := httptest.NewRequest(http.MethodPost, "/api/portfolio/import", bytes.NewBufferString(text))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"successful":1,"failed":1,"errors":["Row with name \"Bad\": Units must be a positive number"]}`, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/api/portfolio/import", bytes.NewBufferString("Foo,Bar\n1,2\n"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to parse CSV")
}

func TestImportCSV_BodyTooLarge(t *testing.T) {
	r, store := setupRouter(t)

	line := "Reliance,100,2400.50,2023-01-15,Stock\n"
	text := "Name,Units,Buying Price,Purchase Date,Type\n" + strings.Repeat(line, maxImportBytes/len(line)+1)
	req := httptest.NewRequest(http.MethodPost, "/api/portfolio/import", strings.NewReader(text))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CSV upload must not exceed")

	hs, err := store.GetHoldings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, hs)
}

func TestAnalysis(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodGet, "/api/portfolio/analysis", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"portfolio": [],
		"summary": {"totalInvested":"0","currentValue":"0","totalPnL":"0","returnPercentage":"0"},
		"riskMetrics": {"beta":1.15,"sharpeRatio":1.42,"maxDrawdown":-12.5,"standardDeviation":18.3,"volatility":16.8}
	}`, w.Body.String())

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/portfolio", relianceRow).Code)

	w = do(r, http.MethodGet, "/api/portfolio/analysis", "")
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Portfolio []map[string]any  `json:"portfolio"`
		Summary   map[string]string `json:"summary"`
	}
	decode(t, w, &res)
	require.Len(t, res.Portfolio, 1)
	assert.Equal(t, "20000", res.Portfolio[0]["invested"])
	assert.Equal(t, "24567.5", res.Portfolio[0]["currentValue"])
	assert.Equal(t, "4567.5", res.Portfolio[0]["pnl"])
	assert.Equal(t, "4567.5", res.Summary["totalPnL"])

	w = do(r, http.MethodGet, "/api/portfolio/allocation", "")
	require.Equal(t, http.StatusOK, w.Code)
	var alloc []map[string]any
	decode(t, w, &alloc)
	require.Len(t, alloc, 1)
	assert.Equal(t, "Stock", alloc[0]["type"])
	assert.Equal(t, "100", alloc[0]["percentage"])
	assert.Equal(t, "#00d4aa", alloc[0]["color"])
}

func TestPerformance(t *testing.T) {
	r, _ := setupRouter(t)
	w := do(r, http.MethodGet, "/api/portfolio/performance", "")
	require.Equal(t, http.StatusOK, w.Code)
	var perf struct {
		Labels []string `json:"labels"`
		Values []string `json:"values"`
		Mock   bool     `json:"mock"`
	}
	decode(t, w, &perf)
	assert.Equal(t, []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}, perf.Labels)
	assert.Len(t, perf.Values, 6)
	assert.True(t, perf.Mock)
}

func TestExport(t *testing.T) {
	r, _ := setupRouter(t)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/portfolio", relianceRow).Code)

	w := do(r, http.MethodGet, "/api/portfolio/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "portfolio-analysis.csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "Name,Units,Buying Price,Purchase Date,Type,Current Value,P&L\n"))
	assert.Contains(t, w.Body.String(), "Reliance Industries,10,2000,2023-01-15,Stock,24567.5,4567.5")

	w = do(r, http.MethodGet, "/api/portfolio/export?format=xlsx", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "portfolio-analysis.xlsx")
	assert.NotZero(t, w.Body.Len())

	w = do(r, http.MethodGet, "/api/portfolio/export?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
