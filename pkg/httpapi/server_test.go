package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"coffeemachine/pkg/cash"
	"coffeemachine/pkg/journal"
	"coffeemachine/pkg/machine"
	"coffeemachine/pkg/metrics"
	"coffeemachine/pkg/recipe"
	"coffeemachine/pkg/supply"
)

func newHandler(t *testing.T, water, milk, beans, cups, money int) http.Handler {
	t.Helper()
	store, err := supply.New(water, milk, beans, cups)
	require.NoError(t, err)
	ledger, err := cash.New(money)
	require.NoError(t, err)
	rec := metrics.New()
	svc := machine.NewService(machine.New(store, ledger), journal.New(0), rec, zaptest.NewLogger(t))
	t.Cleanup(svc.Close)
	return New(svc, recipe.DefaultCatalog(), rec.Handler(), zaptest.NewLogger(t)).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestBuy_sold(t *testing.T) {
	h := newHandler(t, 400, 540, 120, 9, 550)

	rec := do(t, h, http.MethodPost, "/api/buy", `{"recipe":"espresso"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[outcomeResponse](t, rec)
	assert.Equal(t, "sold", resp.Outcome)
	assert.Equal(t, 4, resp.Recipe.Price)

	st := decode[machine.Status](t, do(t, h, http.MethodGet, "/api/remaining", ""))
	assert.Equal(t, supply.Levels{Water: 150, Milk: 540, CoffeeBeans: 104, DisposableCups: 8}, st.Levels)
	assert.Equal(t, 554, st.Balance)
}

func TestBuy_rejected(t *testing.T) {
	h := newHandler(t, 100, 100, 100, 10, 0)

	rec := do(t, h, http.MethodPost, "/api/buy", `{"recipe":"2"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[outcomeResponse](t, rec)
	assert.Equal(t, "rejected", resp.Outcome)
	assert.Equal(t, "water", resp.Missing)
	assert.Equal(t, "Sorry, not enough water!", resp.Message)
}

func TestBuy_badRequests(t *testing.T) {
	h := newHandler(t, 400, 540, 120, 9, 550)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/buy", `{"recipe":"mocha"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/buy", `not json`).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/api/buy", "").Code)
}

func TestFill(t *testing.T) {
	h := newHandler(t, 0, 0, 0, 0, 0)

	rec := do(t, h, http.MethodPost, "/api/fill", `{"water":1000,"milk":300,"coffee_beans":100,"disposable_cups":10}`)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[machine.Status](t, rec)
	assert.Equal(t, supply.Levels{Water: 1000, Milk: 300, CoffeeBeans: 100, DisposableCups: 10}, st.Levels)

	rec = do(t, h, http.MethodPost, "/api/fill", `{"water":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "water cannot be negative")
}

func TestTakeAndClean(t *testing.T) {
	h := newHandler(t, 0, 0, 0, 0, 550)

	rec := do(t, h, http.MethodPost, "/api/take", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]int{"amount": 550}, decode[map[string]int](t, rec))

	rec = do(t, h, http.MethodPost, "/api/take", "")
	assert.Equal(t, map[string]int{"amount": 0}, decode[map[string]int](t, rec))

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodPost, "/api/clean", "").Code)
}

func TestRecipes_includeCapacity(t *testing.T) {
	h := newHandler(t, 1000, 300, 100, 10, 0)

	rec := do(t, h, http.MethodGet, "/api/recipes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[[]recipeResponse](t, rec)
	require.Len(t, resp, 3)
	assert.Equal(t, "latte", resp[1].Recipe.Name)
	assert.Equal(t, 2, resp[1].MaxCups)
}

func TestSalesAndMetrics(t *testing.T) {
	h := newHandler(t, 400, 540, 120, 9, 550)
	do(t, h, http.MethodPost, "/api/buy", `{"recipe":"espresso"}`)
	do(t, h, http.MethodPost, "/api/buy", `{"recipe":"latte"}`)

	resp := decode[salesResponse](t, do(t, h, http.MethodGet, "/api/sales", ""))
	assert.Equal(t, journal.Summary{Attempts: 2, Sold: 1, Revenue: 4}, resp.Summary)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "latte", resp.Entries[0].Recipe)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `coffeemachine_sales_attempts_total{outcome="rejected",recipe="latte"} 1`)
	assert.Contains(t, rec.Body.String(), `coffeemachine_cash_balance_dollars 554`)
}

func TestFill_overflowIsBadRequest(t *testing.T) {
	h := newHandler(t, 1, 0, 0, 0, 0)

	rec := do(t, h, http.MethodPost, "/api/fill", `{"water":9223372036854775807}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "water would overflow")
	st := decode[machine.Status](t, do(t, h, http.MethodGet, "/api/remaining", ""))
	assert.Equal(t, 1, st.Levels.Water)
}
