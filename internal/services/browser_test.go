package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyha2404/nexo-app/internal/api"
	"github.com/tyha2404/nexo-app/internal/core"
	"github.com/tyha2404/nexo-app/internal/report"
	"github.com/tyha2404/nexo-app/internal/session"
)

type fixture struct {
	browser       *ExpenseBrowser
	costRequests  *atomic.Int64
	catRequests   *atomic.Int64
	lastCostQuery *atomic.Value
}

func envelope(data any) []byte {
	out, _ := json.Marshal(map[string]any{"success": true, "data": data})
	return out
}

func page(items any, total int) map[string]any {
	return map[string]any{"items": items, "total": total, "page": 1, "perPage": 10}
}

func newFixture(t *testing.T, costs []core.Cost, categories []core.Category, costStatus int) fixture {
	t.Helper()

	f := fixture{
		costRequests:  &atomic.Int64{},
		catRequests:   &atomic.Int64{},
		lastCostQuery: &atomic.Value{},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case api.CostsPath:
			f.costRequests.Add(1)
			f.lastCostQuery.Store(r.URL.Query())
			if costStatus != 0 {
				w.WriteHeader(costStatus)
				return
			}
			w.Write(envelope(page(costs, len(costs))))
		case api.CategoriesPath:
			f.catRequests.Add(1)
			w.Write(envelope(page(categories, len(categories))))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	t.Cleanup(server.Close)

	store, err := session.NewStore(t.TempDir()+"/session.db", nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.SetToken(context.Background(), "tok"))

	transport, err := api.NewTransport(api.TransportOptions{BaseURL: server.URL, Session: store})
	require.NoError(t, err)

	f.browser = NewExpenseBrowser(
		api.NewCostClient(transport, nil),
		api.NewCategoryClient(transport, nil),
		nil,
	)
	return f
}

func august(day int) *time.Time {
	t := time.Date(2025, 8, day, 10, 0, 0, 0, time.UTC)
	return &t
}

func testData() ([]core.Cost, []core.Category) {
	categories := []core.Category{
		{ID: "food", Name: "Food & Dining"},
		{ID: "fun", Name: "Entertainment"},
	}
	costs := []core.Cost{
		{ID: "1", Title: "Lunch", Amount: 45000, CategoryID: "food", Currency: "VND", IncurredAt: august(12)},
		{ID: "2", Title: "Cinema", Amount: 120000, CategoryID: "fun", Currency: "VND", IncurredAt: august(14)},
		{ID: "3", Title: "Snack", Amount: 20000, CategoryID: "ghost", Currency: "VND", IncurredAt: august(12)},
		{ID: "4", Title: "Voucher", Amount: 10000, CategoryID: "fun", Currency: "VND"}, // no date
	}
	return costs, categories
}

func TestMonthViewJoinsAndDerives(t *testing.T) {
	costs, categories := testData()
	f := newFixture(t, costs, categories, 0)

	view, err := f.browser.MonthView(context.Background(), MonthQuery{
		Month: time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, view.Count)
	assert.Equal(t, float64(195000), view.Total)

	// Month scope travels as startDate/endDate filters.
	query := f.lastCostQuery.Load().(url.Values)
	assert.Equal(t, "2025-08-01", query.Get("startDate"))
	assert.Equal(t, "2025-08-31", query.Get("endDate"))

	// Categories are joined by id; the unresolvable one stays empty.
	byID := map[string]core.Cost{}
	for _, c := range view.Costs {
		byID[c.ID] = c
	}
	assert.Equal(t, "Food & Dining", byID["1"].CategoryName())
	assert.Equal(t, "Entertainment", byID["2"].CategoryName())
	assert.Empty(t, byID["3"].CategoryName())

	// Default ordering is date descending; the undated cost sorts last.
	assert.Equal(t, "4", view.Costs[len(view.Costs)-1].ID)

	// Day groups exclude the undated cost and come newest first.
	require.Len(t, view.Groups, 2)
	assert.Equal(t, 14, view.Groups[0].Day.Day())
	assert.Equal(t, 12, view.Groups[1].Day.Day())
	assert.Equal(t, float64(65000), view.Groups[1].Total)
}

func TestMonthViewFilters(t *testing.T) {
	costs, categories := testData()
	f := newFixture(t, costs, categories, 0)

	view, err := f.browser.MonthView(context.Background(), MonthQuery{
		Month:  time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		Search: "dining",
	})
	require.NoError(t, err)
	require.Equal(t, 1, view.Count)
	assert.Equal(t, "1", view.Costs[0].ID)

	view, err = f.browser.MonthView(context.Background(), MonthQuery{
		Month:      time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		CategoryID: "fun",
		SortBy:     report.SortByAmount,
		Order:      report.Ascending,
	})
	require.NoError(t, err)
	require.Equal(t, 2, view.Count)
	assert.Equal(t, "4", view.Costs[0].ID)
	assert.Equal(t, "2", view.Costs[1].ID)
}

func TestCategoryListIsCached(t *testing.T) {
	costs, categories := testData()
	f := newFixture(t, costs, categories, 0)
	ctx := context.Background()

	_, err := f.browser.MonthView(ctx, MonthQuery{Month: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	_, err = f.browser.MonthView(ctx, MonthQuery{Month: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	assert.Equal(t, int64(2), f.costRequests.Load(), "costs are refetched per view")
	assert.Equal(t, int64(1), f.catRequests.Load(), "categories are served from cache")

	f.browser.InvalidateCategories()
	_, err = f.browser.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.catRequests.Load(), "invalidation forces a refetch")
}

func TestMonthViewPropagatesFetchError(t *testing.T) {
	_, categories := testData()
	f := newFixture(t, nil, categories, http.StatusInternalServerError)

	_, err := f.browser.MonthView(context.Background(), MonthQuery{
		Month: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load month view")
}
