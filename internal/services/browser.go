// Package services composes the domain resource clients into the
// higher-level operations the CLI screens render.
package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tyha2404/nexo-app/internal/api"
	"github.com/tyha2404/nexo-app/internal/cache"
	"github.com/tyha2404/nexo-app/internal/core"
	"github.com/tyha2404/nexo-app/internal/log"
	"github.com/tyha2404/nexo-app/internal/report"
)

const (
	categoryCacheKey = "categories"
	categoryCacheTTL = 5 * time.Minute
)

// ExpenseBrowser joins costs with their categories and derives the
// month view the expenses screen displays.
type ExpenseBrowser struct {
	costs         *api.Resource[core.Cost]
	categories    *api.Resource[core.Category]
	categoryCache *cache.LRUCache[[]core.Category]
	logger        *log.Logger
}

func NewExpenseBrowser(costs *api.Resource[core.Cost], categories *api.Resource[core.Category], logger *log.Logger) *ExpenseBrowser {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentBrowser)
	}
	return &ExpenseBrowser{
		costs:         costs,
		categories:    categories,
		categoryCache: cache.NewLRUCache[[]core.Category](1, categoryCacheTTL),
		logger:        logger,
	}
}

// MonthQuery selects and shapes one month of expenses.
type MonthQuery struct {
	// Month picks the calendar month; any instant within it will do.
	Month time.Time

	// Search is a case-insensitive substring match on title or
	// category name. CategoryID is an exact filter. Both conjunctive.
	Search     string
	CategoryID string

	SortBy report.SortField
	Order  report.SortOrder
}

// MonthView is the display-ready reduction of one month of expenses.
type MonthView struct {
	Costs  []core.Cost
	Groups []report.DayGroup
	Total  float64
	Count  int
}

// Categories returns the category list, served from cache while fresh.
func (b *ExpenseBrowser) Categories(ctx context.Context) ([]core.Category, error) {
	if cached, ok := b.categoryCache.Get(categoryCacheKey); ok {
		return cached, nil
	}

	page, err := b.categories.GetAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	b.categoryCache.Set(categoryCacheKey, page.Items)
	return page.Items, nil
}

// InvalidateCategories drops the cached list. Call after creating,
// updating, or deleting a category.
func (b *ExpenseBrowser) InvalidateCategories() {
	b.categoryCache.Delete(categoryCacheKey)
}

// MonthView fetches the month's costs and the category list
// concurrently, joins categories onto costs, then filters, sorts,
// groups by day, and totals the result.
func (b *ExpenseBrowser) MonthView(ctx context.Context, q MonthQuery) (MonthView, error) {
	month := q.Month
	if month.IsZero() {
		month = time.Now()
	}
	startDate, endDate := core.MonthRange(month)

	var (
		costsPage  api.Page[core.Cost]
		categories []core.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		costsPage, err = b.costs.GetAll(gctx, map[string]string{
			"startDate": startDate,
			"endDate":   endDate,
		})
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = b.Categories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return MonthView{}, fmt.Errorf("load month view: %w", err)
	}

	joined := joinCategories(costsPage.Items, categories)
	filtered := report.Filter(joined, q.Search, q.CategoryID)

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = report.SortByDate
	}
	order := q.Order
	if order == "" {
		order = report.Descending
	}
	sorted := report.Sort(filtered, sortBy, order)

	b.logger.DebugContext(ctx, "Month view derived",
		log.FieldYear, month.Year(),
		log.FieldMonth, int(month.Month()),
		"costs", len(sorted))

	return MonthView{
		Costs:  sorted,
		Groups: report.GroupByDay(sorted),
		Total:  report.Total(sorted),
		Count:  len(sorted),
	}, nil
}

// joinCategories resolves each cost's category by id. A cost whose
// category cannot be found keeps a zero Category and renders as
// "no category"; it is never an error.
func joinCategories(costs []core.Cost, categories []core.Category) []core.Cost {
	byID := make(map[string]core.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	joined := make([]core.Cost, len(costs))
	for i, c := range costs {
		if c.Category.Name == "" {
			if cat, ok := byID[c.CategoryID]; ok {
				c.Category = cat
			}
		}
		joined[i] = c
	}
	return joined
}
