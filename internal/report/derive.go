// Package report contains the pure derivations the expense and report
// screens render from: filtering, sorting, day grouping, and totals.
// Nothing in here performs I/O.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/tyha2404/nexo-app/internal/core"
)

type SortField string

const (
	SortByDate   SortField = "date"
	SortByAmount SortField = "amount"
	SortByTitle  SortField = "title"
)

type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// DayGroup is one calendar day's worth of costs with its subtotal.
type DayGroup struct {
	Day   time.Time
	Label string
	Costs []core.Cost
	Total float64
}

const dayLabelFormat = "Monday, January 2, 2006"

// Filter keeps costs whose title or category name contains the query
// (case-insensitive) and, when categoryID is set, whose category id
// matches exactly. Both conditions are conjunctive.
func Filter(costs []core.Cost, query, categoryID string) []core.Cost {
	filtered := make([]core.Cost, 0, len(costs))
	needle := strings.ToLower(strings.TrimSpace(query))

	for _, c := range costs {
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.Title), needle) &&
			!strings.Contains(strings.ToLower(c.CategoryName()), needle) {
			continue
		}
		if categoryID != "" && c.CategoryID != categoryID {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}

// Sort orders a copy of costs by the given field and direction. The sort
// is stable, so equal keys keep their incoming order; no explicit tie
// break is applied.
func Sort(costs []core.Cost, field SortField, order SortOrder) []core.Cost {
	sorted := make([]core.Cost, len(costs))
	copy(sorted, costs)

	less := func(a, b core.Cost) bool {
		switch field {
		case SortByAmount:
			return a.Amount < b.Amount
		case SortByTitle:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		default:
			return costTime(a).Before(costTime(b))
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if order == Descending {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted
}

// GroupByDay partitions costs by the calendar day of IncurredAt, newest
// day first. Costs with no IncurredAt are skipped entirely: they appear
// neither in a group nor in any group's subtotal.
func GroupByDay(costs []core.Cost) []DayGroup {
	byDay := make(map[time.Time]*DayGroup)

	for _, c := range costs {
		if c.IncurredAt == nil {
			continue
		}
		t := *c.IncurredAt
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())

		group, ok := byDay[day]
		if !ok {
			group = &DayGroup{
				Day:   day,
				Label: day.Format(dayLabelFormat),
			}
			byDay[day] = group
		}
		group.Costs = append(group.Costs, c)
		group.Total += c.Amount
	}

	groups := make([]DayGroup, 0, len(byDay))
	for _, g := range byDay {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Day.After(groups[j].Day)
	})
	return groups
}

// Total sums the amounts of the given costs.
func Total(costs []core.Cost) float64 {
	var sum float64
	for _, c := range costs {
		sum += c.Amount
	}
	return sum
}

func costTime(c core.Cost) time.Time {
	if c.IncurredAt == nil {
		return time.Time{}
	}
	return *c.IncurredAt
}
