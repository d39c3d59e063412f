package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/tyha2404/nexo-app/internal/core"
	"github.com/tyha2404/nexo-app/internal/report"
	"github.com/tyha2404/nexo-app/internal/services"
)

func (a *app) cmdReport(ctx context.Context, args []string) error {
	if _, err := a.requireUser(ctx); err != nil {
		return err
	}

	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	month := fs.String("month", "", "Month to report on, as YYYY-MM (default: current)")
	search := fs.String("search", "", "Substring filter on title or category")
	category := fs.String("category", "", "Exact category id filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	when, err := parseMonth(*month)
	if err != nil {
		return err
	}

	view, err := a.browser.MonthView(ctx, services.MonthQuery{
		Month:      when,
		Search:     *search,
		CategoryID: *category,
		SortBy:     report.SortByDate,
		Order:      report.Descending,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Expenses for %s\n\n", when.Format("January 2006"))
	if view.Count == 0 {
		fmt.Fprintln(a.stdout, "No expenses.")
		return nil
	}

	currency := a.displayCurrency(view.Costs)
	for _, group := range view.Groups {
		fmt.Fprintf(a.stdout, "%s - %s\n", group.Label, core.FormatAmount(group.Total, currency))
		for _, c := range group.Costs {
			fmt.Fprintf(a.stdout, "  %-30s %-16s %s\n",
				c.Title, categoryLabel(c), core.FormatAmount(c.Amount, c.Currency))
		}
		fmt.Fprintln(a.stdout)
	}

	undated := view.Count
	for _, group := range view.Groups {
		undated -= len(group.Costs)
	}
	if undated > 0 {
		fmt.Fprintf(a.stdout, "%d expenses without a date are not shown above.\n", undated)
	}

	fmt.Fprintf(a.stdout, "Total: %s (%d expenses)\n", core.FormatAmount(view.Total, currency), view.Count)
	return nil
}
