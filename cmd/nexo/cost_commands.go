package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/tyha2404/nexo-app/internal/core"
	"github.com/tyha2404/nexo-app/internal/report"
	"github.com/tyha2404/nexo-app/internal/services"
)

func (a *app) cmdCosts(ctx context.Context, args []string) error {
	if _, err := a.requireUser(ctx); err != nil {
		return err
	}
	if len(args) == 0 {
		return errors.New("costs: expected one of list|add|show|edit|rm")
	}

	switch sub, rest := args[0], args[1:]; sub {
	case "list":
		return a.costsList(ctx, rest)
	case "add":
		return a.costsAdd(ctx, rest)
	case "show":
		return a.costsShow(ctx, rest)
	case "edit":
		return a.costsEdit(ctx, rest)
	case "rm":
		return a.costsRemove(ctx, rest)
	default:
		return fmt.Errorf("costs: unknown subcommand %q", sub)
	}
}

func (a *app) costsList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("costs list", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	month := fs.String("month", "", "Month to list, as YYYY-MM (default: current)")
	search := fs.String("search", "", "Substring filter on title or category")
	category := fs.String("category", "", "Exact category id filter")
	sortBy := fs.String("sort", "date", "Sort field: date, amount, or title")
	order := fs.String("order", "desc", "Sort order: asc or desc")
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
		SortBy:     report.SortField(*sortBy),
		Order:      report.SortOrder(*order),
	})
	if err != nil {
		return err
	}
	if view.Count == 0 {
		fmt.Fprintln(a.stdout, "No expenses.")
		return nil
	}

	for _, c := range view.Costs {
		a.printCost(c)
	}
	currency := a.displayCurrency(view.Costs)
	fmt.Fprintf(a.stdout, "Total: %s (%d expenses)\n", core.FormatAmount(view.Total, currency), view.Count)
	return nil
}

func (a *app) costsAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("costs add", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	title := fs.String("title", "", "Expense description")
	amount := fs.Float64("amount", 0, "Amount spent")
	category := fs.String("category", "", "Category id")
	currency := fs.String("currency", a.cfg.DefaultCurrency, "Currency code")
	date := fs.String("date", "", "Date incurred, as YYYY-MM-DD (default: today)")
	budget := fs.Float64("budget", 0, "Optional monthly budget for the category, used for alerts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	incurredAt := time.Now()
	if *date != "" {
		parsed, err := time.Parse("2006-01-02", *date)
		if err != nil {
			return fmt.Errorf("costs add: invalid -date %q: %w", *date, err)
		}
		incurredAt = parsed
	}

	cost := core.Cost{
		Amount:     *amount,
		Title:      *title,
		CategoryID: *category,
		Currency:   *currency,
	}
	if err := cost.Validate(); err != nil {
		return fmt.Errorf("costs add: %w", err)
	}

	created, err := a.costs.Create(ctx, map[string]any{
		"amount":     *amount,
		"title":      *title,
		"categoryId": *category,
		"currency":   *currency,
		"incurredAt": incurredAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	if created == nil {
		return errors.New("costs add: server rejected the expense")
	}

	fmt.Fprintf(a.stdout, "Added %s - %s\n", created.Title, core.FormatAmount(created.Amount, created.Currency))

	if *budget > 0 {
		a.printBudgetAlert(ctx, created, incurredAt, *budget)
	}
	return nil
}

// printBudgetAlert reproduces the add-expense budget warning: the
// month's prior spend in the category plus the new amount, classified
// against the given budget. Alert failures never fail the add.
func (a *app) printBudgetAlert(ctx context.Context, created *core.Cost, incurredAt time.Time, budget float64) {
	view, err := a.browser.MonthView(ctx, services.MonthQuery{
		Month:      incurredAt,
		CategoryID: created.CategoryID,
	})
	if err != nil {
		a.logger.Warn("Budget check skipped", "error", err.Error())
		return
	}

	// The freshly created expense may already be in the fetched month.
	spent := view.Total
	for _, c := range view.Costs {
		if c.ID == created.ID {
			spent -= c.Amount
		}
	}

	check := report.CheckBudget(spent, budget, created.Amount)
	switch check.Level {
	case report.BudgetExceeded:
		fmt.Fprintf(a.stdout, "Budget exceeded! You are %s over budget.\n",
			core.FormatAmount(check.Overrun, created.Currency))
	case report.BudgetWarning:
		fmt.Fprintf(a.stdout, "Budget warning: %.1f%% of the budget used.\n", check.Percentage)
	}
}

func (a *app) costsShow(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("costs show: expected exactly one id")
	}

	cost, err := a.costs.GetByID(ctx, args[0])
	if err != nil {
		return err
	}
	if cost == nil {
		fmt.Fprintln(a.stdout, "Expense not found.")
		return nil
	}

	fmt.Fprintf(a.stdout, "ID:       %s\n", cost.ID)
	fmt.Fprintf(a.stdout, "Title:    %s\n", cost.Title)
	fmt.Fprintf(a.stdout, "Amount:   %s\n", core.FormatAmount(cost.Amount, cost.Currency))
	fmt.Fprintf(a.stdout, "Category: %s\n", categoryLabel(*cost))
	if cost.IncurredAt != nil {
		fmt.Fprintf(a.stdout, "Date:     %s\n", cost.IncurredAt.Format("2006-01-02"))
	}
	return nil
}

func (a *app) costsEdit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("costs edit", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	id := fs.String("id", "", "Expense id")
	title := fs.String("title", "", "New description")
	amount := fs.Float64("amount", 0, "New amount")
	category := fs.String("category", "", "New category id")
	currency := fs.String("currency", "", "New currency code")
	date := fs.String("date", "", "New date, as YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("costs edit: -id is required")
	}

	body := map[string]any{}
	if *title != "" {
		body["title"] = *title
	}
	if *amount > 0 {
		body["amount"] = *amount
	}
	if *category != "" {
		body["categoryId"] = *category
	}
	if *currency != "" {
		body["currency"] = *currency
	}
	if *date != "" {
		parsed, err := time.Parse("2006-01-02", *date)
		if err != nil {
			return fmt.Errorf("costs edit: invalid -date %q: %w", *date, err)
		}
		body["incurredAt"] = parsed.Format(time.RFC3339)
	}
	if len(body) == 0 {
		return errors.New("costs edit: nothing to change")
	}

	updated, err := a.costs.Update(ctx, *id, body)
	if err != nil {
		return err
	}
	if updated == nil {
		return errors.New("costs edit: server rejected the update")
	}

	fmt.Fprintf(a.stdout, "Updated %s - %s\n", updated.Title, core.FormatAmount(updated.Amount, updated.Currency))
	return nil
}

func (a *app) costsRemove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("costs rm: expected exactly one id")
	}

	if err := a.costs.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Expense deleted.")
	return nil
}

func (a *app) printCost(c core.Cost) {
	date := "          "
	if c.IncurredAt != nil {
		date = c.IncurredAt.Format("2006-01-02")
	}
	fmt.Fprintf(a.stdout, "%s  %-30s %-16s %s\n",
		date, c.Title, categoryLabel(c), core.FormatAmount(c.Amount, c.Currency))
}

// categoryLabel renders a cost's category, falling back to a friendly
// placeholder when the referenced category was not found.
func categoryLabel(c core.Cost) string {
	if name := c.CategoryName(); name != "" {
		return name
	}
	return "(no category)"
}

// displayCurrency picks the currency for totals. Mixed-currency months
// fall back to the configured default.
func (a *app) displayCurrency(costs []core.Cost) string {
	currency := ""
	for _, c := range costs {
		if currency == "" {
			currency = c.Currency
		} else if c.Currency != currency {
			return a.cfg.DefaultCurrency
		}
	}
	if currency == "" {
		return a.cfg.DefaultCurrency
	}
	return currency
}

func parseMonth(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	parsed, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -month %q, expected YYYY-MM: %w", s, err)
	}
	return parsed, nil
}
