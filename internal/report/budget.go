package report

type BudgetLevel string

const (
	BudgetOK       BudgetLevel = "ok"
	BudgetWarning  BudgetLevel = "warning"
	BudgetExceeded BudgetLevel = "exceeded"
)

// Warning at 80% of budget, exceeded at 100%. Both bounds inclusive.
const (
	warningThresholdPct  = 80.0
	exceededThresholdPct = 100.0
)

// BudgetCheck classifies the effect of adding an amount against a
// category's budget.
type BudgetCheck struct {
	// Percentage of the budget consumed after the new amount.
	Percentage float64
	Level      BudgetLevel
	// Overrun is how far past the budget the spend lands; zero unless
	// the budget is exceeded.
	Overrun float64
}

// CheckBudget computes the budget consumption a prospective amount
// would cause on top of what is already spent. A non-positive budget
// means no budget is configured and never alerts.
func CheckBudget(spent, budget, amount float64) BudgetCheck {
	if budget <= 0 {
		return BudgetCheck{Level: BudgetOK}
	}

	newSpent := spent + amount
	pct := newSpent / budget * 100

	check := BudgetCheck{Percentage: pct, Level: BudgetOK}
	switch {
	case pct >= exceededThresholdPct:
		check.Level = BudgetExceeded
		check.Overrun = newSpent - budget
	case pct >= warningThresholdPct:
		check.Level = BudgetWarning
	}
	return check
}
