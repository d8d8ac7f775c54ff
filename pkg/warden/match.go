package warden

import (
	"sort"
	"time"
)

// BudgetMatcher selects which budget should be treated as current for a given
// reference date. Now is injectable for deterministic tests and defaults to
// time.Now.
type BudgetMatcher struct {
	Now func() time.Time
}

// NewBudgetMatcher creates a matcher using the real clock
func NewBudgetMatcher() *BudgetMatcher {
	return &BudgetMatcher{Now: time.Now}
}

// FindClosestBudgetDate returns the budget whose month is closest to the
// reference date, using the real clock for the exact-month rule. Returns nil
// for an empty list.
func FindClosestBudgetDate(reference time.Time, budgets []*Budget) *Budget {
	return NewBudgetMatcher().Closest(reference, budgets)
}

// Closest selects a budget for the reference date.
//
// A budget whose month index equals the current real-world month wins
// outright, regardless of the reference. This favors "this calendar month"
// over strict distance when the user is looking at the present. Otherwise
// budgets are ranked by absolute elapsed time between their month start and
// the reference, so a December budget from last year loses to a January
// budget from next year against a June reference. Ties keep list order.
func (m *BudgetMatcher) Closest(reference time.Time, budgets []*Budget) *Budget {
	if len(budgets) == 0 {
		return nil
	}

	now := time.Now
	if m.Now != nil {
		now = m.Now
	}

	currentMonth := now().Month()
	for _, budget := range budgets {
		if budget.Month.Month() == currentMonth {
			return budget
		}
	}

	sorted := make([]*Budget, len(budgets))
	copy(sorted, budgets)

	sort.SliceStable(sorted, func(i, j int) bool {
		return monthDistance(sorted[i], reference) < monthDistance(sorted[j], reference)
	})

	return sorted[0]
}

// monthDistance is the absolute elapsed time between the budget's month start
// and the reference date.
func monthDistance(budget *Budget, reference time.Time) time.Duration {
	d := budget.Month.MonthStart().Sub(reference)
	if d < 0 {
		d = -d
	}
	return d
}
