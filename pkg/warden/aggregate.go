package warden

import (
	"github.com/shopspring/decimal"
)

// CategoryBudgetsByType maps each category type to its category budgets in
// insertion order. All four buckets are always present.
type CategoryBudgetsByType map[CategoryType][]*CategoryBudget

// nonIncomeTypes are the allocation types that count against income.
var nonIncomeTypes = []CategoryType{
	CategoryTypeExpense,
	CategoryTypeSavings,
	CategoryTypeDebt,
}

// GroupByType partitions category budgets by their category type, preserving
// input order within each bucket. Entries with a missing category or an
// unrecognized type are skipped; they represent transient incomplete records
// from the backend, not errors.
func GroupByType(categoryBudgets []*CategoryBudget) CategoryBudgetsByType {
	grouped := CategoryBudgetsByType{}
	for _, t := range CategoryTypes {
		grouped[t] = []*CategoryBudget{}
	}

	for _, cb := range categoryBudgets {
		if cb == nil || cb.Category == nil {
			continue
		}
		t := cb.Category.Type
		if !t.Valid() {
			continue
		}
		grouped[t] = append(grouped[t], cb)
	}

	return grouped
}

// BudgetSummary holds the planned vs. actual aggregates for one budget.
type BudgetSummary struct {
	// TotalIncome is the sum of planned amounts in the INCOME bucket.
	TotalIncome decimal.Decimal

	// TotalPlanned is the sum of planned amounts across EXPENSE, SAVINGS
	// and DEBT.
	TotalPlanned decimal.Decimal

	// LeftToBudget is income minus planned. Negative signals
	// over-allocation and is not an error.
	LeftToBudget decimal.Decimal

	// Actual is the sum of server-derived current amounts across EXPENSE,
	// SAVINGS and DEBT.
	Actual decimal.Decimal
}

// Summarize computes the aggregates for grouped category budgets.
func Summarize(byType CategoryBudgetsByType) BudgetSummary {
	var summary BudgetSummary

	for _, cb := range byType[CategoryTypeIncome] {
		summary.TotalIncome = summary.TotalIncome.Add(cb.Amount)
	}

	for _, t := range nonIncomeTypes {
		for _, cb := range byType[t] {
			summary.TotalPlanned = summary.TotalPlanned.Add(cb.Amount)
			summary.Actual = summary.Actual.Add(cb.CurrentAmount)
		}
	}

	summary.LeftToBudget = summary.TotalIncome.Sub(summary.TotalPlanned)

	return summary
}

// SummarizeCategoryBudgets groups and summarizes in one step.
func SummarizeCategoryBudgets(categoryBudgets []*CategoryBudget) BudgetSummary {
	return Summarize(GroupByType(categoryBudgets))
}

// LeftToBudgetProgress is the planned share of income as a percentage. With
// zero income the result is NaN or infinite; callers render that as "no
// progress", never as an error.
func (s BudgetSummary) LeftToBudgetProgress() float64 {
	return s.TotalPlanned.InexactFloat64() / s.TotalIncome.InexactFloat64() * 100
}

// PlannedVsActualProgress is the actual share of income as a percentage,
// with the same NaN/Inf contract as LeftToBudgetProgress.
func (s BudgetSummary) PlannedVsActualProgress() float64 {
	return s.Actual.InexactFloat64() / s.TotalIncome.InexactFloat64() * 100
}

// Progress is a single category budget's actual-over-planned ratio. NaN when
// the planned amount is zero.
func Progress(cb *CategoryBudget) float64 {
	return cb.CurrentAmount.InexactFloat64() / cb.Amount.InexactFloat64()
}
