package warden

import (
	"context"
	"sync"
)

// CategoryBudgetStore orchestrates category budget mutations and keeps the
// by-type grouping of the current budget's category budgets. Every successful
// mutation refreshes the budget tree first, so the UI never sees stale
// aggregates.
type CategoryBudgetStore struct {
	observable

	client  *Client
	budgets *BudgetStore

	mu              sync.Mutex
	categoryBudgets []*CategoryBudget
	byType          CategoryBudgetsByType
	loading         bool
}

// NewCategoryBudgetStore creates a category budget store. The budget store is
// the source it reconciles against after mutations.
func NewCategoryBudgetStore(client *Client, budgets *BudgetStore) *CategoryBudgetStore {
	return &CategoryBudgetStore{
		client:  client,
		budgets: budgets,
		byType:  GroupByType(nil),
	}
}

// CategoryBudgets returns a snapshot of the current budget's category budgets
func (s *CategoryBudgetStore) CategoryBudgets() []*CategoryBudget {
	s.mu.Lock()
	defer s.mu.Unlock()
	categoryBudgets := make([]*CategoryBudget, len(s.categoryBudgets))
	copy(categoryBudgets, s.categoryBudgets)
	return categoryBudgets
}

// ByType returns the grouping of the current budget's category budgets. The
// map is recomputed during reconcile, not on read.
func (s *CategoryBudgetStore) ByType() CategoryBudgetsByType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byType
}

// Summary returns the planned vs. actual aggregates for the current budget
func (s *CategoryBudgetStore) Summary() BudgetSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summarize(s.byType)
}

// IsLoading reports whether a mutation is in flight
func (s *CategoryBudgetStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Create creates a category budget and reconciles
func (s *CategoryBudgetStore) Create(ctx context.Context, params *CreateCategoryBudgetParams) error {
	return s.mutate(ctx, func(ctx context.Context) error {
		_, err := s.client.CategoryBudgets.Create(ctx, params)
		return err
	})
}

// Update updates a category budget and reconciles
func (s *CategoryBudgetStore) Update(ctx context.Context, params *UpdateCategoryBudgetParams) error {
	return s.mutate(ctx, func(ctx context.Context) error {
		_, err := s.client.CategoryBudgets.Update(ctx, params)
		return err
	})
}

// Delete deletes a category budget and reconciles
func (s *CategoryBudgetStore) Delete(ctx context.Context, categoryBudgetID int64) error {
	return s.mutate(ctx, func(ctx context.Context) error {
		return s.client.CategoryBudgets.Delete(ctx, categoryBudgetID)
	})
}

// mutate runs a guarded remote mutation followed by the reconcile sequence.
// The mutation must succeed before the budget refresh is issued, and the
// grouping is recomputed only from the refreshed current budget. On failure
// no local state changes.
func (s *CategoryBudgetStore) mutate(ctx context.Context, op func(context.Context) error) error {
	if s.client.Token() == "" {
		return nil
	}

	if !s.beginLoading() {
		return nil
	}
	defer s.endLoading()

	if err := op(ctx); err != nil {
		return err
	}

	if _, err := s.budgets.Refresh(ctx); err != nil {
		return err
	}

	s.Reconcile()
	return nil
}

// Reconcile recomputes the category budget collection and its grouping from
// the budget store's current budget. Exposed so callers that refresh the
// budget store directly can bring this store up to date.
func (s *CategoryBudgetStore) Reconcile() {
	var categoryBudgets []*CategoryBudget
	if current := s.budgets.CurrentBudget(); current != nil {
		categoryBudgets = current.CategoryBudgets
	}

	s.mu.Lock()
	s.categoryBudgets = categoryBudgets
	s.byType = GroupByType(categoryBudgets)
	s.mu.Unlock()
	s.notify()
}

func (s *CategoryBudgetStore) beginLoading() bool {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return false
	}
	s.loading = true
	s.mu.Unlock()
	s.notify()
	return true
}

func (s *CategoryBudgetStore) endLoading() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
	s.notify()
}
