package warden

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// BudgetStore holds the budget list and the currently selected budget. It is
// the source of truth for the current budget's nested category budgets;
// dependent stores recompute their derived views from it after every refresh.
type BudgetStore struct {
	observable

	client  *Client
	matcher *BudgetMatcher

	mu      sync.Mutex
	budgets []*Budget
	current *Budget
	loading bool
}

// NewBudgetStore creates a budget store backed by the given client
func NewBudgetStore(client *Client) *BudgetStore {
	return &BudgetStore{
		client:  client,
		matcher: NewBudgetMatcher(),
	}
}

// Budgets returns a snapshot of the budget list
func (s *BudgetStore) Budgets() []*Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	budgets := make([]*Budget, len(s.budgets))
	copy(budgets, s.budgets)
	return budgets
}

// CurrentBudget returns the currently selected budget, or nil
func (s *BudgetStore) CurrentBudget() *Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// IsLoading reports whether a refresh or mutation is in flight
func (s *BudgetStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// SetCurrentBudget switches the active period. Passing nil clears the
// selection.
func (s *BudgetStore) SetCurrentBudget(budget *Budget) {
	s.mu.Lock()
	s.current = budget
	s.mu.Unlock()
	s.notify()
}

// BudgetExistsForMonth reports whether any budget has the given month index,
// ignoring year. The creation screen uses it to block duplicate same-month
// budgets within the visible window.
func (s *BudgetStore) BudgetExistsForMonth(month time.Month) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, budget := range s.budgets {
		if budget.Month.Month() == month {
			return true
		}
	}
	return false
}

// Refresh fetches the full budget list and re-derives the current budget
// selection. Without a token it is a no-op returning an empty list: during
// app startup that is a not-ready state, not a failure. A refresh fired while
// one is already in flight returns the current snapshot.
func (s *BudgetStore) Refresh(ctx context.Context) ([]*Budget, error) {
	if s.client.Token() == "" {
		return []*Budget{}, nil
	}

	if !s.beginLoading() {
		return s.Budgets(), nil
	}
	defer s.endLoading()

	return s.load(ctx)
}

// Create submits a budget creation request and, on success, refreshes the
// list and selects the newly created budget.
func (s *BudgetStore) Create(ctx context.Context, params *CreateBudgetParams) error {
	if s.client.Token() == "" {
		return nil
	}

	if !s.beginLoading() {
		return nil
	}
	defer s.endLoading()

	created, err := s.client.Budgets.Create(ctx, params)
	if err != nil {
		return err
	}

	budgets, err := s.load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	for _, budget := range budgets {
		if budget.ID == created.ID {
			s.current = budget
			break
		}
	}
	s.mu.Unlock()
	s.notify()

	return nil
}

// Delete removes a budget and refreshes. If the deleted budget was current,
// the re-derivation picks a new one.
func (s *BudgetStore) Delete(ctx context.Context, budgetID int64) error {
	if s.client.Token() == "" {
		return nil
	}

	if !s.beginLoading() {
		return nil
	}
	defer s.endLoading()

	if err := s.client.Budgets.Delete(ctx, budgetID); err != nil {
		return err
	}

	_, err := s.load(ctx)
	return err
}

// load fetches the list, replaces state and re-derives the current budget.
// Callers handle guards and the loading flag. On failure prior state stays
// untouched.
func (s *BudgetStore) load(ctx context.Context) ([]*Budget, error) {
	budgets, err := s.client.Budgets.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to refresh budgets")
	}

	s.mu.Lock()
	s.budgets = budgets
	s.current = s.rederiveCurrent(budgets)
	s.mu.Unlock()
	s.notify()

	return budgets, nil
}

// rederiveCurrent keeps the previously current budget (matched by id, with
// fresh data) when it survived the refresh, otherwise asks the matcher.
// Called with s.mu held.
func (s *BudgetStore) rederiveCurrent(budgets []*Budget) *Budget {
	if s.current != nil {
		for _, budget := range budgets {
			if budget.ID == s.current.ID {
				return budget
			}
		}
	}
	return s.matcher.Closest(s.referenceTime(), budgets)
}

func (s *BudgetStore) referenceTime() time.Time {
	if s.matcher.Now != nil {
		return s.matcher.Now()
	}
	return time.Now()
}

func (s *BudgetStore) beginLoading() bool {
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

func (s *BudgetStore) endLoading() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
	s.notify()
}
