package warden

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// DefaultPerPage is the page size used before any viewport measurement.
const DefaultPerPage = 20

// TransactionStore orchestrates paginated, filtered transaction fetches and
// transaction mutations. Mutations cascade: the remote call must succeed,
// then the budget store refreshes (category actuals changed), then this store
// refreshes itself — strictly in that order, because the transaction fetch
// reads the current budget id the budget refresh may change.
type TransactionStore struct {
	observable

	client  *Client
	budgets *BudgetStore

	mu           sync.Mutex
	transactions []*Transaction
	page         int
	totalPages   int
	perPage      int
	filter       string
	loading      bool
	fetchSeq     uint64
}

// NewTransactionStore creates a transaction store bound to the budget store's
// current budget selection.
func NewTransactionStore(client *Client, budgets *BudgetStore) *TransactionStore {
	return &TransactionStore{
		client:     client,
		budgets:    budgets,
		perPage:    DefaultPerPage,
		totalPages: 1,
	}
}

// Transactions returns a snapshot of the current page
func (s *TransactionStore) Transactions() []*Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	transactions := make([]*Transaction, len(s.transactions))
	copy(transactions, s.transactions)
	return transactions
}

// Page returns the zero-based current page index
func (s *TransactionStore) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// TotalPages returns the page count for the current filter
func (s *TransactionStore) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPages
}

// PerPage returns the current page size
func (s *TransactionStore) PerPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.perPage
}

// Filter returns the current title filter
func (s *TransactionStore) Filter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// IsLoading reports whether a fetch or mutation is in flight
func (s *TransactionStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// SetViewportHeight recomputes the page size from the available vertical
// display space. The caller refreshes afterwards if a fetch is wanted.
func (s *TransactionStore) SetViewportHeight(height int) {
	s.mu.Lock()
	s.perPage = PerPageForHeight(height)
	s.mu.Unlock()
	s.notify()
}

// SetFilter replaces the title filter. The page resets to 0 because the
// filter change invalidates the current page position.
func (s *TransactionStore) SetFilter(ctx context.Context, filter string) error {
	s.mu.Lock()
	s.filter = filter
	s.page = 0
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// NextPage advances one page, clamped to the last page. At the boundary it is
// a no-op.
func (s *TransactionStore) NextPage(ctx context.Context) error {
	s.mu.Lock()
	if s.page >= s.totalPages-1 {
		s.mu.Unlock()
		return nil
	}
	s.page++
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// PrevPage goes back one page, clamped to page 0
func (s *TransactionStore) PrevPage(ctx context.Context) error {
	s.mu.Lock()
	if s.page <= 0 {
		s.mu.Unlock()
		return nil
	}
	s.page--
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// FetchTransactions performs a paginated, filtered fetch scoped to the
// current budget. Missing token or missing current budget yields an empty
// result, not an error: both are not-ready states during startup and
// navigation.
func (s *TransactionStore) FetchTransactions(ctx context.Context, limit, offset int, filter string) (*TransactionList, error) {
	if s.client.Token() == "" {
		return &TransactionList{Transactions: []*Transaction{}}, nil
	}

	current := s.budgets.CurrentBudget()
	if current == nil {
		return &TransactionList{Transactions: []*Transaction{}}, nil
	}

	list, err := s.client.Transactions.List(ctx, current.ID, limit, offset, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to refresh transactions")
	}

	return list, nil
}

// Refresh re-fetches the current page and recomputes the page count. A
// response that arrives after a newer fetch has started is dropped, so rapid
// page or filter changes cannot resurrect stale data.
func (s *TransactionStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.fetchSeq++
	seq := s.fetchSeq
	limit := s.perPage
	offset := s.page * s.perPage
	filter := s.filter
	s.mu.Unlock()
	s.notify()

	list, err := s.FetchTransactions(ctx, limit, offset, filter)

	s.mu.Lock()
	if seq != s.fetchSeq {
		// superseded by a newer fetch
		s.mu.Unlock()
		return nil
	}
	s.loading = false
	if err != nil {
		s.mu.Unlock()
		s.notify()
		return err
	}
	s.transactions = list.Transactions
	s.totalPages = TotalPages(list.Count, limit)
	if s.page > s.totalPages-1 {
		s.page = s.totalPages - 1
	}
	s.mu.Unlock()
	s.notify()

	return nil
}

// Create creates a transaction and runs the cascading refresh
func (s *TransactionStore) Create(ctx context.Context, params *CreateTransactionParams) error {
	return s.mutate(ctx, func(ctx context.Context) error {
		_, err := s.client.Transactions.Create(ctx, params)
		return err
	})
}

// Update updates a transaction and runs the cascading refresh
func (s *TransactionStore) Update(ctx context.Context, params *UpdateTransactionParams) error {
	return s.mutate(ctx, func(ctx context.Context) error {
		_, err := s.client.Transactions.Update(ctx, params)
		return err
	})
}

// Delete deletes a transaction and runs the cascading refresh
func (s *TransactionStore) Delete(ctx context.Context, transactionID int64) error {
	return s.mutate(ctx, func(ctx context.Context) error {
		return s.client.Transactions.Delete(ctx, transactionID)
	})
}

// mutate runs a guarded remote mutation followed by the cascading refresh.
// The loading flag doubles as a double-submission guard: a second tap while
// the first mutation is in flight is dropped.
func (s *TransactionStore) mutate(ctx context.Context, op func(context.Context) error) error {
	if s.client.Token() == "" {
		return nil
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.mu.Unlock()
	s.notify()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		s.notify()
	}()

	if err := op(ctx); err != nil {
		return err
	}

	if _, err := s.budgets.Refresh(ctx); err != nil {
		return err
	}

	return s.Refresh(ctx)
}
