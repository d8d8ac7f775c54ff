package warden

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTransactionStore(t *testing.T, mockTransport *MockTransport) (*BudgetStore, *TransactionStore) {
	t.Helper()

	client := newTestClient(mockTransport)
	budgets := NewBudgetStore(client)
	budgets.matcher.Now = fixedClock(2023, time.December, 10)
	store := NewTransactionStore(client, budgets)

	mockTransport.On("Do",
		mock.Anything, http.MethodGet, "/budgets",
		mock.Anything, mock.Anything, mock.Anything,
	).Return(decemberBudgetJSON, nil).Once()

	_, err := budgets.Refresh(context.Background())
	require.NoError(t, err)
	require.NotNil(t, budgets.CurrentBudget())

	return budgets, store
}

func TestTransactionStore_Refresh_ComputesTotalPages(t *testing.T) {
	mockTransport := new(MockTransport)
	_, store := setupTransactionStore(t, mockTransport)

	mockTransport.On("Do",
		mock.Anything, http.MethodGet, "/transactions/budget/1",
		mock.Anything, mock.Anything, mock.Anything,
	).Return(`{"transactions": [], "count": 47}`, nil)

	err := store.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, store.TotalPages())
	assert.Equal(t, 0, store.Page())
	assert.False(t, store.IsLoading())
}

func TestTransactionStore_NextPage_ClampsAtLastPage(t *testing.T) {
	mockTransport := new(MockTransport)
	_, store := setupTransactionStore(t, mockTransport)

	mockTransport.On("Do",
		mock.Anything, http.MethodGet, "/transactions/budget/1",
		mock.Anything, mock.Anything, mock.Anything,
	).Return(`{"transactions": [], "count": 47}`, nil)

	require.NoError(t, store.Refresh(context.Background()))
	require.Equal(t, 3, store.TotalPages())

	require.NoError(t, store.NextPage(context.Background()))
	assert.Equal(t, 1, store.Page())

	require.NoError(t, store.NextPage(context.Background()))
	assert.Equal(t, 2, store.Page())

	// Zero-indexed max is 2; further advances are no-ops.
	require.NoError(t, store.NextPage(context.Background()))
	assert.Equal(t, 2, store.Page())

	require.NoError(t, store.NextPage(context.Background()))
	assert.Equal(t, 2, store.Page())
}

func TestTransactionStore_PrevPage_ClampsAtZero(t *testing.T) {
	mockTransport := new(MockTransport)
	_, store := setupTransactionStore(t, mockTransport)

	require.NoError(t, store.PrevPage(context.Background()))
	assert.Equal(t, 0, store.Page())
	mockTransport.AssertNotCalled(t, "Do", mock.Anything, http.MethodGet, "/transactions/budget/1", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransactionStore_SetFilter_ResetsPage(t *testing.T) {
	mockTransport := new(MockTransport)
	_, store := setupTransactionStore(t, mockTransport)

	mockTransport.On("Do",
		mock.Anything, http.MethodGet, "/transactions/budget/1",
		mock.Anything, mock.Anything, mock.Anything,
	).Return(`{"transactions": [], "count": 47}`, nil)

	require.NoError(t, store.Refresh(context.Background()))
	require.NoError(t, store.NextPage(context.Background()))
	require.Equal(t, 1, store.Page())

	err := store.SetFilter(context.Background(), "rent")

	require.NoError(t, err)
	assert.Equal(t, 0, store.Page(), "filter change invalidates the page position")
	assert.Equal(t, "rent", store.Filter())
}

func TestTransactionStore_Refresh_SendsFilterAndOffset(t *testing.T) {
	mockTransport := new(MockTransport)
	_, store := setupTransactionStore(t, mockTransport)

	mockTransport.On("Do",
		mock.Anything, http.MethodGet, "/transactions/budget/1",
		mock.MatchedBy(func(query url.Values) bool {
			return query.Get("limit") == "20" && query.Get("offset") == "0" && query.Get("filter") == "rent"
		}),
		mock.Anything, mock.Anything,
	).Return(`{"transactions": [], "count": 2}`, nil)

	err := store.SetFilter(context.Background(), "rent")

	require.NoError(t, err)
	mockTransport.AssertExpectations(t)
}

func TestTransactionStore_NoCurrentBudgetFetchesNothing(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)
	budgets := NewBudgetStore(client)
	store := NewTransactionStore(client, budgets)

	err := store.Refresh(context.Background())

	require.NoError(t, err)
	assert.Empty(t, store.Transactions())
	assert.Equal(t, 1, store.TotalPages())
	mockTransport.AssertNotCalled(t, "Do", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransactionStore_NoTokenMutationIsNoOp(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newUnauthenticatedClient(mockTransport)
	budgets := NewBudgetStore(client)
	store := NewTransactionStore(client, budgets)

	err := store.Create(context.Background(), &CreateTransactionParams{
		Title:            "Coffee",
		Date:             NewDate(2024, time.March),
		Amount:           decimal.NewFromInt(5),
		CategoryBudgetID: 11,
	})

	require.NoError(t, err)
	mockTransport.AssertNotCalled(t, "Do", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransactionStore_Create_CascadeRefreshesServerAggregates(t *testing.T) {
	// Creating a 150 transaction against an EXPENSE category budget with a
	// prior currentAmount of 300: after the mandated cascade the category
	// budget reflects the server-recomputed 450 and the page is refetched.
	mockTransport := new(MockTransport)
	budgets, store := setupTransactionStore(t, mockTransport)

	require.True(t, decimal.NewFromInt(300).Equal(budgets.CurrentBudget().CategoryBudgets[1].CurrentAmount))

	mockTransport.On("Do",
		mock.Anything, http.MethodPost, "/transactions",
		mock.Anything, mock.Anything, mock.Anything,
	).Return(`{"transaction": {"id": 500, "title": "Dinner", "date": "2023-12-09", "amount": "150", "categoryBudget": {"id": 11}}}`, nil)

	mockTransport.On("Do",
		mock.Anything, http.MethodGet, "/budgets",
		mock.Anything, mock.Anything, mock.Anything,
	).Return(`{
		"budgets": [
			{
				"id": 1,
				"month": "2023-12-01",
				"categoryBudgets": [
					{"id": 10, "amount": "5000", "currentAmount": "5000", "category": {"id": 100, "title": "Salary", "type": "INCOME"}},
					{"id": 11, "amount": "2000", "currentAmount": "450", "category": {"id": 101, "title": "Groceries", "type": "EXPENSE"}}
				]
			}
		]
	}`, nil)

	mockTransport.On("Do",
		mock.Anything, http.MethodGet, "/transactions/budget/1",
		mock.Anything, mock.Anything, mock.Anything,
	).Return(`{"transactions": [{"id": 500, "title": "Dinner", "date": "2023-12-09", "amount": "150", "categoryBudget": {"id": 11}}], "count": 1}`, nil)

	err := store.Create(context.Background(), &CreateTransactionParams{
		Title:            "Dinner",
		Date:             NewDate(2023, time.December),
		Amount:           decimal.NewFromInt(150),
		CategoryBudgetID: 11,
	})

	require.NoError(t, err)

	refreshed := budgets.CurrentBudget().CategoryBudgets[1]
	assert.True(t, decimal.NewFromInt(450).Equal(refreshed.CurrentAmount),
		"currentAmount trusts the server aggregate, up by 150")

	transactions := store.Transactions()
	require.Len(t, transactions, 1)
	assert.Equal(t, "Dinner", transactions[0].Title)
	assert.False(t, store.IsLoading())
}

func TestTransactionStore_SetViewportHeight(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)
	store := NewTransactionStore(client, NewBudgetStore(client))

	store.SetViewportHeight(800)
	assert.Equal(t, 5, store.PerPage())

	store.SetViewportHeight(1200)
	assert.Equal(t, 11, store.PerPage())
}

func TestTransactionStore_StaleResponseIsDropped(t *testing.T) {
	mockTransport := new(MockTransport)
	_, store := setupTransactionStore(t, mockTransport)

	// Simulate a newer fetch starting while an older response is pending:
	// bump the sequence between snapshot and completion.
	mockTransport.On("Do",
		mock.Anything, http.MethodGet, "/transactions/budget/1",
		mock.Anything, mock.Anything, mock.Anything,
	).Run(func(args mock.Arguments) {
		store.mu.Lock()
		store.fetchSeq++
		store.mu.Unlock()
	}).Return(`{"transactions": [{"id": 1, "title": "Stale", "date": "2023-12-01", "amount": "1", "categoryBudget": {"id": 11}}], "count": 99}`, nil).Once()

	err := store.Refresh(context.Background())

	require.NoError(t, err)
	assert.Empty(t, store.Transactions(), "superseded response must not land")
	assert.Equal(t, 1, store.TotalPages())
}
