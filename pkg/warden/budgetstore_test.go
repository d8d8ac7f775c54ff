package warden

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUnauthenticatedClient(t *MockTransport) *Client {
	client := &Client{
		transport: t,
		options:   &ClientOptions{},
		baseURL:   "https://api.test.com",
	}
	client.initServices()
	return client
}

const budgetListJanFeb = `{
	"budgets": [
		{"id": 1, "month": "2024-01-01", "categoryBudgets": []},
		{"id": 2, "month": "2024-02-01", "categoryBudgets": []}
	]
}`

func TestBudgetStore_Refresh_NoTokenIsNoOp(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newUnauthenticatedClient(mockTransport)
	store := NewBudgetStore(client)

	budgets, err := store.Refresh(context.Background())

	require.NoError(t, err)
	assert.Empty(t, budgets)
	assert.Nil(t, store.CurrentBudget())
	mockTransport.AssertNotCalled(t, "Do", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBudgetStore_Refresh_SelectsCurrentViaMatcher(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)
	store := NewBudgetStore(client)
	store.matcher.Now = fixedClock(2024, time.February, 10)

	mockTransport.On("Do",
		mock.Anything, http.MethodGet, "/budgets",
		mock.Anything, mock.Anything, mock.Anything,
	).Return(budgetListJanFeb, nil)

	budgets, err := store.Refresh(context.Background())

	require.NoError(t, err)
	assert.Len(t, budgets, 2)
	require.NotNil(t, store.CurrentBudget())
	assert.Equal(t, int64(2), store.CurrentBudget().ID, "exact current month wins")
	assert.False(t, store.IsLoading())
}

func TestBudgetStore_Refresh_IsIdempotentOnCurrentSelection(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)
	store := NewBudgetStore(client)
	store.matcher.Now = fixedClock(2024, time.January, 10)

	mockTransport.On("Do",
		mock.Anything, http.MethodGet, "/budgets",
		mock.Anything, mock.Anything, mock.Anything,
	).Return(budgetListJanFeb, nil)

	_, err := store.Refresh(context.Background())
	require.NoError(t, err)
	first := store.CurrentBudget().ID

	_, err = store.Refresh(context.Background())
	require.NoError(t, err)
	second := store.CurrentBudget().ID

	assert.Equal(t, first, second)
}

func TestBudgetStore_Refresh_KeepsExplicitSelectionById(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)
	store := NewBudgetStore(client)
	store.matcher.Now = fixedClock(2024, time.February, 10)

	mockTransport.On("Do",
		mock.Anything, http.MethodGet, "/budgets",
		mock.Anything, mock.Anything, mock.Anything,
	).Return(budgetListJanFeb, nil)

	_, err := store.Refresh(context.Background())
	require.NoError(t, err)

	// The user switches to January; the next refresh must not bounce the
	// selection back to February.
	store.SetCurrentBudget(store.Budgets()[0])

	_, err = store.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), store.CurrentBudget().ID)
}

func TestBudgetStore_Refresh_FailureLeavesStateUntouched(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)
	store := NewBudgetStore(client)
	store.matcher.Now = fixedClock(2024, time.February, 10)

	mockTransport.On("Do",
		mock.Anything, http.MethodGet, "/budgets",
		mock.Anything, mock.Anything, mock.Anything,
	).Return(budgetListJanFeb, nil).Once()

	_, err := store.Refresh(context.Background())
	require.NoError(t, err)

	mockTransport.On("Do",
		mock.Anything, http.MethodGet, "/budgets",
		mock.Anything, mock.Anything, mock.Anything,
	).Return(nil, errors.New("connection reset"))

	_, err = store.Refresh(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to refresh budgets")
	assert.Len(t, store.Budgets(), 2, "prior list survives a failed refresh")
	assert.Equal(t, int64(2), store.CurrentBudget().ID)
	assert.False(t, store.IsLoading(), "loading flag cleared on failure")
}

func TestBudgetStore_Create_SelectsNewBudget(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)
	store := NewBudgetStore(client)
	store.matcher.Now = fixedClock(2024, time.January, 10)

	mockTransport.On("Do",
		mock.Anything, http.MethodGet, "/budgets",
		mock.Anything, mock.Anything, mock.Anything,
	).Return(budgetListJanFeb, nil).Once()

	_, err := store.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), store.CurrentBudget().ID)

	mockTransport.On("Do",
		mock.Anything, http.MethodPost, "/budgets",
		mock.Anything, mock.Anything, mock.Anything,
	).Return(`{"budget": {"id": 3, "month": "2024-03-01", "categoryBudgets": []}}`, nil)

	mockTransport.On("Do",
		mock.Anything, http.MethodGet, "/budgets",
		mock.Anything, mock.Anything, mock.Anything,
	).Return(`{
		"budgets": [
			{"id": 1, "month": "2024-01-01", "categoryBudgets": []},
			{"id": 2, "month": "2024-02-01", "categoryBudgets": []},
			{"id": 3, "month": "2024-03-01", "categoryBudgets": []}
		]
	}`, nil)

	err = store.Create(context.Background(), &CreateBudgetParams{Month: NewDate(2024, time.March)})

	require.NoError(t, err)
	require.NotNil(t, store.CurrentBudget())
	assert.Equal(t, int64(3), store.CurrentBudget().ID, "creation selects the new budget")
	assert.Len(t, store.Budgets(), 3)
}

func TestBudgetStore_Delete_RederivesCurrent(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)
	store := NewBudgetStore(client)
	store.matcher.Now = fixedClock(2024, time.February, 10)

	mockTransport.On("Do",
		mock.Anything, http.MethodGet, "/budgets",
		mock.Anything, mock.Anything, mock.Anything,
	).Return(budgetListJanFeb, nil).Once()

	_, err := store.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), store.CurrentBudget().ID)

	mockTransport.On("Do",
		mock.Anything, http.MethodDelete, "/budgets/2",
		mock.Anything, mock.Anything, mock.Anything,
	).Return(nil, nil)

	mockTransport.On("Do",
		mock.Anything, http.MethodGet, "/budgets",
		mock.Anything, mock.Anything, mock.Anything,
	).Return(`{"budgets": [{"id": 1, "month": "2024-01-01", "categoryBudgets": []}]}`, nil)

	err = store.Delete(context.Background(), 2)

	require.NoError(t, err)
	require.NotNil(t, store.CurrentBudget())
	assert.Equal(t, int64(1), store.CurrentBudget().ID, "deleted current falls back to the matcher")
}

func TestBudgetStore_BudgetExistsForMonth(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)
	store := NewBudgetStore(client)
	store.matcher.Now = fixedClock(2024, time.January, 10)

	mockTransport.On("Do",
		mock.Anything, http.MethodGet, "/budgets",
		mock.Anything, mock.Anything, mock.Anything,
	).Return(budgetListJanFeb, nil)

	_, err := store.Refresh(context.Background())
	require.NoError(t, err)

	assert.True(t, store.BudgetExistsForMonth(time.January))
	assert.True(t, store.BudgetExistsForMonth(time.February))
	assert.False(t, store.BudgetExistsForMonth(time.March))
}

func TestBudgetStore_NotifiesObservers(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)
	store := NewBudgetStore(client)
	store.matcher.Now = fixedClock(2024, time.January, 10)

	notified := 0
	store.Subscribe(func() { notified++ })

	mockTransport.On("Do",
		mock.Anything, http.MethodGet, "/budgets",
		mock.Anything, mock.Anything, mock.Anything,
	).Return(budgetListJanFeb, nil)

	_, err := store.Refresh(context.Background())
	require.NoError(t, err)

	assert.Greater(t, notified, 0)
}
