package warden

import (
	"context"
)

// BudgetService handles all budget-related operations
type BudgetService interface {
	// List retrieves all budgets for the authenticated user
	List(ctx context.Context) ([]*Budget, error)

	// Create creates a new budget, optionally copying category budgets
	// from an existing one
	Create(ctx context.Context, params *CreateBudgetParams) (*Budget, error)

	// Delete deletes a budget; the server cascades to its category
	// budgets and their transactions
	Delete(ctx context.Context, budgetID int64) error
}

// CategoryBudgetService handles category budget operations
type CategoryBudgetService interface {
	// Create creates a new category budget together with its category
	Create(ctx context.Context, params *CreateCategoryBudgetParams) (*CategoryBudget, error)

	// Update updates an existing category budget
	Update(ctx context.Context, params *UpdateCategoryBudgetParams) (*CategoryBudget, error)

	// Delete deletes a category budget
	Delete(ctx context.Context, categoryBudgetID int64) error
}

// TransactionService handles all transaction-related operations
type TransactionService interface {
	// List retrieves a filtered page of transactions for a budget
	List(ctx context.Context, budgetID int64, limit, offset int, filter string) (*TransactionList, error)

	// Create creates a new transaction
	Create(ctx context.Context, params *CreateTransactionParams) (*Transaction, error)

	// Update updates an existing transaction
	Update(ctx context.Context, params *UpdateTransactionParams) (*Transaction, error)

	// Delete deletes a transaction
	Delete(ctx context.Context, transactionID int64) error
}

// UserService handles authentication
type UserService interface {
	// Login exchanges credentials for a bearer token session
	Login(ctx context.Context, email, password string) (*Session, error)
}
