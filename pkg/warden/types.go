package warden

import (
	"github.com/shopspring/decimal"

	internalTypes "github.com/nikelaz/bw-mobile-app-sub000/internal/types"
)

// Session represents an authenticated session
type Session = internalTypes.Session

// CategoryType classifies a category budget. It is set at creation and
// immutable afterwards.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "INCOME"
	CategoryTypeExpense CategoryType = "EXPENSE"
	CategoryTypeSavings CategoryType = "SAVINGS"
	CategoryTypeDebt    CategoryType = "DEBT"
)

// CategoryTypes lists all valid category types in display order.
var CategoryTypes = []CategoryType{
	CategoryTypeIncome,
	CategoryTypeExpense,
	CategoryTypeSavings,
	CategoryTypeDebt,
}

// Valid reports whether t is one of the four known category types.
func (t CategoryType) Valid() bool {
	switch t {
	case CategoryTypeIncome, CategoryTypeExpense, CategoryTypeSavings, CategoryTypeDebt:
		return true
	}
	return false
}

// Category represents a spending category
type Category struct {
	ID    int64        `json:"id"`
	Title string       `json:"title"`
	Type  CategoryType `json:"type"`

	// AccAmount is the accumulated savings or leftover debt principal.
	// User-entered, only meaningful for SAVINGS and DEBT categories.
	AccAmount *decimal.Decimal `json:"accAmount,omitempty"`
}

// CategoryBudget represents the planned allocation for one category within a
// budget. CurrentAmount is derived server-side from the category's
// transactions and is never recomputed locally.
type CategoryBudget struct {
	ID            int64           `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Category      *Category       `json:"category"`
	Transactions  []*Transaction  `json:"transactions,omitempty"`
}

// Budget represents a user's planned and actual financial record for one
// calendar month. Only the month and year of Month are significant.
type Budget struct {
	ID              int64             `json:"id"`
	Month           Date              `json:"month"`
	CategoryBudgets []*CategoryBudget `json:"categoryBudgets"`
}

// CategoryBudgetRef is a reference to a category budget by id
type CategoryBudgetRef struct {
	ID int64 `json:"id"`
}

// Transaction represents a single dated monetary movement attributed to one
// category budget.
type Transaction struct {
	ID             int64              `json:"id"`
	Title          string             `json:"title"`
	Date           Date               `json:"date"`
	Amount         decimal.Decimal    `json:"amount"`
	CategoryBudget *CategoryBudgetRef `json:"categoryBudget"`
}

// TransactionList is a page of transactions plus the total record count
type TransactionList struct {
	Transactions []*Transaction `json:"transactions"`
	Count        int            `json:"count"`
}

// User represents the authenticated user
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// CreateBudgetParams are the inputs for budget creation. CopyFromID
// optionally names an existing budget whose category budget structure the
// server copies into the new one.
type CreateBudgetParams struct {
	Month      Date
	CopyFromID *int64
}

// CreateCategoryBudgetParams are the inputs for category budget creation. The
// category record is created alongside the category budget.
type CreateCategoryBudgetParams struct {
	BudgetID      int64
	Amount        decimal.Decimal
	CategoryTitle string
	CategoryType  CategoryType
	AccAmount     *decimal.Decimal
}

// UpdateCategoryBudgetParams are the inputs for category budget update. Nil
// fields are left unchanged. The category type is immutable and therefore
// absent here.
type UpdateCategoryBudgetParams struct {
	ID            int64
	Amount        *decimal.Decimal
	CategoryTitle *string
	AccAmount     *decimal.Decimal
}

// CreateTransactionParams are the inputs for transaction creation
type CreateTransactionParams struct {
	Title            string
	Date             Date
	Amount           decimal.Decimal
	CategoryBudgetID int64
}

// UpdateTransactionParams are the inputs for transaction update. Nil fields
// are left unchanged. CategoryBudgetID reassigns the transaction to another
// category budget.
type UpdateTransactionParams struct {
	ID               int64
	Title            *string
	Date             *Date
	Amount           *decimal.Decimal
	CategoryBudgetID *int64
}
