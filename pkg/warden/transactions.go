package warden

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

// transactionService implements the TransactionService interface
type transactionService struct {
	client *Client
}

// List retrieves a page of transactions for a budget. filter matches against
// transaction titles server-side; an empty filter returns everything.
func (s *transactionService) List(ctx context.Context, budgetID int64, limit, offset int, filter string) (*TransactionList, error) {
	path := fmt.Sprintf("/transactions/budget/%d", budgetID)

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))
	if filter != "" {
		query.Set("filter", filter)
	}

	var result TransactionList

	if err := s.client.do(ctx, http.MethodGet, path, query, nil, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get transactions")
	}

	return &result, nil
}

// Create creates a new transaction
func (s *transactionService) Create(ctx context.Context, params *CreateTransactionParams) (*Transaction, error) {
	body := map[string]interface{}{
		"transaction": map[string]interface{}{
			"title":          params.Title,
			"date":           params.Date,
			"amount":         params.Amount,
			"categoryBudget": map[string]interface{}{"id": params.CategoryBudgetID},
		},
	}

	var result struct {
		Transaction *Transaction `json:"transaction"`
	}

	if err := s.client.do(ctx, http.MethodPost, "/transactions", nil, body, &result); err != nil {
		return nil, errors.Wrap(err, "failed to create transaction")
	}

	if result.Transaction == nil {
		return nil, errors.New("no transaction returned from creation")
	}

	return result.Transaction, nil
}

// Update updates an existing transaction. Nil fields stay unchanged;
// CategoryBudgetID reassigns the transaction to another category budget.
func (s *transactionService) Update(ctx context.Context, params *UpdateTransactionParams) (*Transaction, error) {
	transaction := map[string]interface{}{
		"id": params.ID,
	}

	if params.Title != nil {
		transaction["title"] = *params.Title
	}
	if params.Date != nil {
		transaction["date"] = *params.Date
	}
	if params.Amount != nil {
		transaction["amount"] = *params.Amount
	}
	if params.CategoryBudgetID != nil {
		transaction["categoryBudget"] = map[string]interface{}{"id": *params.CategoryBudgetID}
	}

	body := map[string]interface{}{
		"transaction": transaction,
	}

	var result struct {
		Transaction *Transaction `json:"transaction"`
	}

	if err := s.client.do(ctx, http.MethodPut, "/transactions", nil, body, &result); err != nil {
		return nil, errors.Wrap(err, "failed to update transaction")
	}

	return result.Transaction, nil
}

// Delete deletes a transaction
func (s *transactionService) Delete(ctx context.Context, transactionID int64) error {
	path := fmt.Sprintf("/transactions/%d", transactionID)

	if err := s.client.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return errors.Wrap(err, "failed to delete transaction")
	}

	return nil
}
