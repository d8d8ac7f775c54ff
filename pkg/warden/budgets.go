package warden

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// budgetService implements the BudgetService interface
type budgetService struct {
	client *Client
}

// List retrieves all budgets for the authenticated user
func (s *budgetService) List(ctx context.Context) ([]*Budget, error) {
	var result struct {
		Budgets []*Budget `json:"budgets"`
	}

	if err := s.client.do(ctx, http.MethodGet, "/budgets", nil, nil, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get budgets")
	}

	return result.Budgets, nil
}

// Create creates a new budget. When CopyFromID is set the server clones that
// budget's category budget structure into the new month.
func (s *budgetService) Create(ctx context.Context, params *CreateBudgetParams) (*Budget, error) {
	body := map[string]interface{}{
		"budget": map[string]interface{}{
			"month": params.Month,
		},
	}

	if params.CopyFromID != nil {
		body["copyFrom"] = *params.CopyFromID
	}

	var result struct {
		Budget *Budget `json:"budget"`
	}

	if err := s.client.do(ctx, http.MethodPost, "/budgets", nil, body, &result); err != nil {
		return nil, errors.Wrap(err, "failed to create budget")
	}

	if result.Budget == nil {
		return nil, errors.New("no budget returned from creation")
	}

	return result.Budget, nil
}

// Delete deletes a budget; the server cascades to its category budgets and
// their transactions
func (s *budgetService) Delete(ctx context.Context, budgetID int64) error {
	path := fmt.Sprintf("/budgets/%d", budgetID)

	if err := s.client.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return errors.Wrap(err, "failed to delete budget")
	}

	return nil
}
