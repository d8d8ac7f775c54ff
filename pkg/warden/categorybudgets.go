package warden

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// categoryBudgetService implements the CategoryBudgetService interface
type categoryBudgetService struct {
	client *Client
}

// Create creates a new category budget together with its category record
func (s *categoryBudgetService) Create(ctx context.Context, params *CreateCategoryBudgetParams) (*CategoryBudget, error) {
	category := map[string]interface{}{
		"title": params.CategoryTitle,
		"type":  params.CategoryType,
	}

	if params.AccAmount != nil {
		category["accAmount"] = *params.AccAmount
	}

	body := map[string]interface{}{
		"categoryBudget": map[string]interface{}{
			"amount":   params.Amount,
			"budget":   map[string]interface{}{"id": params.BudgetID},
			"category": category,
		},
	}

	var result struct {
		CategoryBudget *CategoryBudget `json:"categoryBudget"`
	}

	if err := s.client.do(ctx, http.MethodPost, "/category-budgets", nil, body, &result); err != nil {
		return nil, errors.Wrap(err, "failed to create category budget")
	}

	if result.CategoryBudget == nil {
		return nil, errors.New("no category budget returned from creation")
	}

	return result.CategoryBudget, nil
}

// Update updates an existing category budget. Nil fields stay unchanged; the
// category type is immutable.
func (s *categoryBudgetService) Update(ctx context.Context, params *UpdateCategoryBudgetParams) (*CategoryBudget, error) {
	categoryBudget := map[string]interface{}{
		"id": params.ID,
	}

	if params.Amount != nil {
		categoryBudget["amount"] = *params.Amount
	}

	category := map[string]interface{}{}
	if params.CategoryTitle != nil {
		category["title"] = *params.CategoryTitle
	}
	if params.AccAmount != nil {
		category["accAmount"] = *params.AccAmount
	}
	if len(category) > 0 {
		categoryBudget["category"] = category
	}

	body := map[string]interface{}{
		"categoryBudget": categoryBudget,
	}

	var result struct {
		CategoryBudget *CategoryBudget `json:"categoryBudget"`
	}

	if err := s.client.do(ctx, http.MethodPut, "/category-budgets", nil, body, &result); err != nil {
		return nil, errors.Wrap(err, "failed to update category budget")
	}

	return result.CategoryBudget, nil
}

// Delete deletes a category budget
func (s *categoryBudgetService) Delete(ctx context.Context, categoryBudgetID int64) error {
	path := fmt.Sprintf("/category-budgets/%d", categoryBudgetID)

	if err := s.client.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return errors.Wrap(err, "failed to delete category budget")
	}

	return nil
}
