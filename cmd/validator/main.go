package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/nikelaz/bw-mobile-app-sub000/pkg/warden"
)

// ValidatorConfig holds configuration for the validator
type ValidatorConfig struct {
	BaseURL      string
	Token        string
	Email        string
	Password     string
	OutputDir    string
	Verbose      bool
	ChecksToRun  []string
	KeepFixtures bool
}

// CheckResult represents the result of a single smoke check
type CheckResult struct {
	Check    string        `json:"check"`
	Passed   bool          `json:"passed"`
	Detail   interface{}   `json:"detail,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// ValidationReport represents the full validation report
type ValidationReport struct {
	Timestamp   time.Time     `json:"timestamp"`
	TotalChecks int           `json:"total_checks"`
	Passed      int           `json:"passed"`
	Failed      int           `json:"failed"`
	SuccessRate float64       `json:"success_rate"`
	Results     []CheckResult `json:"results"`
}

func main() {
	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	config := parseFlags()

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	validator := NewValidator(config)
	report, err := validator.Run()
	if err != nil {
		log.Fatalf("Validation failed: %v", err)
	}

	reportPath := filepath.Join(config.OutputDir, fmt.Sprintf("validation_report_%d.json", time.Now().Unix()))
	if err := saveReport(report, reportPath); err != nil {
		log.Fatalf("Failed to save report: %v", err)
	}

	printSummary(report, reportPath)

	if report.Failed > 0 {
		os.Exit(1)
	}
}

func parseFlags() *ValidatorConfig {
	config := &ValidatorConfig{}

	flag.StringVar(&config.BaseURL, "base-url", envOr("BW_BASE_URL", ""), "API base URL (empty for production)")
	flag.StringVar(&config.Token, "token", os.Getenv("BW_TOKEN"), "Bearer token (skips the login check)")
	flag.StringVar(&config.Email, "email", os.Getenv("BW_EMAIL"), "Login email")
	flag.StringVar(&config.Password, "password", os.Getenv("BW_PASSWORD"), "Login password")
	flag.StringVar(&config.OutputDir, "output", "./validation_results", "Output directory for results")
	flag.BoolVar(&config.Verbose, "verbose", false, "Verbose output")
	flag.BoolVar(&config.KeepFixtures, "keep", false, "Leave created fixtures in place instead of deleting them")

	checkList := flag.String("checks", "", "Comma-separated list of checks to run (empty for all)")

	flag.Parse()

	if *checkList != "" {
		config.ChecksToRun = strings.Split(*checkList, ",")
	} else {
		config.ChecksToRun = []string{
			"login",
			"list_budgets",
			"create_budget",
			"create_category_budget",
			"create_transaction",
			"cascade_refresh",
			"pagination",
			"cleanup",
		}
	}

	return config
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Validator drives the smoke checks against a live backend
type Validator struct {
	config  *ValidatorConfig
	client  *warden.Client
	budgets *warden.BudgetStore
	catbuds *warden.CategoryBudgetStore
	txns    *warden.TransactionStore

	// fixtures created during the run, removed by the cleanup check
	createdBudgetID int64
	createdTxnID    int64
}

// NewValidator creates a validator with a client and the store stack wired
// the way the mobile app wires them.
func NewValidator(config *ValidatorConfig) *Validator {
	opts := &warden.ClientOptions{}
	if config.BaseURL != "" {
		opts.BaseURL = config.BaseURL
	}

	client, err := warden.NewClient(opts)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	if config.Token != "" {
		client.SetToken(config.Token)
	}

	budgets := warden.NewBudgetStore(client)
	return &Validator{
		config:  config,
		client:  client,
		budgets: budgets,
		catbuds: warden.NewCategoryBudgetStore(client, budgets),
		txns:    warden.NewTransactionStore(client, budgets),
	}
}

// Run executes the selected checks in order. Checks share state, so the list
// order matters: create_budget must precede create_category_budget and so on.
func (v *Validator) Run() (*ValidationReport, error) {
	report := &ValidationReport{
		Timestamp: time.Now(),
		Results:   make([]CheckResult, 0),
	}

	ctx := context.Background()

	for _, check := range v.config.ChecksToRun {
		if v.config.Verbose {
			fmt.Printf("Running %s...\n", check)
		}

		result := v.runCheck(ctx, check)
		report.Results = append(report.Results, result)

		if result.Passed {
			report.Passed++
		} else {
			report.Failed++
			if v.config.Verbose {
				fmt.Printf("  FAILED: %s\n", result.Error)
			}
		}
	}

	report.TotalChecks = len(report.Results)
	if report.TotalChecks > 0 {
		report.SuccessRate = float64(report.Passed) / float64(report.TotalChecks) * 100
	}

	return report, nil
}

func (v *Validator) runCheck(ctx context.Context, check string) CheckResult {
	start := time.Now()
	result := CheckResult{Check: check}

	detail, err := v.execute(ctx, check)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Detail = detail
	result.Passed = true
	return result
}

func (v *Validator) execute(ctx context.Context, check string) (interface{}, error) {
	switch check {
	case "login":
		if v.config.Token != "" {
			return "skipped: token provided", nil
		}
		if v.config.Email == "" || v.config.Password == "" {
			return nil, fmt.Errorf("no token and no credentials; set BW_TOKEN or BW_EMAIL/BW_PASSWORD")
		}
		session, err := v.client.Users.Login(ctx, v.config.Email, v.config.Password)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"userId": session.UserID}, nil

	case "list_budgets":
		budgets, err := v.budgets.Refresh(ctx)
		if err != nil {
			return nil, err
		}
		detail := map[string]interface{}{"count": len(budgets)}
		if current := v.budgets.CurrentBudget(); current != nil {
			detail["current"] = current.Month.String()
		}
		return detail, nil

	case "create_budget":
		// Walk forward to a month index with no existing budget so the
		// duplicate-month guard cannot reject the fixture.
		month := time.Now().UTC()
		for i := 0; i < 12; i++ {
			if !v.budgets.BudgetExistsForMonth(month.Month()) {
				break
			}
			month = month.AddDate(0, 1, 0)
		}
		if v.budgets.BudgetExistsForMonth(month.Month()) {
			return nil, fmt.Errorf("all twelve month slots taken; nothing to create")
		}

		err := v.budgets.Create(ctx, &warden.CreateBudgetParams{
			Month: warden.NewDate(month.Year(), month.Month()),
		})
		if err != nil {
			return nil, err
		}
		current := v.budgets.CurrentBudget()
		if current == nil {
			return nil, fmt.Errorf("created budget was not selected")
		}
		v.createdBudgetID = current.ID
		return map[string]interface{}{"budgetId": current.ID, "month": current.Month.String()}, nil

	case "create_category_budget":
		if v.createdBudgetID == 0 {
			return nil, fmt.Errorf("create_budget did not run")
		}
		err := v.catbuds.Create(ctx, &warden.CreateCategoryBudgetParams{
			BudgetID:      v.createdBudgetID,
			Amount:        decimal.NewFromInt(100),
			CategoryTitle: "Validator Fixture",
			CategoryType:  warden.CategoryTypeExpense,
		})
		if err != nil {
			return nil, err
		}
		byType := v.catbuds.ByType()
		return map[string]interface{}{"expenseCount": len(byType[warden.CategoryTypeExpense])}, nil

	case "create_transaction":
		target := v.fixtureCategoryBudget()
		if target == nil {
			return nil, fmt.Errorf("fixture category budget not found")
		}
		err := v.txns.Create(ctx, &warden.CreateTransactionParams{
			Title:            "Validator Fixture Txn",
			Date:             warden.NewDate(time.Now().Year(), time.Now().Month()),
			Amount:           decimal.NewFromInt(25),
			CategoryBudgetID: target.ID,
		})
		if err != nil {
			return nil, err
		}
		for _, txn := range v.txns.Transactions() {
			if txn.Title == "Validator Fixture Txn" {
				v.createdTxnID = txn.ID
				return map[string]interface{}{"transactionId": txn.ID}, nil
			}
		}
		return nil, fmt.Errorf("created transaction missing from the refreshed page")

	case "cascade_refresh":
		// The mutation in create_transaction must have propagated into the
		// refreshed budget tree: the fixture category's currentAmount
		// reflects the server-side aggregate.
		target := v.fixtureCategoryBudget()
		if target == nil {
			return nil, fmt.Errorf("fixture category budget not found")
		}
		if !target.CurrentAmount.Equal(decimal.NewFromInt(25)) {
			return nil, fmt.Errorf("expected currentAmount 25, got %s", target.CurrentAmount)
		}
		return map[string]interface{}{"currentAmount": target.CurrentAmount.String()}, nil

	case "pagination":
		v.txns.SetViewportHeight(800)
		if err := v.txns.Refresh(ctx); err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"perPage":    v.txns.PerPage(),
			"totalPages": v.txns.TotalPages(),
		}, nil

	case "cleanup":
		if v.config.KeepFixtures {
			return "skipped: -keep", nil
		}
		if v.createdTxnID != 0 {
			if err := v.txns.Delete(ctx, v.createdTxnID); err != nil {
				return nil, err
			}
		}
		if v.createdBudgetID != 0 {
			if err := v.budgets.Delete(ctx, v.createdBudgetID); err != nil {
				return nil, err
			}
		}
		return "fixtures removed", nil

	default:
		return nil, fmt.Errorf("unknown check: %s", check)
	}
}

// fixtureCategoryBudget finds the category budget created by the
// create_category_budget check in the current budget tree.
func (v *Validator) fixtureCategoryBudget() *warden.CategoryBudget {
	current := v.budgets.CurrentBudget()
	if current == nil {
		return nil
	}
	for _, cb := range current.CategoryBudgets {
		if cb.Category != nil && cb.Category.Title == "Validator Fixture" {
			return cb
		}
	}
	return nil
}

func saveReport(report *ValidationReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func printSummary(report *ValidationReport, reportPath string) {
	fmt.Println("\n=== Validation Report ===")
	fmt.Printf("Total Checks: %d\n", report.TotalChecks)
	fmt.Printf("Passed: %d\n", report.Passed)
	fmt.Printf("Failed: %d\n", report.Failed)
	fmt.Printf("Success Rate: %.1f%%\n", report.SuccessRate)

	if report.Failed > 0 {
		fmt.Println("\nFailed Checks:")
		for _, result := range report.Results {
			if !result.Passed {
				fmt.Printf("  - %s: %s\n", result.Check, result.Error)
			}
		}
	}

	fmt.Printf("\nReport saved to: %s\n", reportPath)
}
