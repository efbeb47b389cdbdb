package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tracker/internal/core"
	applog "tracker/internal/log"
	"tracker/internal/storage"
)

// BudgetService implements per-category budgets, alert thresholds and
// the budget change audit trail.
type BudgetService struct {
	storage *storage.SQLiteRepository
	logger  *applog.Logger
}

func NewBudgetService(storage *storage.SQLiteRepository, logger *applog.Logger) *BudgetService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &BudgetService{
		storage: storage,
		logger:  logger.WithComponent(applog.ComponentBudget),
	}
}

// SetBudget upserts the budget for (user, category). When a prior limit
// existed, a budget_changes audit row with the old and new limit is
// appended in the same call.
func (s *BudgetService) SetBudget(ctx context.Context, userID int64, category string, limit core.Money) (core.Budget, error) {
	b := core.Budget{
		UserID:   userID,
		Category: category,
		Limit:    limit,
		Period:   core.PeriodMonthly,
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	prior, err := s.storage.GetBudget(ctx, userID, category)
	hadPrior := err == nil
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return core.Budget{}, fmt.Errorf("read prior budget: %w", err)
	}

	if err := s.storage.UpsertBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("set budget: %w", err)
	}

	if hadPrior && prior.Limit != limit {
		change := core.BudgetChange{
			UserID:    userID,
			Category:  category,
			OldLimit:  prior.Limit,
			NewLimit:  limit,
			ChangedAt: time.Now(),
		}
		if err := s.storage.InsertBudgetChange(ctx, change); err != nil {
			return core.Budget{}, fmt.Errorf("record budget change: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "Budget set",
		applog.FieldUserID, userID,
		applog.FieldCategory, category,
		applog.FieldLimitCents, limit.Cents,
		"superseded", hadPrior)

	return b, nil
}

// SetAlert upserts the alert threshold for (user, category).
func (s *BudgetService) SetAlert(ctx context.Context, userID int64, category string, threshold float64) (core.BudgetAlert, error) {
	a := core.BudgetAlert{
		UserID:    userID,
		Category:  category,
		Threshold: threshold,
	}
	if err := a.Validate(); err != nil {
		return core.BudgetAlert{}, err
	}

	if err := s.storage.UpsertAlert(ctx, a); err != nil {
		return core.BudgetAlert{}, fmt.Errorf("set alert: %w", err)
	}

	s.logger.InfoContext(ctx, "Budget alert set",
		applog.FieldUserID, userID,
		applog.FieldCategory, category,
		applog.FieldThreshold, threshold)

	return a, nil
}

// ListBudgets returns the user's budgets ordered by category.
func (s *BudgetService) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	budgets, err := s.storage.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

// ChangeHistory returns the budget change audit trail, newest first.
func (s *BudgetService) ChangeHistory(ctx context.Context, userID int64) ([]core.BudgetChange, error) {
	changes, err := s.storage.ListBudgetChanges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("budget change history: %w", err)
	}
	return changes, nil
}

// CheckAlerts computes spending against budgets for the calendar month
// containing now. For each category that has both a budget and an alert,
// one notice is emitted when spent/limit*100 reaches the threshold.
// Pure read, no side effects.
func (s *BudgetService) CheckAlerts(ctx context.Context, userID int64, now time.Time) ([]core.AlertNotice, error) {
	alerts, err := s.storage.ListAlerts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	if len(alerts) == 0 {
		return nil, nil
	}

	from, to := core.MonthRange(now.Year(), int(now.Month()))

	var notices []core.AlertNotice
	for _, a := range alerts {
		budget, err := s.storage.GetBudget(ctx, userID, a.Category)
		if errors.Is(err, core.ErrNotFound) {
			// Alert without a budget never fires.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("budget for %s: %w", a.Category, err)
		}

		spent, err := s.storage.SumCategoryRange(ctx, userID, a.Category, from, to)
		if err != nil {
			return nil, fmt.Errorf("spent for %s: %w", a.Category, err)
		}

		pct := float64(spent) / float64(budget.Limit.Cents) * 100
		if pct >= a.Threshold {
			notices = append(notices, core.AlertNotice{
				Category:   a.Category,
				Percentage: pct,
				Spent:      core.Money{Cents: spent},
				Limit:      budget.Limit,
			})
		}
	}
	return notices, nil
}
