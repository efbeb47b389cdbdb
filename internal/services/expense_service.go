package services

import (
	"context"
	"fmt"

	"tracker/internal/core"
	applog "tracker/internal/log"
	"tracker/internal/storage"
)

// ExpenseService orchestrates expense operations over the repository.
type ExpenseService struct {
	storage *storage.SQLiteRepository
	logger  *applog.Logger
}

func NewExpenseService(storage *storage.SQLiteRepository, logger *applog.Logger) *ExpenseService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ExpenseService{
		storage: storage,
		logger:  logger.WithComponent(applog.ComponentExpense),
	}
}

// Add validates and stores a new expense, returning the stored row.
func (s *ExpenseService) Add(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	stored, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense added",
		applog.FieldUserID, stored.UserID,
		applog.FieldCategory, stored.Category,
		applog.FieldAmountCents, stored.Amount.Cents)

	return stored, nil
}

// List returns the user's expenses matching the filter, newest first.
func (s *ExpenseService) List(ctx context.Context, userID int64, f core.Filter) ([]core.Expense, error) {
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From.Time) {
		return nil, core.ErrInvalidDate
	}
	expenses, err := s.storage.ListExpenses(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// MonthlySummary sums expenses grouped by category for the given month.
func (s *ExpenseService) MonthlySummary(ctx context.Context, userID int64, year, month int) (core.MonthSummary, error) {
	if month < 1 || month > 12 {
		return core.MonthSummary{}, core.ErrInvalidDate
	}

	from, to := core.MonthRange(year, month)
	sums, err := s.storage.MonthCategorySums(ctx, userID, from, to)
	if err != nil {
		return core.MonthSummary{}, fmt.Errorf("monthly summary: %w", err)
	}

	summary := core.MonthSummary{
		Year:       year,
		Month:      month,
		ByCategory: sums,
	}
	for _, ca := range sums {
		summary.Total.Cents += ca.Amount.Cents
	}
	return summary, nil
}
