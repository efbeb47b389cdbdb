package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tracker/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the single storage backend. The database file is
// created (with its directory) and migrated on construction.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser inserts a user row and returns its id.
// Returns core.ErrDuplicateUser when the username is taken.
func (r *SQLiteRepository) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`,
		username, passwordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, core.ErrDuplicateUser
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user insert id: %w", err)
	}
	return id, nil
}

// GetUserByUsername returns core.ErrNotFound when the user does not exist.
func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash FROM users WHERE username = ?`,
		username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

// CreateExpense inserts an expense row and returns it with the id set.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, category, amount_cents, description, date, recurring)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Category, e.Amount.Cents, e.Description, e.Date.String(), boolToInt(e.Recurring))
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense insert id: %w", err)
	}
	e.ID = id

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"user_id", e.UserID,
		"category", e.Category,
		"amount_cents", e.Amount.Cents,
		"date", e.Date.String())

	return e, nil
}

// ListExpenses returns expenses for the user matching the filter,
// ordered by date descending then id descending.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID int64, f core.Filter) ([]core.Expense, error) {
	query := `SELECT id, user_id, category, amount_cents, description, date, recurring
	          FROM expenses WHERE user_id = ?`
	args := []any{userID}

	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if !f.From.IsZero() {
		query += ` AND date >= ?`
		args = append(args, f.From.String())
	}
	if !f.To.IsZero() {
		query += ` AND date <= ?`
		args = append(args, f.To.String())
	}
	query += ` ORDER BY date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// SumCategoryRange sums expense cents for one category in [from, to].
func (r *SQLiteRepository) SumCategoryRange(ctx context.Context, userID int64, category string, from, to core.Date) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM expenses
		 WHERE user_id = ? AND category = ? AND date BETWEEN ? AND ?`,
		userID, category, from.String(), to.String()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum category range: %w", err)
	}
	return total, nil
}

// MonthCategorySums groups expense totals by category for [from, to].
func (r *SQLiteRepository) MonthCategorySums(ctx context.Context, userID int64, from, to core.Date) ([]core.CategoryAmount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, SUM(amount_cents) FROM expenses
		 WHERE user_id = ? AND date BETWEEN ? AND ?
		 GROUP BY category ORDER BY category`,
		userID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("select category sums: %w", err)
	}
	defer rows.Close()

	var sums []core.CategoryAmount
	for rows.Next() {
		var ca core.CategoryAmount
		if err := rows.Scan(&ca.Name, &ca.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		sums = append(sums, ca)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category sums: %w", err)
	}
	return sums, nil
}

// GetBudget returns core.ErrNotFound when no budget is set for the category.
func (r *SQLiteRepository) GetBudget(ctx context.Context, userID int64, category string) (core.Budget, error) {
	var b core.Budget
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, category, limit_cents, period FROM budgets
		 WHERE user_id = ? AND category = ?`,
		userID, category).Scan(&b.ID, &b.UserID, &b.Category, &b.Limit.Cents, &b.Period)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("select budget: %w", err)
	}
	return b, nil
}

// UpsertBudget inserts or replaces the one budget row per (user, category).
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category, limit_cents, period) VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, category) DO UPDATE SET limit_cents = excluded.limit_cents, period = excluded.period`,
		b.UserID, b.Category, b.Limit.Cents, b.Period)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category, limit_cents, period FROM budgets
		 WHERE user_id = ? ORDER BY category`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("select budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Limit.Cents, &b.Period); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return budgets, nil
}

// UpsertAlert inserts or replaces the one alert row per (user, category).
func (r *SQLiteRepository) UpsertAlert(ctx context.Context, a core.BudgetAlert) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budget_alerts (user_id, category, threshold_pct) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, category) DO UPDATE SET threshold_pct = excluded.threshold_pct`,
		a.UserID, a.Category, a.Threshold)
	if err != nil {
		return fmt.Errorf("upsert alert: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListAlerts(ctx context.Context, userID int64) ([]core.BudgetAlert, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category, threshold_pct FROM budget_alerts
		 WHERE user_id = ? ORDER BY category`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("select alerts: %w", err)
	}
	defer rows.Close()

	var alerts []core.BudgetAlert
	for rows.Next() {
		var a core.BudgetAlert
		if err := rows.Scan(&a.ID, &a.UserID, &a.Category, &a.Threshold); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return alerts, nil
}

// InsertBudgetChange appends an audit row for a superseded budget limit.
func (r *SQLiteRepository) InsertBudgetChange(ctx context.Context, ch core.BudgetChange) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budget_changes (user_id, category, old_limit_cents, new_limit_cents, changed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		ch.UserID, ch.Category, ch.OldLimit.Cents, ch.NewLimit.Cents, ch.ChangedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert budget change: %w", err)
	}
	return nil
}

// ListBudgetChanges returns the audit trail for a user, newest first.
func (r *SQLiteRepository) ListBudgetChanges(ctx context.Context, userID int64) ([]core.BudgetChange, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category, old_limit_cents, new_limit_cents, changed_at
		 FROM budget_changes WHERE user_id = ? ORDER BY id DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("select budget changes: %w", err)
	}
	defer rows.Close()

	var changes []core.BudgetChange
	for rows.Next() {
		var (
			ch        core.BudgetChange
			changedAt string
		)
		if err := rows.Scan(&ch.ID, &ch.UserID, &ch.Category, &ch.OldLimit.Cents, &ch.NewLimit.Cents, &changedAt); err != nil {
			return nil, fmt.Errorf("scan budget change: %w", err)
		}
		t, err := time.Parse(time.RFC3339, changedAt)
		if err != nil {
			return nil, fmt.Errorf("parse budget change timestamp: %w", err)
		}
		ch.ChangedAt = t
		changes = append(changes, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budget changes: %w", err)
	}
	return changes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e         core.Expense
		date      string
		recurring int64
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.Category, &e.Amount.Cents, &e.Description, &date, &recurring); err != nil {
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse expense date %q: %w", date, err)
	}
	e.Date = d
	e.Recurring = recurring != 0
	return e, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
