package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// PeriodMonthly is the only budget period currently supported.
	// "Spent this period" in alert checks always means the calendar month.
	PeriodMonthly = "monthly"

	// DateLayout is the wire format for expense dates.
	DateLayout = "2006-01-02"
)

type (
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	User struct {
		ID           int64
		Username     string
		PasswordHash string
	}

	Expense struct {
		ID          int64
		UserID      int64
		Category    string
		Amount      Money
		Description string
		Date        Date
		Recurring   bool
	}

	Budget struct {
		ID       int64
		UserID   int64
		Category string
		Limit    Money
		Period   string
	}

	BudgetAlert struct {
		ID        int64
		UserID    int64
		Category  string
		Threshold float64 // percentage of the budget limit, (0,100]
	}

	// BudgetChange is an append-only audit row written whenever an
	// existing budget limit is superseded.
	BudgetChange struct {
		ID        int64
		UserID    int64
		Category  string
		OldLimit  Money
		NewLimit  Money
		ChangedAt time.Time
	}

	// Filter narrows an expense listing. Zero fields are ignored.
	Filter struct {
		Category string
		From     Date
		To       Date
	}
)

var (
	ErrDuplicateUser      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidThreshold   = errors.New("threshold must be in (0, 100]")
	ErrEmptyCategory      = errors.New("empty category")
	ErrNotFound           = errors.New("not found")
)

// NewDate creates a Date pinned to UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// MonthRange returns the first and last day of a calendar month.
func MonthRange(year, month int) (Date, Date) {
	first := NewDate(year, month, 1)
	last := Date{Time: first.AddDate(0, 1, -1)}
	return first, last
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateLayout)
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if err := b.Limit.Validate(); err != nil {
		return err
	}
	if b.Period != PeriodMonthly {
		return errors.New("unsupported budget period")
	}
	return nil
}

func (a BudgetAlert) Validate() error {
	if strings.TrimSpace(a.Category) == "" {
		return ErrEmptyCategory
	}
	if a.Threshold <= 0 || a.Threshold > 100 {
		return ErrInvalidThreshold
	}
	return nil
}

// IsEmpty reports whether the filter would match everything.
func (f Filter) IsEmpty() bool {
	return f.Category == "" && f.From.IsZero() && f.To.IsZero()
}
