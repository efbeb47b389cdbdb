package services

import (
	"context"
	"errors"
	"testing"

	"tracker/internal/core"
)

func TestAddRejectsInvalidExpense(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewExpenseService(repo, nil)
	userID := seedUser(t, repo, "alice")
	ctx := context.Background()

	cases := []struct {
		name string
		e    core.Expense
		want error
	}{
		{
			"zero amount",
			core.Expense{UserID: userID, Category: "Food", Amount: core.Money{Cents: 0}, Date: core.NewDate(2025, 3, 1)},
			core.ErrInvalidAmount,
		},
		{
			"missing date",
			core.Expense{UserID: userID, Category: "Food", Amount: core.Money{Cents: 100}},
			core.ErrInvalidDate,
		},
		{
			"empty category",
			core.Expense{UserID: userID, Category: "  ", Amount: core.Money{Cents: 100}, Date: core.NewDate(2025, 3, 1)},
			core.ErrEmptyCategory,
		},
	}
	for _, tc := range cases {
		if _, err := svc.Add(ctx, tc.e); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestMonthlySummaryMatchesInserts(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewExpenseService(repo, nil)
	userID := seedUser(t, repo, "bob")
	ctx := context.Background()

	seed := []struct {
		category string
		cents    int64
		date     core.Date
	}{
		{"Food", 5000, core.NewDate(2025, 3, 1)},
		{"Food", 8000, core.NewDate(2025, 3, 14)},
		{"Rent", 90000, core.NewDate(2025, 3, 31)},
		{"Food", 7777, core.NewDate(2025, 4, 1)}, // next month, excluded
	}
	for _, s := range seed {
		e := core.Expense{UserID: userID, Category: s.category, Amount: core.Money{Cents: s.cents}, Date: s.date}
		if _, err := svc.Add(ctx, e); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	summary, err := svc.MonthlySummary(ctx, userID, 2025, 3)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Total.Cents != 103000 {
		t.Fatalf("total = %d, want 103000", summary.Total.Cents)
	}
	byCat := map[string]int64{}
	for _, ca := range summary.ByCategory {
		byCat[ca.Name] = ca.Amount.Cents
	}
	if byCat["Food"] != 13000 || byCat["Rent"] != 90000 {
		t.Fatalf("unexpected sums %v", byCat)
	}

	if _, err := svc.MonthlySummary(ctx, userID, 2025, 13); !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("month 13: expected ErrInvalidDate, got %v", err)
	}
}

func TestListRejectsInvertedRange(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewExpenseService(repo, nil)
	userID := seedUser(t, repo, "carol")

	f := core.Filter{From: core.NewDate(2025, 4, 1), To: core.NewDate(2025, 3, 1)}
	if _, err := svc.List(context.Background(), userID, f); !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}
