package core

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-09")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.March || d.Day() != 9 {
		t.Fatalf("unexpected date %v", d)
	}

	bads := []string{"", "2025-3-9x", "09/03/2025", "2025-13-01", "yesterday"}
	for _, s := range bads {
		if _, err := ParseDate(s); err == nil {
			t.Fatalf("ParseDate(%q) expected error", s)
		}
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Category: "Food",
		Amount:   Money{Cents: 100},
		Date:     NewDate(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Category: "", Amount: Money{Cents: 1}, Date: NewDate(2025, 1, 1)},
		{Category: "Food", Amount: Money{Cents: 0}, Date: NewDate(2025, 1, 1)},
		{Category: "Food", Amount: Money{Cents: 1}, Date: Date{}},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{Category: "Food", Limit: Money{Cents: 20000}, Period: PeriodMonthly}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Budget{
		{Category: "", Limit: Money{Cents: 1}, Period: PeriodMonthly},
		{Category: "Food", Limit: Money{Cents: 0}, Period: PeriodMonthly},
		{Category: "Food", Limit: Money{Cents: 1}, Period: "biweekly"},
	}
	for i, b := range bads {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestBudgetAlertValidate(t *testing.T) {
	cases := []struct {
		threshold float64
		ok        bool
	}{
		{90, true},
		{100, true},
		{0.5, true},
		{0, false},
		{-1, false},
		{100.5, false},
	}
	for _, tc := range cases {
		a := BudgetAlert{Category: "Food", Threshold: tc.threshold}
		err := a.Validate()
		if tc.ok && err != nil {
			t.Fatalf("threshold %v expected ok, got %v", tc.threshold, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("threshold %v expected error", tc.threshold)
		}
	}
}

func TestFilterIsEmpty(t *testing.T) {
	if !(Filter{}).IsEmpty() {
		t.Fatal("zero filter should be empty")
	}
	if (Filter{Category: "Food"}).IsEmpty() {
		t.Fatal("category filter should not be empty")
	}
	if (Filter{From: NewDate(2025, 1, 1)}).IsEmpty() {
		t.Fatal("date filter should not be empty")
	}
}

func TestAlertNoticeOver(t *testing.T) {
	n := AlertNotice{Spent: Money{Cents: 22000}, Limit: Money{Cents: 20000}}
	if got := n.Over().Cents; got != 2000 {
		t.Fatalf("Over() = %d, want 2000", got)
	}
	under := AlertNotice{Spent: Money{Cents: 19000}, Limit: Money{Cents: 20000}}
	if got := under.Over().Cents; got != -1000 {
		t.Fatalf("Over() = %d, want -1000", got)
	}
}
