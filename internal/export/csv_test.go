package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"strings"
	"testing"
	"time"

	"tracker/internal/core"
)

func sampleExpenses() []core.Expense {
	return []core.Expense{
		{Category: "Food", Amount: core.Money{Cents: 1234}, Description: "groceries", Date: core.NewDate(2025, 3, 1)},
		{Category: "Rent", Amount: core.Money{Cents: 90000}, Description: "march", Date: core.NewDate(2025, 3, 5), Recurring: true},
		{Category: "Drink", Amount: core.Money{Cents: 50}, Description: "with, comma", Date: core.NewDate(2025, 3, 9)},
	}
}

func TestWriteProducesHeaderPlusOneLinePerExpense(t *testing.T) {
	var buf bytes.Buffer
	expenses := sampleExpenses()
	if err := Write(&buf, expenses); err != nil {
		t.Fatalf("write: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != len(expenses)+1 {
		t.Fatalf("expected %d lines, got %d", len(expenses)+1, len(lines))
	}
	if lines[0] != "category,amount,description,date,recurring" {
		t.Fatalf("unexpected header %q", lines[0])
	}
}

func TestWriteRoundTripsAmounts(t *testing.T) {
	var buf bytes.Buffer
	expenses := sampleExpenses()
	if err := Write(&buf, expenses); err != nil {
		t.Fatalf("write: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if len(records) != len(expenses)+1 {
		t.Fatalf("expected %d records, got %d", len(expenses)+1, len(records))
	}
	for i, e := range expenses {
		row := records[i+1]
		cents, err := core.ParseDecimalToCents(row[1])
		if err != nil {
			t.Fatalf("row %d amount %q: %v", i, row[1], err)
		}
		if cents != e.Amount.Cents {
			t.Fatalf("row %d amount = %d cents, want %d", i, cents, e.Amount.Cents)
		}
		if row[0] != e.Category || row[3] != e.Date.String() {
			t.Fatalf("row %d mismatch: %v", i, row)
		}
	}
}

func TestExportWritesTimestampedFile(t *testing.T) {
	dir := t.TempDir()
	d := &CSVDestination{
		Dir: dir,
		Now: func() time.Time { return time.Date(2025, 3, 9, 14, 30, 0, 0, time.UTC) },
	}

	path, err := d.Export(context.Background(), 7, sampleExpenses())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasSuffix(path, "expenses_user_7_20250309_143000.csv") {
		t.Fatalf("unexpected path %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.HasPrefix(string(data), "category,amount,description,date,recurring\n") {
		t.Fatalf("file missing header: %q", string(data[:40]))
	}
}

func TestWriteFileFailsOnBadPath(t *testing.T) {
	d := &CSVDestination{}
	err := d.WriteFile("/nonexistent-dir/out.csv", sampleExpenses())
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
