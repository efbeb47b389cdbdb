// Package export writes a user's expenses to an external destination.
package export

import (
	"context"

	"tracker/internal/core"
)

// Header is the fixed column order every destination writes.
var Header = []string{"category", "amount", "description", "date", "recurring"}

// Destination is an outbound adapter for expense exports.
type Destination interface {
	// Export writes the expenses and returns a human-readable
	// reference to where they went (file path, sheet range).
	Export(ctx context.Context, userID int64, expenses []core.Expense) (ref string, err error)
}

// Record flattens an expense into the fixed column order.
func Record(e core.Expense) []string {
	recurring := "no"
	if e.Recurring {
		recurring = "yes"
	}
	return []string{
		e.Category,
		e.Amount.String(),
		e.Description,
		e.Date.String(),
		recurring,
	}
}
