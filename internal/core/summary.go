package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthSummary is a compact summary for a specific year+month.
type MonthSummary struct {
	Year       int
	Month      int // 1-12
	Total      Money
	ByCategory []CategoryAmount
}

// AlertNotice is emitted when spending in a category reaches the
// alert threshold for the current budget period.
type AlertNotice struct {
	Category   string
	Percentage float64 // spent / limit * 100
	Spent      Money
	Limit      Money
}

// Over returns how far spending is over (positive) or under (negative)
// the budget limit.
func (n AlertNotice) Over() Money {
	return Money{Cents: n.Spent.Cents - n.Limit.Cents}
}
