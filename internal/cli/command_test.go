package cli

import "testing"

func TestParseWelcomeCommand(t *testing.T) {
	cases := []struct {
		in   string
		want Command
	}{
		{"1", CmdLogin},
		{"2", CmdRegister},
		{"0", CmdExit},
		{"9", CmdUnknown},
		{"", CmdUnknown},
		{"login", CmdUnknown},
	}
	for _, tc := range cases {
		if got := ParseWelcomeCommand(tc.in); got != tc.want {
			t.Fatalf("ParseWelcomeCommand(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseDashboardCommand(t *testing.T) {
	cases := []struct {
		in   string
		want Command
	}{
		{"1", CmdAddExpense},
		{"2", CmdViewExpenses},
		{"3", CmdMonthlySummary},
		{"4", CmdExport},
		{"5", CmdSetBudget},
		{"6", CmdViewBudgets},
		{"7", CmdSetAlert},
		{"8", CmdCheckAlerts},
		{"9", CmdBudgetHistory},
		{"0", CmdLogout},
		{"x", CmdUnknown},
		{"10", CmdUnknown},
	}
	for _, tc := range cases {
		if got := ParseDashboardCommand(tc.in); got != tc.want {
			t.Fatalf("ParseDashboardCommand(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
