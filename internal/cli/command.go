package cli

// Command is a tagged menu action. The numeric menu input is parsed
// into a Command once, and all dispatch happens over these values.
type Command int

const (
	CmdUnknown Command = iota

	// Welcome menu (logged out)
	CmdLogin
	CmdRegister
	CmdExit

	// Dashboard menu (logged in)
	CmdAddExpense
	CmdViewExpenses
	CmdMonthlySummary
	CmdExport
	CmdSetBudget
	CmdViewBudgets
	CmdSetAlert
	CmdCheckAlerts
	CmdBudgetHistory
	CmdLogout
)

var welcomeCommands = map[string]Command{
	"1": CmdLogin,
	"2": CmdRegister,
	"0": CmdExit,
}

var dashboardCommands = map[string]Command{
	"1": CmdAddExpense,
	"2": CmdViewExpenses,
	"3": CmdMonthlySummary,
	"4": CmdExport,
	"5": CmdSetBudget,
	"6": CmdViewBudgets,
	"7": CmdSetAlert,
	"8": CmdCheckAlerts,
	"9": CmdBudgetHistory,
	"0": CmdLogout,
}

// ParseWelcomeCommand maps a welcome menu choice to a Command.
func ParseWelcomeCommand(input string) Command {
	if cmd, ok := welcomeCommands[input]; ok {
		return cmd
	}
	return CmdUnknown
}

// ParseDashboardCommand maps a dashboard menu choice to a Command.
func ParseDashboardCommand(input string) Command {
	if cmd, ok := dashboardCommands[input]; ok {
		return cmd
	}
	return CmdUnknown
}
