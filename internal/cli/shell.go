package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"tracker/internal/auth"
	"tracker/internal/core"
	"tracker/internal/export"
	applog "tracker/internal/log"
	"tracker/internal/services"
)

// Session identifies the logged-in user. It is threaded explicitly
// through every dashboard handler; there is no package-level state.
type Session struct {
	UserID   int64
	Username string
}

// Categories suggested in the add-expense prompt. Free-form categories
// are accepted as well.
var suggestedCategories = []string{
	"Rent", "Haircuts", "Transportation", "Food", "Cleaning",
	"Gift", "Hobbies", "Healthcare", "Electric", "Internet",
	"Drink", "Shopping", "Clothes",
}

// Shell is the interactive menu loop over stdin/stdout.
type Shell struct {
	in       *bufio.Scanner
	out      io.Writer
	auth     *auth.Service
	expenses *services.ExpenseService
	budgets  *services.BudgetService
	exporter export.Destination
	logger   *applog.Logger

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewShell(
	in io.Reader,
	out io.Writer,
	authSvc *auth.Service,
	expenses *services.ExpenseService,
	budgets *services.BudgetService,
	exporter export.Destination,
	logger *applog.Logger,
) *Shell {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Shell{
		in:       bufio.NewScanner(in),
		out:      out,
		auth:     authSvc,
		expenses: expenses,
		budgets:  budgets,
		exporter: exporter,
		logger:   logger.WithComponent(applog.ComponentCLI),
		Now:      time.Now,
	}
}

// Run drives the welcome menu until exit, EOF, or context cancellation.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.header("Expense Tracker")
		fmt.Fprintln(s.out, "1. Login")
		fmt.Fprintln(s.out, "2. Register")
		fmt.Fprintln(s.out, "0. Exit")

		choice, err := s.readLine("Select an option: ")
		if err != nil {
			return nil // EOF ends the session
		}

		switch ParseWelcomeCommand(choice) {
		case CmdLogin:
			session, err := s.login(ctx)
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				s.printErr(err)
				continue
			}
			if err := s.dashboard(ctx, session); err != nil {
				return err
			}
		case CmdRegister:
			if err := s.register(ctx); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				s.printErr(err)
			}
		case CmdExit:
			fmt.Fprintln(s.out, "Goodbye.")
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid option, please try again.")
		}
	}
}

func (s *Shell) register(ctx context.Context) error {
	s.header("Register")
	username, err := s.readLine("Username: ")
	if err != nil {
		return err
	}
	password, err := s.readLine("Password: ")
	if err != nil {
		return err
	}

	if _, err := s.auth.Register(ctx, username, password); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Registration successful, you can now log in.")
	return nil
}

func (s *Shell) login(ctx context.Context) (Session, error) {
	s.header("Login")
	username, err := s.readLine("Username: ")
	if err != nil {
		return Session{}, err
	}
	password, err := s.readLine("Password: ")
	if err != nil {
		return Session{}, err
	}

	userID, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return Session{}, err
	}
	fmt.Fprintf(s.out, "Welcome, %s!\n", strings.TrimSpace(username))
	return Session{UserID: userID, Username: strings.TrimSpace(username)}, nil
}

func (s *Shell) dashboard(ctx context.Context, session Session) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.header("Dashboard")
		fmt.Fprintln(s.out, "1. Add expense")
		fmt.Fprintln(s.out, "2. View expenses")
		fmt.Fprintln(s.out, "3. Monthly summary")
		fmt.Fprintln(s.out, "4. Export expenses")
		fmt.Fprintln(s.out, "5. Set budget")
		fmt.Fprintln(s.out, "6. View budgets")
		fmt.Fprintln(s.out, "7. Set budget alert")
		fmt.Fprintln(s.out, "8. Check budget alerts")
		fmt.Fprintln(s.out, "9. Budget change history")
		fmt.Fprintln(s.out, "0. Logout")

		choice, err := s.readLine("Choose an action: ")
		if err != nil {
			return nil
		}

		var handlerErr error
		switch ParseDashboardCommand(choice) {
		case CmdAddExpense:
			handlerErr = s.addExpense(ctx, session)
		case CmdViewExpenses:
			handlerErr = s.viewExpenses(ctx, session)
		case CmdMonthlySummary:
			handlerErr = s.monthlySummary(ctx, session)
		case CmdExport:
			handlerErr = s.exportExpenses(ctx, session)
		case CmdSetBudget:
			handlerErr = s.setBudget(ctx, session)
		case CmdViewBudgets:
			handlerErr = s.viewBudgets(ctx, session)
		case CmdSetAlert:
			handlerErr = s.setAlert(ctx, session)
		case CmdCheckAlerts:
			handlerErr = s.checkAlerts(ctx, session)
		case CmdBudgetHistory:
			handlerErr = s.budgetHistory(ctx, session)
		case CmdLogout:
			fmt.Fprintln(s.out, "Logging out...")
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid choice, please try again.")
			continue
		}
		if errors.Is(handlerErr, io.EOF) {
			return nil
		}
		if handlerErr != nil {
			s.printErr(handlerErr)
		}
	}
}

func (s *Shell) addExpense(ctx context.Context, session Session) error {
	s.header("Add Expense")
	fmt.Fprintf(s.out, "Suggested categories: %s\n", strings.Join(suggestedCategories, ", "))

	category, err := s.readLine("Category: ")
	if err != nil {
		return err
	}
	amountInput, err := s.readLine("Amount: ")
	if err != nil {
		return err
	}
	cents, err := core.ParseDecimalToCents(amountInput)
	if err != nil {
		return err
	}
	description, err := s.readLine("Description: ")
	if err != nil {
		return err
	}
	dateInput, err := s.readLine("Date (YYYY-MM-DD, blank for today): ")
	if err != nil {
		return err
	}
	var date core.Date
	if dateInput == "" {
		now := s.Now()
		date = core.NewDate(now.Year(), int(now.Month()), now.Day())
	} else {
		date, err = core.ParseDate(dateInput)
		if err != nil {
			return err
		}
	}
	recurringInput, err := s.readLine("Recurring expense? (yes/no): ")
	if err != nil {
		return err
	}

	e := core.Expense{
		UserID:      session.UserID,
		Category:    category,
		Amount:      core.Money{Cents: cents},
		Description: description,
		Date:        date,
		Recurring:   strings.EqualFold(recurringInput, "yes"),
	}
	stored, err := s.expenses.Add(ctx, e)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Expense added: %s $%s on %s\n", stored.Category, stored.Amount, stored.Date)

	// Surface any threshold crossings caused by this expense right away.
	return s.checkAlerts(ctx, session)
}

func (s *Shell) viewExpenses(ctx context.Context, session Session) error {
	s.header("View Expenses")

	choice, err := s.readLine("Filter by category (1), date range (2), or view all (Enter): ")
	if err != nil {
		return err
	}

	var filter core.Filter
	switch choice {
	case "1":
		category, err := s.readLine("Category: ")
		if err != nil {
			return err
		}
		filter.Category = category
	case "2":
		fromInput, err := s.readLine("From (YYYY-MM-DD): ")
		if err != nil {
			return err
		}
		toInput, err := s.readLine("To (YYYY-MM-DD): ")
		if err != nil {
			return err
		}
		if filter.From, err = core.ParseDate(fromInput); err != nil {
			return err
		}
		if filter.To, err = core.ParseDate(toInput); err != nil {
			return err
		}
	}

	expenses, err := s.expenses.List(ctx, session.UserID, filter)
	if err != nil {
		return err
	}
	if len(expenses) == 0 {
		fmt.Fprintln(s.out, "No expenses found.")
		return nil
	}
	for _, e := range expenses {
		recurring := ""
		if e.Recurring {
			recurring = " (recurring)"
		}
		fmt.Fprintf(s.out, "%s - %s: $%s (%s)%s\n", e.Date, e.Category, e.Amount, e.Description, recurring)
	}
	return nil
}

func (s *Shell) monthlySummary(ctx context.Context, session Session) error {
	s.header("Monthly Summary")

	input, err := s.readLine("Month (YYYY-MM, blank for current): ")
	if err != nil {
		return err
	}
	var year, month int
	if input == "" {
		now := s.Now()
		year, month = now.Year(), int(now.Month())
	} else {
		t, err := time.Parse("2006-01", input)
		if err != nil {
			return core.ErrInvalidDate
		}
		year, month = t.Year(), int(t.Month())
	}

	summary, err := s.expenses.MonthlySummary(ctx, session.UserID, year, month)
	if err != nil {
		return err
	}
	if len(summary.ByCategory) == 0 {
		fmt.Fprintf(s.out, "No expenses recorded for %04d-%02d.\n", year, month)
		return nil
	}
	fmt.Fprintf(s.out, "Summary for %04d-%02d:\n", year, month)
	for _, ca := range summary.ByCategory {
		fmt.Fprintf(s.out, "  %s: $%s\n", ca.Name, ca.Amount)
	}
	fmt.Fprintf(s.out, "Total: $%s\n", summary.Total)
	return nil
}

func (s *Shell) exportExpenses(ctx context.Context, session Session) error {
	s.header("Export Expenses")

	expenses, err := s.expenses.List(ctx, session.UserID, core.Filter{})
	if err != nil {
		return err
	}

	path, err := s.readLine("Output file path (blank for default): ")
	if err != nil {
		return err
	}
	if path != "" {
		csvDest, ok := s.exporter.(*export.CSVDestination)
		if !ok {
			return fmt.Errorf("custom output path is only supported for csv export")
		}
		if err := csvDest.WriteFile(path, expenses); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Exported %d expenses to %s\n", len(expenses), path)
		return nil
	}

	ref, err := s.exporter.Export(ctx, session.UserID, expenses)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Exported %d expenses to %s\n", len(expenses), ref)
	return nil
}

func (s *Shell) setBudget(ctx context.Context, session Session) error {
	s.header("Set Budget")

	category, err := s.readLine("Category: ")
	if err != nil {
		return err
	}
	limitInput, err := s.readLine("Monthly budget amount: ")
	if err != nil {
		return err
	}
	cents, err := core.ParseDecimalToCents(limitInput)
	if err != nil {
		return err
	}

	b, err := s.budgets.SetBudget(ctx, session.UserID, category, core.Money{Cents: cents})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Budget set for %s: $%s per month\n", b.Category, b.Limit)
	return nil
}

func (s *Shell) viewBudgets(ctx context.Context, session Session) error {
	s.header("View Budgets")

	budgets, err := s.budgets.ListBudgets(ctx, session.UserID)
	if err != nil {
		return err
	}
	if len(budgets) == 0 {
		fmt.Fprintln(s.out, "No budgets set.")
		return nil
	}
	for _, b := range budgets {
		fmt.Fprintf(s.out, "%s: $%s (%s)\n", b.Category, b.Limit, b.Period)
	}
	return nil
}

func (s *Shell) setAlert(ctx context.Context, session Session) error {
	s.header("Set Budget Alert")

	category, err := s.readLine("Category: ")
	if err != nil {
		return err
	}
	thresholdInput, err := s.readLine("Alert threshold (% of budget): ")
	if err != nil {
		return err
	}
	threshold, err := strconv.ParseFloat(strings.TrimSpace(thresholdInput), 64)
	if err != nil {
		return core.ErrInvalidThreshold
	}

	a, err := s.budgets.SetAlert(ctx, session.UserID, category, threshold)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Alert set for %s at %.1f%% of budget\n", a.Category, a.Threshold)
	return nil
}

func (s *Shell) checkAlerts(ctx context.Context, session Session) error {
	notices, err := s.budgets.CheckAlerts(ctx, session.UserID, s.Now())
	if err != nil {
		return err
	}
	if len(notices) == 0 {
		fmt.Fprintln(s.out, "No budget alerts triggered.")
		return nil
	}
	for _, n := range notices {
		over := n.Over()
		direction := "over"
		if over.Cents < 0 {
			direction = "under"
			over.Cents = -over.Cents
		}
		fmt.Fprintf(s.out, "*** ALERT: %s at %.1f%% of budget (spent $%s of $%s, $%s %s) ***\n",
			n.Category, n.Percentage, n.Spent, n.Limit, over, direction)
	}
	return nil
}

func (s *Shell) budgetHistory(ctx context.Context, session Session) error {
	s.header("Budget Change History")

	changes, err := s.budgets.ChangeHistory(ctx, session.UserID)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		fmt.Fprintln(s.out, "No budget changes recorded.")
		return nil
	}
	for _, ch := range changes {
		fmt.Fprintf(s.out, "%s  %s: $%s -> $%s\n",
			ch.ChangedAt.Format("2006-01-02 15:04"), ch.Category, ch.OldLimit, ch.NewLimit)
	}
	return nil
}

func (s *Shell) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Shell) printErr(err error) {
	fmt.Fprintf(s.out, "Error: %v\n", err)
}

func (s *Shell) header(title string) {
	fmt.Fprintf(s.out, "\n%s\n%s\n%s\n", strings.Repeat("-", 50), center(title, 50), strings.Repeat("-", 50))
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}
