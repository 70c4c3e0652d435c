package http

import (
	"expensetracker/internal/core"
	"expensetracker/internal/form"
)

// Field specs, shared by the page and fragment renders.
var (
	loginEmailSpec    = form.Spec{Label: "Email", Type: form.TypeEmail, Placeholder: "Enter your email"}
	loginPasswordSpec = form.Spec{Label: "Password", Type: form.TypePassword, Placeholder: "Enter your password"}

	signupUsernameSpec = form.Spec{Label: "Username", Placeholder: "Enter your username"}
	signupEmailSpec    = form.Spec{Label: "Email", Type: form.TypeEmail, Placeholder: "Enter your email"}
	signupPasswordSpec = form.Spec{Label: "Password", Type: form.TypePassword, Placeholder: "Enter your password"}
	signupConfirmSpec  = form.Spec{Label: "Confirm Password", Type: form.TypePassword, Placeholder: "Confirm your password"}

	expenseNameSpec     = form.Spec{Label: "Expense Name", Placeholder: "Enter expense name"}
	expenseAmountSpec   = form.Spec{Label: "Amount", Type: form.TypeNumber, Placeholder: "Enter amount"}
	expenseCategorySpec = form.Spec{Label: "Category", Placeholder: "Enter category"}
	expenseDateSpec     = form.Spec{Label: "Date", Type: form.TypeDate}
)

type loginView struct {
	Title    string
	Notice   *Notification
	Email    form.Field
	Password form.Field
}

func newLoginView(f *form.Form[form.LoginForm], note *Notification) loginView {
	return loginView{
		Title:    "Login",
		Notice:   note,
		Email:    f.Register(form.LoginEmail, loginEmailSpec),
		Password: f.Register(form.LoginPassword, loginPasswordSpec),
	}
}

type signupView struct {
	Title           string
	Notice          *Notification
	Username        form.Field
	Email           form.Field
	Password        form.Field
	ConfirmPassword form.Field
}

func newSignupView(f *form.Form[form.SignupForm], note *Notification) signupView {
	return signupView{
		Title:           "Sign Up",
		Notice:          note,
		Username:        f.Register(form.SignupUsername, signupUsernameSpec),
		Email:           f.Register(form.SignupEmail, signupEmailSpec),
		Password:        f.Register(form.SignupPassword, signupPasswordSpec),
		ConfirmPassword: f.Register(form.SignupConfirmPassword, signupConfirmSpec),
	}
}

type expenseRow struct {
	ID       int64
	Name     string
	Category string
	Amount   string
	Date     string
}

type tabLink struct {
	Tab    core.Tab
	Label  string
	Active bool
}

func tabLinks(active core.Tab) []tabLink {
	tabs := core.Tabs()
	links := make([]tabLink, 0, len(tabs))
	for _, t := range tabs {
		links = append(links, tabLink{Tab: t, Label: t.Label(), Active: t == active})
	}
	return links
}

// dashboardBody is the content area of the dashboard. The variants are
// closed: addExpenseBody, viewExpensesBody and analyticsBody.
type dashboardBody interface {
	Tab() core.Tab
	isDashboardBody()
}

type addExpenseBody struct {
	Name     form.Field
	Amount   form.Field
	Category form.Field
	Date     form.Field
}

func newAddExpenseBody(f *form.Form[form.ExpenseForm]) addExpenseBody {
	return addExpenseBody{
		Name:     f.Register(form.ExpenseName, expenseNameSpec),
		Amount:   f.Register(form.ExpenseAmount, expenseAmountSpec),
		Category: f.Register(form.ExpenseCategory, expenseCategorySpec),
		Date:     f.Register(form.ExpenseDate, expenseDateSpec),
	}
}

type viewExpensesBody struct {
	Count int
	Total string
	Rows  []expenseRow
}

// newViewExpensesBody renders the server's total as sent; it is not
// recomputed from the rows.
func newViewExpensesBody(list core.ExpenseListResult) viewExpensesBody {
	rows := make([]expenseRow, 0, len(list.Expenses))
	for _, e := range list.Expenses {
		rows = append(rows, expenseRow{
			ID:       e.ID,
			Name:     e.Name,
			Category: e.Category,
			Amount:   core.FormatAmount(e.Amount),
			Date:     core.DisplayDate(e.Date),
		})
	}
	return viewExpensesBody{
		Count: len(rows),
		Total: core.FormatAmount(list.TotalExpenses),
		Rows:  rows,
	}
}

type analyticsBody struct {
	Total string
	Bars  []core.CategoryTotal
}

func newAnalyticsBody(summary core.Summary) analyticsBody {
	return analyticsBody{Total: summary.Total.String(), Bars: summary.ByCategory}
}

func (addExpenseBody) Tab() core.Tab   { return core.TabAdd }
func (viewExpensesBody) Tab() core.Tab { return core.TabView }
func (analyticsBody) Tab() core.Tab    { return core.TabAnalytics }

func (addExpenseBody) isDashboardBody()   {}
func (viewExpensesBody) isDashboardBody() {}
func (analyticsBody) isDashboardBody()    {}

// fragmentFor names the partial template of a body variant.
func fragmentFor(b dashboardBody) string {
	switch b.(type) {
	case addExpenseBody:
		return "add_expense"
	case viewExpensesBody:
		return "view_expenses"
	case analyticsBody:
		return "analytics"
	default:
		panic("unknown dashboard body")
	}
}

type dashboardView struct {
	Title  string
	Notice *Notification
	Tabs   []tabLink
	Body   dashboardBody
}

func newDashboardView(body dashboardBody, note *Notification) dashboardView {
	return dashboardView{
		Title:  "Dashboard",
		Notice: note,
		Tabs:   tabLinks(body.Tab()),
		Body:   body,
	}
}

type analyticsPageView struct {
	Title  string
	Notice *Notification
	Body   analyticsBody
}

type notFoundView struct {
	Title  string
	Notice *Notification
}
