package core

import (
	"errors"
	"strings"
	"time"
)

// Dashboard tabs. The set is closed; ParseTab maps anything else to TabAdd.
const (
	TabAdd       Tab = "add"
	TabView      Tab = "view"
	TabAnalytics Tab = "analytics"
)

// DateLayout is the wire format of expense dates.
const DateLayout = "2006-01-02"

type (
	Tab string

	// Credentials are sent to the login endpoint. Never persisted.
	Credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	// SignupInfo is the signup payload; the password confirmation is a form
	// concern and has no field here.
	SignupInfo struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	// ExpenseDraft is what the add-expense form submits. Amount stays a
	// string on the wire.
	ExpenseDraft struct {
		Name     string `json:"name"`
		Amount   string `json:"amount"`
		Category string `json:"category"`
		Date     string `json:"date"`
	}

	ExpenseRecord struct {
		ID       int64   `json:"id"`
		Name     string  `json:"name"`
		Amount   float64 `json:"amount"`
		Category string  `json:"category"`
		Date     string  `json:"date"`
	}

	// ExpenseListResult mirrors the list endpoint. TotalExpenses is computed
	// by the server and is not reconciled with Expenses.
	ExpenseListResult struct {
		TotalExpenses float64
		Success       bool
		Message       string
		Expenses      []ExpenseRecord
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyName     = errors.New("empty expense name")
	ErrEmptyCategory = errors.New("empty category")
)

var tabLabels = map[Tab]string{
	TabAdd:       "Add New Expense",
	TabView:      "View Expenses",
	TabAnalytics: "Analytics",
}

// Tabs returns the dashboard tabs in sidebar order.
func Tabs() []Tab {
	return []Tab{TabAdd, TabView, TabAnalytics}
}

// ParseTab returns the tab named s, or TabAdd with ok=false when s is unknown.
func ParseTab(s string) (t Tab, ok bool) {
	t = Tab(strings.ToLower(strings.TrimSpace(s)))
	if _, known := tabLabels[t]; known {
		return t, true
	}
	return TabAdd, false
}

func (t Tab) Label() string {
	return tabLabels[t]
}

func (t Tab) String() string {
	return string(t)
}

// Today returns the default expense date.
func Today() string {
	return time.Now().Format(DateLayout)
}

// Validate checks the invariants the remote API relies on before a draft
// is sent. Form validation produces the field messages.
func (d ExpenseDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if _, err := NormalizeAmount(d.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(d.Category) == "" {
		return ErrEmptyCategory
	}
	if _, err := time.Parse(DateLayout, d.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// Without returns a copy of the result with the record id removed, and
// whether a record was removed. TotalExpenses is left untouched.
func (r ExpenseListResult) Without(id int64) (ExpenseListResult, bool) {
	out := r
	out.Expenses = make([]ExpenseRecord, 0, len(r.Expenses))
	removed := false
	for _, e := range r.Expenses {
		if e.ID == id {
			removed = true
			continue
		}
		out.Expenses = append(out.Expenses, e)
	}
	return out, removed
}

// CategoryAmounts projects the records onto chart data, in list order.
func (r ExpenseListResult) CategoryAmounts() []CategoryAmount {
	out := make([]CategoryAmount, 0, len(r.Expenses))
	for _, e := range r.Expenses {
		out = append(out, CategoryAmount{Category: e.Category, Amount: e.Amount})
	}
	return out
}

// DisplayDate renders a wire date as MM/DD/YYYY. Unparseable input is
// returned as is.
func DisplayDate(s string) string {
	for _, layout := range []string{time.RFC3339Nano, DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("01/02/2006")
		}
	}
	return s
}
