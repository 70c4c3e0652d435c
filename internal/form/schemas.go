package form

import "expensetracker/internal/core"

// LoginForm is the login page form.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email" msg:"Invalid email address"`
	Password string `form:"password,raw" validate:"required" msg:"Password is required"`
}

var (
	LoginEmail    = Key[LoginForm]("email")
	LoginPassword = Key[LoginForm]("password")
)

// Credentials converts the form to the login payload.
func (f LoginForm) Credentials() core.Credentials {
	return core.Credentials{Email: f.Email, Password: f.Password}
}

// SignupForm is the signup page form.
type SignupForm struct {
	Username        string `form:"username" validate:"required" msg:"Username is required"`
	Email           string `form:"email" validate:"required,email" msg:"Invalid email address"`
	Password        string `form:"password,raw" validate:"required" msg:"Password is required"`
	ConfirmPassword string `form:"confirmPassword,raw" validate:"required,matches=Password" msg:"Confirm password is required" msg_matches:"Passwords do not match"`
}

var (
	SignupUsername        = Key[SignupForm]("username")
	SignupEmail           = Key[SignupForm]("email")
	SignupPassword        = Key[SignupForm]("password")
	SignupConfirmPassword = Key[SignupForm]("confirmPassword")
)

// Info drops the confirmation before transmission.
func (f SignupForm) Info() core.SignupInfo {
	return core.SignupInfo{Username: f.Username, Email: f.Email, Password: f.Password}
}

// ExpenseForm is the add-expense form.
type ExpenseForm struct {
	Name     string `form:"name" validate:"required" msg:"Expense name is required"`
	Amount   string `form:"amount" validate:"positive_amount" msg:"Amount must be greater than 0"`
	Category string `form:"category" validate:"required" msg:"Category is required"`
	Date     string `form:"date" validate:"required,datetime=2006-01-02" msg:"Date is required" msg_datetime:"Date must be a valid date"`
}

var (
	ExpenseName     = Key[ExpenseForm]("name")
	ExpenseAmount   = Key[ExpenseForm]("amount")
	ExpenseCategory = Key[ExpenseForm]("category")
	ExpenseDate     = Key[ExpenseForm]("date")
)

// NewExpenseForm returns the add-expense form with the date defaulted to today.
func NewExpenseForm(v *Validator) *Form[ExpenseForm] {
	return New(v, ExpenseForm{Date: core.Today()})
}

// Draft converts the form to the create-expense payload. The amount is sent
// with a dot separator whatever the user typed; an amount the form would
// reject is passed through unchanged for ExpenseDraft.Validate to catch.
func (f ExpenseForm) Draft() core.ExpenseDraft {
	amount, err := core.NormalizeAmount(f.Amount)
	if err != nil {
		amount = f.Amount
	}
	return core.ExpenseDraft{Name: f.Name, Amount: amount, Category: f.Category, Date: f.Date}
}
