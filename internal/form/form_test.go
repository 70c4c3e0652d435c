package form

import (
	"context"
	"errors"
	"net/url"
	"testing"
)

func TestBindTrimsExceptRawFields(t *testing.T) {
	f := New(NewValidator(), SignupForm{})
	f.Bind(url.Values{
		"username":        {"  ada\x00 "},
		"email":           {" ada@example.com "},
		"password":        {" pw "},
		"confirmPassword": {" pw "},
		"unknown":         {"ignored"},
	})
	d := f.Data()
	if d.Username != "ada" || d.Email != "ada@example.com" {
		t.Errorf("expected trimmed values, got %+v", d)
	}
	if d.Password != " pw " || d.ConfirmPassword != " pw " {
		t.Errorf("password fields must be kept raw, got %q / %q", d.Password, d.ConfirmPassword)
	}
}

func TestBindKeepsDefaultsForAbsentFields(t *testing.T) {
	f := New(NewValidator(), ExpenseForm{Date: "2025-01-01"})
	f.Bind(url.Values{"name": {"Lunch"}})
	if f.Value(ExpenseDate) != "2025-01-01" {
		t.Errorf("date default lost: %q", f.Value(ExpenseDate))
	}
	if f.Value(ExpenseName) != "Lunch" {
		t.Errorf("name = %q", f.Value(ExpenseName))
	}
}

func TestHandleSubmitBlocksInvalid(t *testing.T) {
	f := New(NewValidator(), ExpenseForm{Date: "2025-01-01"})
	f.Bind(url.Values{"name": {""}, "amount": {"12"}, "category": {"Food"}})

	called := false
	submitted, err := f.HandleSubmit(context.Background(), func(context.Context, ExpenseForm) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if submitted || called {
		t.Fatal("invalid form must not reach the submit handler")
	}
	if f.Valid() {
		t.Fatal("form should be invalid")
	}
	if got := f.Error(ExpenseName); got == nil || got.Error() != "Expense name is required" {
		t.Fatalf("name error = %v", got)
	}
	field := f.Register(ExpenseName, Spec{Label: "Expense Name"})
	if !field.Invalid() || field.ErrorText() != "Expense name is required" {
		t.Errorf("field binding should carry the error: %+v", field)
	}
}

func TestHandleSubmitPassesSnapshot(t *testing.T) {
	f := New(NewValidator(), LoginForm{})
	f.Bind(url.Values{"email": {"ada@example.com"}, "password": {"pw"}})

	var got LoginForm
	submitted, err := f.HandleSubmit(context.Background(), func(_ context.Context, d LoginForm) error {
		got = d
		return nil
	})
	if err != nil || !submitted {
		t.Fatalf("submitted=%v err=%v", submitted, err)
	}
	if got.Credentials().Email != "ada@example.com" || got.Password != "pw" {
		t.Errorf("unexpected snapshot: %+v", got)
	}
}

func TestHandleSubmitReturnsHandlerError(t *testing.T) {
	f := New(NewValidator(), LoginForm{Email: "ada@example.com", Password: "pw"})
	boom := errors.New("boom")
	submitted, err := f.HandleSubmit(context.Background(), func(context.Context, LoginForm) error { return boom })
	if !submitted || !errors.Is(err, boom) {
		t.Fatalf("submitted=%v err=%v", submitted, err)
	}
}

func TestResetAndSetError(t *testing.T) {
	f := NewExpenseForm(NewValidator())
	today := f.Value(ExpenseDate)
	if today == "" {
		t.Fatal("date should default to today")
	}
	f.Bind(url.Values{"name": {"Taxi"}, "date": {"2020-01-01"}})
	f.SetError(ExpenseCategory, "Unknown category")
	if f.Valid() {
		t.Fatal("SetError should invalidate the form")
	}

	f.Reset()
	if f.Value(ExpenseName) != "" || f.Value(ExpenseDate) != today {
		t.Errorf("reset should restore defaults: %+v", f.Data())
	}
	if !f.Valid() {
		t.Error("reset should clear errors")
	}
}

func TestRegister(t *testing.T) {
	f := New(NewValidator(), LoginForm{Email: "ada@example.com", Password: "pw"})
	email := f.Register(LoginEmail, Spec{Label: "Email", Placeholder: "Enter your email"})
	if email.ID != "field-email" || email.Name != "email" || email.Type != TypeText {
		t.Errorf("unexpected binding: %+v", email)
	}
	if email.Value != "ada@example.com" || email.Invalid() || email.ErrorText() != "" {
		t.Errorf("unexpected state: %+v", email)
	}

	pw := f.Register(LoginPassword, Spec{Label: "Password", Type: TypePassword})
	if pw.InputValue() != "" {
		t.Error("password value must not be rendered back")
	}
	if email.ID == pw.ID {
		t.Error("field ids must be unique per form")
	}
}

func TestSignupInfoDropsConfirmation(t *testing.T) {
	info := SignupForm{Username: "u", Email: "e@x.io", Password: "p", ConfirmPassword: "p"}.Info()
	if info.Username != "u" || info.Email != "e@x.io" || info.Password != "p" {
		t.Errorf("unexpected info: %+v", info)
	}
}
