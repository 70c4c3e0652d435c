package http

import (
	"context"

	"expensetracker/internal/api"
	"expensetracker/internal/core"
)

// Gateway is the remote expense API as the handlers see it. *api.Client
// implements it.
type Gateway interface {
	Login(ctx context.Context, creds core.Credentials) (api.LoginResult, error)
	Signup(ctx context.Context, info core.SignupInfo) (api.Result, error)
	Logout(ctx context.Context, auth api.Auth) error
	CreateExpense(ctx context.Context, auth api.Auth, draft core.ExpenseDraft) (api.Result, error)
	ListExpenses(ctx context.Context, auth api.Auth) (core.ExpenseListResult, error)
	ListCategoryAmounts(ctx context.Context, auth api.Auth) ([]core.CategoryAmount, error)
	DeleteExpense(ctx context.Context, auth api.Auth, id int64) (api.Result, error)
}

var _ Gateway = (*api.Client)(nil)
