package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"expensetracker/internal/api"
	"expensetracker/internal/core"
	"expensetracker/internal/events"
	"expensetracker/internal/form"
	"expensetracker/internal/log"
)

const (
	msgExpenseAdded       = "Expense added successfully"
	msgExpenseAddError    = "Failed to add expense. Please try again."
	msgExpenseDeleted     = "Expense deleted successfully."
	msgExpenseDeleteError = "Error deleting expense."
)

var errInvalidDraft = errors.New("invalid expense draft")

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx).WithComponent(log.ComponentExpense)

	if err := r.ParseForm(); err != nil {
		BadRequestError(msgInvalidSubmit).Write(w)
		return
	}
	f := form.NewExpenseForm(s.validator)
	f.Bind(r.PostForm)

	var (
		draft  core.ExpenseDraft
		result api.Result
	)
	submitted, err := f.HandleSubmit(ctx, func(ctx context.Context, data form.ExpenseForm) error {
		draft = data.Draft()
		if err := draft.Validate(); err != nil {
			return fmt.Errorf("%w: %w", errInvalidDraft, err)
		}
		var err error
		result, err = s.api.CreateExpense(ctx, authFrom(ctx), draft)
		return err
	})

	var note *Notification
	switch {
	case !submitted && err != nil:
		logger.ErrorContext(ctx, "Expense validation failed", log.FieldOperation, log.OpValidate, log.FieldError, err)
		note = errorNotification(msgExpenseAddError)
	case !submitted:
	case errors.Is(err, errInvalidDraft):
		logger.ErrorContext(ctx, "Expense draft rejected", log.FieldOperation, log.OpValidate, log.FieldError, err)
		note = errorNotification(msgExpenseAddError)
	case err != nil:
		s.upstreamError(ctx, logger, log.OpCreate, err)
		note = errorNotification(msgExpenseAddError)
	case result.TokenExpired():
		// The backend no longer accepts the session, whatever success says.
		logger.InfoContext(ctx, "Access token expired", log.FieldOperation, log.OpCreate, log.FieldSuccess, result.Success)
		nav := Navigation{Path: RouteLogin, Replace: true, Notification: errorNotification(result.Message)}
		if result.Success {
			nav.Notification = successNotification(msgExpenseAdded)
		}
		s.endSession(ctx, w, r)
		navigate(w, r, nav)
		return
	case !result.Success:
		logger.InfoContext(ctx, "Expense rejected", log.FieldOperation, log.OpCreate, log.FieldMessage, result.Message)
		note = errorNotification(messageOr(result.Message, msgExpenseAddError))
	default:
		atomic.AddInt64(&s.appMetrics.expensesCreated, 1)
		if key, ok := cacheKey(ctx); ok {
			s.expenses.Delete(key)
		}
		ev := events.New(events.TypeExpenseCreated)
		ev.Name, ev.Amount, ev.Category = draft.Name, draft.Amount, draft.Category
		s.emit(ctx, ev)
		logger.InfoContext(ctx, "Expense created",
			log.FieldOperation, log.OpCreate,
			log.FieldExpenseName, draft.Name,
			log.FieldAmount, draft.Amount,
			log.FieldCategory, draft.Category)
		f.Reset()
		note = successNotification(msgExpenseAdded)
	}

	body := newAddExpenseBody(f)
	s.respond(w, r, note, "add_expense", body, "dashboard_page", newDashboardView(body, note))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx).WithComponent(log.ComponentExpense)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		BadRequestError("Invalid expense id").Write(w)
		return
	}

	var (
		note *Notification
		list core.ExpenseListResult
	)
	result, err := s.api.DeleteExpense(ctx, authFrom(ctx), id)
	switch {
	case err != nil:
		s.upstreamError(ctx, logger, log.OpDelete, err)
		note = errorNotification(msgExpenseDeleteError)
		list = s.cachedExpenses(ctx)
	case !result.Success:
		logger.InfoContext(ctx, "Expense delete rejected",
			log.FieldOperation, log.OpDelete,
			log.FieldExpenseID, id,
			log.FieldMessage, result.Message)
		note = errorNotification(msgExpenseDeleteError)
		list = s.cachedExpenses(ctx)
	default:
		atomic.AddInt64(&s.appMetrics.expensesDeleted, 1)
		ev := events.New(events.TypeExpenseDeleted)
		ev.ExpenseID = id
		s.emit(ctx, ev)
		logger.InfoContext(ctx, "Expense deleted", log.FieldOperation, log.OpDelete, log.FieldExpenseID, id)
		list = s.removeCachedExpense(ctx, id)
		note = successNotification(msgExpenseDeleted)
	}

	body := newViewExpensesBody(list)
	s.respond(w, r, note, "view_expenses", body, "dashboard_page", newDashboardView(body, note))
}

// cacheKey is the session the expense list is cached under.
func cacheKey(ctx context.Context) (string, bool) {
	sess, ok := sessionFrom(ctx)
	if !ok {
		return "", false
	}
	return sess.ID, true
}

// fetchExpenses loads the list from the backend and caches it for the
// session. Failures render as an empty list.
func (s *Server) fetchExpenses(ctx context.Context) core.ExpenseListResult {
	list, err := s.api.ListExpenses(ctx, authFrom(ctx))
	if err != nil {
		s.upstreamError(ctx, log.FromContext(ctx).WithComponent(log.ComponentExpense), log.OpList, err)
		return core.ExpenseListResult{}
	}
	if key, ok := cacheKey(ctx); ok {
		s.expenses.Set(key, list)
	}
	return list
}

// cachedExpenses returns the list the user is looking at, re-fetching
// only when nothing is cached.
func (s *Server) cachedExpenses(ctx context.Context) core.ExpenseListResult {
	if key, ok := cacheKey(ctx); ok {
		list, hit := s.expenses.Get(key)
		s.countCache(hit)
		if hit {
			return list
		}
	}
	return s.fetchExpenses(ctx)
}

// removeCachedExpense drops exactly the record id from the cached list.
// The server total is kept as it was.
func (s *Server) removeCachedExpense(ctx context.Context, id int64) core.ExpenseListResult {
	if key, ok := cacheKey(ctx); ok {
		list, hit := s.expenses.Update(key, func(l core.ExpenseListResult) (core.ExpenseListResult, bool) {
			out, _ := l.Without(id)
			return out, true
		})
		s.countCache(hit)
		if hit {
			return list
		}
	}
	return s.fetchExpenses(ctx)
}
