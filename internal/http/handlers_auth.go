package http

import (
	"context"
	"net/http"
	"sync/atomic"

	"expensetracker/internal/api"
	"expensetracker/internal/events"
	"expensetracker/internal/form"
	"expensetracker/internal/log"
)

const (
	msgLoginFailed   = "Login failed."
	msgLoginError    = "An error occurred. Please try again."
	msgSignupFailed  = "Failed to sign up"
	msgSignupError   = "Sign up failed. Please try again."
	msgLogoutError   = "An error occurred while logging out. Please try again."
	msgInvalidSubmit = "Invalid request."
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	f := form.New(s.validator, form.LoginForm{Email: r.URL.Query().Get("email")})
	s.render(w, r, NewHTMXResponse(), "login_page", newLoginView(f, nil))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx).WithComponent(log.ComponentAuth)

	if err := r.ParseForm(); err != nil {
		BadRequestError(msgInvalidSubmit).Write(w)
		return
	}
	f := form.New(s.validator, form.LoginForm{})
	f.Bind(r.PostForm)

	var result api.LoginResult
	submitted, err := f.HandleSubmit(ctx, func(ctx context.Context, data form.LoginForm) error {
		var err error
		result, err = s.api.Login(ctx, data.Credentials())
		return err
	})

	var note *Notification
	switch {
	case !submitted && err != nil:
		logger.ErrorContext(ctx, "Login validation failed", log.FieldOperation, log.OpValidate, log.FieldError, err)
		note = errorNotification(msgLoginError)
	case !submitted:
		// field errors only
	case err != nil:
		s.upstreamError(ctx, logger, log.OpLogin, err)
		note = errorNotification(msgLoginError)
	case !result.Success:
		logger.InfoContext(ctx, "Login rejected", log.FieldOperation, log.OpLogin, log.FieldMessage, result.Message)
		note = errorNotification(messageOr(result.Message, msgLoginFailed))
	default:
		sess, err := s.sessions.Start(ctx, w, r, result.Token, sessionCookies(result.Cookies))
		if err != nil {
			logger.ErrorContext(ctx, "Failed to start session", log.FieldOperation, log.OpLogin, log.FieldError, err)
			note = errorNotification(msgLoginError)
			break
		}
		atomic.AddInt64(&s.appMetrics.logins, 1)
		ev := events.New(events.TypeLogin)
		ev.SessionID = shortID(sess.ID)
		s.emit(ctx, ev)
		logger.InfoContext(ctx, "User logged in", log.FieldOperation, log.OpLogin)

		nav := Navigation{Path: RouteDashboard, Replace: true}
		if result.Message != "" {
			nav.Notification = successNotification(result.Message)
		}
		navigate(w, r, nav)
		return
	}

	view := newLoginView(f, note)
	s.respond(w, r, note, "login_form", view, "login_page", view)
}

func (s *Server) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	f := form.New(s.validator, form.SignupForm{})
	s.render(w, r, NewHTMXResponse(), "signup_page", newSignupView(f, nil))
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx).WithComponent(log.ComponentAuth)

	if err := r.ParseForm(); err != nil {
		BadRequestError(msgInvalidSubmit).Write(w)
		return
	}
	f := form.New(s.validator, form.SignupForm{})
	f.Bind(r.PostForm)

	var result api.Result
	submitted, err := f.HandleSubmit(ctx, func(ctx context.Context, data form.SignupForm) error {
		var err error
		result, err = s.api.Signup(ctx, data.Info())
		return err
	})

	var note *Notification
	switch {
	case !submitted && err != nil:
		logger.ErrorContext(ctx, "Signup validation failed", log.FieldOperation, log.OpValidate, log.FieldError, err)
		note = errorNotification(msgSignupError)
	case !submitted:
	case err != nil:
		s.upstreamError(ctx, logger, log.OpSignup, err)
		note = errorNotification(msgSignupError)
	case !result.Success:
		logger.InfoContext(ctx, "Signup rejected", log.FieldOperation, log.OpSignup, log.FieldMessage, result.Message)
		note = errorNotification(msgSignupFailed)
	default:
		atomic.AddInt64(&s.appMetrics.signups, 1)
		s.emit(ctx, events.New(events.TypeSignup))
		logger.InfoContext(ctx, "User signed up", log.FieldOperation, log.OpSignup)
		navigate(w, r, Navigation{Path: loginWithEmail(f.Value(form.SignupEmail))})
		return
	}

	view := newSignupView(f, note)
	s.respond(w, r, note, "signup_form", view, "signup_page", view)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx).WithComponent(log.ComponentAuth)

	if err := s.api.Logout(ctx, authFrom(ctx)); err != nil {
		logger.ErrorContext(ctx, "Logout failed", log.FieldOperation, log.OpLogout, log.FieldError, err)
		note := errorNotification(msgLogoutError)
		if isHTMX(r) {
			NewHTMXResponse().TriggerNotification(note).Write(w)
			return
		}
		s.renderDashboard(w, r, newAddExpenseBody(form.NewExpenseForm(s.validator)), note)
		return
	}

	s.emit(ctx, events.New(events.TypeLogout))
	s.endSession(ctx, w, r)
	logger.InfoContext(ctx, "User logged out", log.FieldOperation, log.OpLogout)
	navigate(w, r, Navigation{Path: RouteLogin, Replace: true})
}

// endSession forgets the access token and the cached expense list.
func (s *Server) endSession(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if sess, ok := sessionFrom(ctx); ok {
		s.expenses.Delete(sess.ID)
	}
	if err := s.sessions.Clear(ctx, w, r); err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Failed to clear session", log.FieldError, err)
	}
}

// emit publishes an activity event tagged with the caller's session.
func (s *Server) emit(ctx context.Context, ev events.Event) {
	if sess, ok := sessionFrom(ctx); ok && ev.SessionID == "" {
		ev.SessionID = shortID(sess.ID)
	}
	s.events.Notify(ctx, ev)
}

// upstreamError records a transport or decoding failure of the backend.
func (s *Server) upstreamError(ctx context.Context, logger *log.Logger, op string, err error) {
	atomic.AddInt64(&s.appMetrics.upstreamErrors, 1)
	logger.ErrorContext(ctx, "Backend call failed",
		log.FieldOperation, op,
		log.FieldError, err,
		"error_type", log.ErrorTypeUpstream)
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
