package http

import (
	"context"
	"errors"
	"net/http"

	"expensetracker/internal/api"
	"expensetracker/internal/log"
	"expensetracker/internal/session"
)

type (
	sessionKey      struct{}
	tokenExpiredKey struct{}
)

// withSession attaches the caller's live session, if any, to the request
// context. Requests without a session proceed unauthenticated; the backend
// decides what they may see. A session whose token has expired is ended
// here and the request is marked so mutations can send the user to login.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Load(r.Context(), r)
		switch {
		case errors.Is(err, session.ErrTokenExpired):
			ctx := r.Context()
			log.FromContext(ctx).InfoContext(ctx, "Access token expired", log.FieldSessionID, shortID(sess.ID))
			s.expenses.Delete(sess.ID)
			if err := s.sessions.Clear(ctx, w, r); err != nil {
				log.FromContext(ctx).ErrorContext(ctx, "Failed to clear session", log.FieldError, err)
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, tokenExpiredKey{}, true)))
			return
		case err != nil:
			if !errors.Is(err, session.ErrNotFound) {
				log.FromContext(r.Context()).WarnContext(r.Context(), "Session lookup failed", log.FieldError, err)
			}
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		logger := log.FromContext(ctx).With(log.FieldSessionID, shortID(sess.ID))
		ctx = context.WithValue(ctx, log.LoggerContextKey, logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireLiveToken stops a mutation whose session token expired locally
// and sends the user back to login instead of calling the backend.
func (s *Server) requireLiveToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if expired, _ := r.Context().Value(tokenExpiredKey{}).(bool); expired {
			navigate(w, r, Navigation{
				Path:         RouteLogin,
				Replace:      true,
				Notification: errorNotification(api.TokenExpiredMessage),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sessionFrom returns the session attached by withSession.
func sessionFrom(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(sessionKey{}).(session.Session)
	return sess, ok
}

// authFrom builds the backend credentials of the current request.
func authFrom(ctx context.Context) api.Auth {
	sess, ok := sessionFrom(ctx)
	if !ok {
		return api.Auth{}
	}
	cookies := make([]*http.Cookie, 0, len(sess.Cookies))
	for _, c := range sess.Cookies {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return api.Auth{Token: sess.Token, Cookies: cookies}
}

func sessionCookies(cookies []*http.Cookie) []session.Cookie {
	out := make([]session.Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, session.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

// shortID keeps session IDs out of logs in full.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
