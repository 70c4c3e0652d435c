package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"expensetracker/internal/core"
)

// TokenExpiredMessage is the server message that forces re-authentication.
const TokenExpiredMessage = "Token has expired, please log in again."

// IsTokenExpired reports whether a server message means the session is gone.
func IsTokenExpired(message string) bool {
	return strings.TrimSpace(message) == TokenExpiredMessage
}

// Flag is the success flag of every response. The signup endpoint has been
// seen answering with the string "true", so both forms decode to a bool.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if s == "null" {
		*f = false
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("decode success flag %s: %w", b, err)
	}
	*f = Flag(v)
	return nil
}

// Auth carries the credentials of one logged-in user.
type Auth struct {
	Token   string
	Cookies []*http.Cookie
}

func (a Auth) apply(req *http.Request) {
	for _, c := range a.Cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
}

// Result is the outcome of an application-level call.
type Result struct {
	Success bool
	Message string
}

// TokenExpired reports whether the server asked for a new login.
func (r Result) TokenExpired() bool { return IsTokenExpired(r.Message) }

// LoginResult adds the issued token and the cookies the backend set.
type LoginResult struct {
	Result
	Token   string
	Cookies []*http.Cookie
}

type statusResponse struct {
	Success Flag   `json:"success"`
	Message string `json:"message"`
}

func (r statusResponse) result() Result {
	return Result{Success: bool(r.Success), Message: r.Message}
}

type loginResponse struct {
	statusResponse
	Token string `json:"token"`
}

type listResponse struct {
	TotalExpenses float64              `json:"totalExpenses"`
	Success       Flag                 `json:"success"`
	Message       string               `json:"message"`
	Expenses      []core.ExpenseRecord `json:"expenses"`
}

type deleteRequest struct {
	ID int64 `json:"id"`
}
