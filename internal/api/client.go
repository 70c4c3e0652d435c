// Package api is the gateway to the remote expense API. Each user action is
// one request; nothing is retried.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

// Endpoint paths. The list endpoint exists in two flavours: "/api" returns
// the record list with a server total, "/api/" a bare category/amount list.
const (
	PathLogin   = "/api/user/login"
	PathSignup  = "/api/user/signup"
	PathLogout  = "/api/user/logout"
	PathExpense = "/api"
	PathSummary = "/api/"
)

// ErrUnexpectedStatus is wrapped when a status-checked call gets a non-2xx.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Error reports a transport or decoding failure of one operation.
type Error struct {
	Op     string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api %s (status %d): %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("api %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client issues requests against a fixed backend origin.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	logger    *log.Logger
}

// New returns a client for cfg.BaseURL.
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "expensetracker-web"
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: ua,
		http:      hc,
		logger:    logger.WithComponent(log.ComponentAPI),
	}
}

// Login posts credentials. On success the token and the backend cookies are
// returned for the caller to keep.
func (c *Client) Login(ctx context.Context, creds core.Credentials) (LoginResult, error) {
	resp, err := c.do(ctx, log.OpLogin, http.MethodPost, PathLogin, nil, creds)
	if err != nil {
		return LoginResult{}, err
	}
	var out loginResponse
	if err := resp.decode(log.OpLogin, &out); err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Result: out.result(), Token: out.Token, Cookies: resp.cookies}, nil
}

// Signup registers a user. The request carries no credentials.
func (c *Client) Signup(ctx context.Context, info core.SignupInfo) (Result, error) {
	return c.status(ctx, log.OpSignup, http.MethodPost, PathSignup, nil, info)
}

// Logout asks the backend to invalidate the session cookie. Any non-2xx
// response is an error; the body is ignored.
func (c *Client) Logout(ctx context.Context, auth Auth) error {
	resp, err := c.do(ctx, log.OpLogout, http.MethodPost, PathLogout, &auth, struct{}{})
	if err != nil {
		return err
	}
	return resp.requireOK(log.OpLogout)
}

// CreateExpense posts a draft to the API root.
func (c *Client) CreateExpense(ctx context.Context, auth Auth, draft core.ExpenseDraft) (Result, error) {
	return c.status(ctx, log.OpCreate, http.MethodPost, PathExpense, &auth, draft)
}

// ListExpenses returns the records and the server-computed total.
func (c *Client) ListExpenses(ctx context.Context, auth Auth) (core.ExpenseListResult, error) {
	resp, err := c.do(ctx, log.OpList, http.MethodGet, PathExpense, &auth, nil)
	if err != nil {
		return core.ExpenseListResult{}, err
	}
	var out listResponse
	if err := resp.decode(log.OpList, &out); err != nil {
		return core.ExpenseListResult{}, err
	}
	return core.ExpenseListResult{
		TotalExpenses: out.TotalExpenses,
		Success:       bool(out.Success),
		Message:       out.Message,
		Expenses:      out.Expenses,
	}, nil
}

// ListCategoryAmounts reads the legacy chart endpoint. Unlike the record
// list it treats a non-2xx status as a failure.
func (c *Client) ListCategoryAmounts(ctx context.Context, auth Auth) ([]core.CategoryAmount, error) {
	resp, err := c.do(ctx, log.OpSummary, http.MethodGet, PathSummary, &auth, nil)
	if err != nil {
		return nil, err
	}
	if err := resp.requireOK(log.OpSummary); err != nil {
		return nil, err
	}
	var out []core.CategoryAmount
	if err := resp.decode(log.OpSummary, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteExpense removes one record by id.
func (c *Client) DeleteExpense(ctx context.Context, auth Auth, id int64) (Result, error) {
	return c.status(ctx, log.OpDelete, http.MethodDelete, PathExpense, &auth, deleteRequest{ID: id})
}

func (c *Client) status(ctx context.Context, op, method, path string, auth *Auth, body any) (Result, error) {
	resp, err := c.do(ctx, op, method, path, auth, body)
	if err != nil {
		return Result{}, err
	}
	var out statusResponse
	if err := resp.decode(op, &out); err != nil {
		return Result{}, err
	}
	return out.result(), nil
}

// maxResponseBytes bounds how much of a backend body is read.
const maxResponseBytes = 4 << 20

type response struct {
	status  int
	cookies []*http.Cookie
	body    []byte
}

func (r *response) requireOK(op string) error {
	if r.status < 200 || r.status > 299 {
		return &Error{Op: op, Status: r.status, Err: ErrUnexpectedStatus}
	}
	return nil
}

func (r *response) decode(op string, out any) error {
	if err := json.Unmarshal(r.body, out); err != nil {
		return &Error{Op: op, Status: r.status, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// do sends one JSON request and reads the whole response.
func (c *Client) do(ctx context.Context, op, method, path string, auth *Auth, body any) (*response, error) {
	start := time.Now()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &Error{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if auth != nil {
		auth.apply(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "Backend request failed",
			log.FieldOperation, op,
			log.FieldMethod, method,
			log.FieldPath, path,
			log.FieldError, err,
			"error_type", log.ErrorTypeNetwork)
		return nil, &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.DebugContext(ctx, "Backend request completed",
		log.FieldOperation, op,
		log.FieldMethod, method,
		log.FieldPath, path,
		log.FieldStatusCode, resp.StatusCode,
		log.FieldDuration, time.Since(start).Milliseconds())

	return &response{status: resp.StatusCode, cookies: resp.Cookies(), body: data}, nil
}
