package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTMXResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		Status(http.StatusOK).
		BodyHTML([]byte("<p>test</p>")).
		Write(w)

	if w.Code != http.StatusOK {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.String() != "<p>test</p>" {
		t.Errorf("Body = %q, want %q", w.Body.String(), "<p>test</p>")
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if w.Header().Get("HX-Trigger") != "" {
		t.Errorf("HX-Trigger set without triggers")
	}
}

func TestHTMXResponseBuilder_Notification(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		TriggerSuccessNotification("Expense added successfully").
		Write(w)

	var triggers map[string]Notification
	if err := json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &triggers); err != nil {
		t.Fatalf("decode HX-Trigger: %v", err)
	}
	got, ok := triggers["show-notification"]
	if !ok {
		t.Fatalf("missing show-notification trigger: %v", triggers)
	}
	want := Notification{Type: NotificationSuccess, Message: "Expense added successfully", Duration: 3000}
	if got != want {
		t.Errorf("notification = %+v, want %+v", got, want)
	}
}

func TestHTMXResponseBuilder_NilNotification(t *testing.T) {
	w := httptest.NewRecorder()
	NewHTMXResponse().TriggerNotification(nil).Write(w)
	if w.Header().Get("HX-Trigger") != "" {
		t.Errorf("nil notification produced trigger %q", w.Header().Get("HX-Trigger"))
	}
}

func TestHTMXResponseBuilder_Navigate(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		TriggerNavigate(Navigation{Path: RouteLogin, Replace: true, Notification: errorNotification("gone")}).
		Write(w)

	var triggers map[string]Navigation
	if err := json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &triggers); err != nil {
		t.Fatalf("decode HX-Trigger: %v", err)
	}
	nav := triggers["navigate"]
	if nav.Path != "/" || !nav.Replace {
		t.Errorf("navigate = %+v", nav)
	}
	if nav.Notification == nil || nav.Notification.Type != NotificationError || nav.Notification.Duration != 5000 {
		t.Errorf("navigate notification = %+v", nav.Notification)
	}
}

func TestHTMXResponseBuilder_CustomHeader(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		Header("X-Custom", "value").
		Status(http.StatusCreated).
		Write(w)

	if w.Header().Get("X-Custom") != "value" {
		t.Errorf("Custom header not set")
	}
	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		builder    *HTMXResponseBuilder
		wantStatus int
		wantBody   string
	}{
		{
			name:       "bad request",
			builder:    BadRequestError("Invalid input"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `<div class="error">Invalid input</div>`,
		},
		{
			name:       "internal server error",
			builder:    InternalServerError("Something broke"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `<div class="error">Something broke</div>`,
		},
		{
			name:       "not found",
			builder:    NotFoundError("Resource not found"),
			wantStatus: http.StatusNotFound,
			wantBody:   `<div class="error">Resource not found</div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)

			if w.Code != tt.wantStatus {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantStatus)
			}
			if w.Body.String() != tt.wantBody {
				t.Errorf("Body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestErrorResponse_EscapesHTML(t *testing.T) {
	w := httptest.NewRecorder()
	BadRequestError(`<script>alert("x")</script>`).Write(w)

	if strings.Contains(w.Body.String(), "<script>") {
		t.Errorf("message not escaped: %q", w.Body.String())
	}
}

func TestLoginWithEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"", "/"},
		{"a@b.co", "/?email=a%40b.co"},
	}
	for _, tt := range tests {
		if got := loginWithEmail(tt.email); got != tt.want {
			t.Errorf("loginWithEmail(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}
