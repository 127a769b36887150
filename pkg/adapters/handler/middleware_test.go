package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shorterhq/shorter/pkg/auth"
	"github.com/shorterhq/shorter/pkg/logging"
)

func TestRequireSession(t *testing.T) {
	sessions := auth.NewSessionTokens([]byte("test-secret"))
	mw := NewMiddleware(sessions, logging.Nop())

	valid, err := sessions.Issue("alice@example.com")
	if err != nil {
		t.Fatal(err)
	}
	foreign, err := auth.NewSessionTokens([]byte("other-secret")).Issue("alice@example.com")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedEmail  string
	}{
		{
			name:           "no header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed header",
			authHeader:     "Token abc",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "garbage token",
			authHeader:     "Bearer notajwt",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong signing secret",
			authHeader:     "Bearer " + foreign,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "valid token",
			authHeader:     "Bearer " + valid,
			expectedStatus: http.StatusOK,
			expectedEmail:  "alice@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotEmail string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotEmail = SessionEmail(r.Context())
			})

			req := httptest.NewRequest("GET", "/api/links", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			mw.RequireSession(next).ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
			if gotEmail != tt.expectedEmail {
				t.Errorf("expected email %q, got %q", tt.expectedEmail, gotEmail)
			}
		})
	}
}

func TestWithSessionTreatsInvalidAsAnonymous(t *testing.T) {
	sessions := auth.NewSessionTokens([]byte("test-secret"))
	mw := NewMiddleware(sessions, logging.Nop())

	var gotEmail string
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotEmail = SessionEmail(r.Context())
	})

	req := httptest.NewRequest("POST", "/api/links", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr := httptest.NewRecorder()

	mw.WithSession(next).ServeHTTP(rr, req)

	if !called {
		t.Fatal("next handler was not called")
	}
	if gotEmail != "" {
		t.Errorf("expected anonymous, got %q", gotEmail)
	}
}

func TestRequestID(t *testing.T) {
	mw := NewMiddleware(auth.NewSessionTokens([]byte("s")), logging.Nop())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest("GET", "/healthz", nil)
	rr := httptest.NewRecorder()
	mw.RequestID(next).ServeHTTP(rr, req)
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated X-Request-ID")
	}

	req = httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	rr = httptest.NewRecorder()
	mw.RequestID(next).ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-ID"); got != "upstream-id" {
		t.Errorf("expected upstream id to be preserved, got %q", got)
	}
}
