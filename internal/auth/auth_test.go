package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestVerifierRoundTrip(t *testing.T) {
	verifier := NewVerifier("test-secret")

	token, err := verifier.Sign(Principal{UID: "teacher-1", Email: "t@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	principal, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if principal.UID != "teacher-1" || principal.Email != "t@example.com" {
		t.Fatalf("unexpected principal %+v", principal)
	}
}

func TestVerifierRejects(t *testing.T) {
	verifier := NewVerifier("test-secret")

	expired, err := verifier.Sign(Principal{UID: "teacher-1"}, -time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	foreign, err := NewVerifier("other-secret").Sign(Principal{UID: "teacher-1"}, time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	for name, token := range map[string]string{
		"garbage":      "not-a-jwt",
		"expired":      expired,
		"wrong secret": foreign,
	} {
		if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestMiddlewareInjectsPrincipal(t *testing.T) {
	verifier := NewVerifier("test-secret")
	token, err := verifier.Sign(Principal{UID: "teacher-1", Email: "t@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	var got Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = PrincipalFromContext(r.Context())
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	Middleware(verifier, zerolog.Nop())(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.UID != "teacher-1" {
		t.Fatalf("principal not injected, got %+v", got)
	}
	// The raw credential rides along so it can be forwarded downstream.
	if got.Token != token {
		t.Fatal("raw token must be kept on the principal")
	}
}

func TestMiddlewareRejectsUnauthenticated(t *testing.T) {
	verifier := NewVerifier("test-secret")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for unauthenticated requests")
	})
	handler := Middleware(verifier, zerolog.Nop())(next)

	for name, header := range map[string]string{
		"missing":     "",
		"not bearer":  "Basic dXNlcjpwYXNz",
		"bad token":   "Bearer nope",
		"empty token": "Bearer ",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "You must be signed in to use this feature") {
				t.Fatalf("unexpected body %s", rec.Body.String())
			}
		})
	}
}
