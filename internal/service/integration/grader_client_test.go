package integration

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sanyaade-teachings/GradeWise/internal/models"
)

func TestGraderClientSuccess(t *testing.T) {
	var gotAuth string
	var gotReq models.GradeRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(models.GradeResponse{Result: "A-. Clear argument."})
	}))
	defer server.Close()

	client := NewGraderClient(server.URL, 5*time.Second, zerolog.Nop())
	resp, err := client.Grade(context.Background(), "caller-token", &models.GradeRequest{
		SubmissionID: "s1",
		Prompt:       "grade this",
	})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if resp.Result != "A-. Clear argument." {
		t.Fatalf("unexpected result %q", resp.Result)
	}
	if gotAuth != "Bearer caller-token" {
		t.Fatalf("caller token must be forwarded, got %q", gotAuth)
	}
	if gotReq.Prompt != "grade this" {
		t.Fatalf("prompt must be sent in the body, got %q", gotReq.Prompt)
	}
}

func TestGraderClientUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewGraderClient(server.URL, 5*time.Second, zerolog.Nop())
	_, err := client.Grade(context.Background(), "bad-token", &models.GradeRequest{Prompt: "p"})
	if !errors.Is(err, ErrGraderUnauthorized) {
		t.Fatalf("expected ErrGraderUnauthorized, got %v", err)
	}
}

func TestGraderClientRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Internal Server Error","message":"Error grading assignment"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewGraderClient(server.URL, 5*time.Second, zerolog.Nop())
	_, err := client.Grade(context.Background(), "token", &models.GradeRequest{Prompt: "p"})
	if !errors.Is(err, ErrGraderRemote) {
		t.Fatalf("expected ErrGraderRemote, got %v", err)
	}
}

func TestGraderClientTimeout(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewGraderClient(server.URL, 50*time.Millisecond, zerolog.Nop())
	_, err := client.Grade(context.Background(), "token", &models.GradeRequest{Prompt: "p"})
	if !errors.Is(err, ErrGraderTimeout) {
		t.Fatalf("expected ErrGraderTimeout, got %v", err)
	}
	<-started
}

func TestGraderClientSingleRequestPerCall(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewGraderClient(server.URL, 5*time.Second, zerolog.Nop())
	if _, err := client.Grade(context.Background(), "token", &models.GradeRequest{Prompt: "p"}); err == nil {
		t.Fatal("expected error")
	}
	if requests != 1 {
		t.Fatalf("a failed call must not be retried, got %d requests", requests)
	}
}
