package httpd

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/sanyaade-teachings/GradeWise/internal/auth"
	"github.com/sanyaade-teachings/GradeWise/internal/models"
	"github.com/sanyaade-teachings/GradeWise/internal/service"
)

type stubAssignmentService struct {
	err        error
	assignment *models.Assignment
	gotOwner   string
}

func (s *stubAssignmentService) CreateAssignment(ctx context.Context, p auth.Principal, req *models.CreateAssignmentRequest) (*models.Assignment, error) {
	s.gotOwner = p.UID
	return s.assignment, s.err
}

func (s *stubAssignmentService) GetAssignmentByID(ctx context.Context, p auth.Principal, id string) (*models.Assignment, error) {
	s.gotOwner = p.UID
	return s.assignment, s.err
}

func (s *stubAssignmentService) GetAllAssignments(ctx context.Context, p auth.Principal) ([]models.AssignmentWithStats, error) {
	return nil, s.err
}

func (s *stubAssignmentService) DeleteAssignment(ctx context.Context, p auth.Principal, id string) error {
	return s.err
}

type stubSubmissionService struct {
	err        error
	submission *models.Submission
	gotUpload  *models.UploadSubmissionRequest
	gotFilter  models.SubmissionFilter
}

func (s *stubSubmissionService) UploadSubmission(ctx context.Context, p auth.Principal, req *models.UploadSubmissionRequest) (*models.Submission, error) {
	s.gotUpload = req
	return s.submission, s.err
}

func (s *stubSubmissionService) ListSubmissions(ctx context.Context, p auth.Principal, assignmentID string, filter models.SubmissionFilter) (*models.SubmissionsResponse, error) {
	s.gotFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	return &models.SubmissionsResponse{}, nil
}

func (s *stubSubmissionService) DeleteSubmission(ctx context.Context, p auth.Principal, assignmentID, id string) error {
	return s.err
}

type stubGradingService struct {
	err error
}

func (s *stubGradingService) GradeSubmission(ctx context.Context, p auth.Principal, assignmentID, submissionID string) (*models.GradingResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.GradingResponse{SubmissionID: submissionID, GradingResult: "A"}, nil
}

type stubOnboardingService struct{}

func (s *stubOnboardingService) GetProgress(ctx context.Context, p auth.Principal) (*models.OnboardingProgress, error) {
	return &models.OnboardingProgress{OwnerID: p.UID}, nil
}

type testServer struct {
	router      chi.Router
	verifier    *auth.Verifier
	assignments *stubAssignmentService
	submissions *stubSubmissionService
	grading     *stubGradingService
}

func newTestServer() *testServer {
	s := &testServer{
		verifier:    auth.NewVerifier("test-secret"),
		assignments: &stubAssignmentService{},
		submissions: &stubSubmissionService{},
		grading:     &stubGradingService{},
	}
	handler := NewHandler(s.assignments, s.submissions, s.grading, &stubOnboardingService{}, zerolog.Nop())
	s.router = chi.NewRouter()
	handler.RegisterRoutes(s.router, auth.Middleware(s.verifier, zerolog.Nop()))
	return s
}

func (s *testServer) do(t *testing.T, method, path string, body *bytes.Buffer, authed bool, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed {
		token, err := s.verifier.Sign(auth.Principal{UID: "teacher-1"}, time.Hour)
		if err != nil {
			t.Fatalf("Sign: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestAPIRequiresAuth(t *testing.T) {
	s := newTestServer()

	paths := []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/assignments"},
		{"POST", "/api/v1/assignments"},
		{"GET", "/api/v1/assignments/a1"},
		{"DELETE", "/api/v1/assignments/a1"},
		{"GET", "/api/v1/assignments/a1/submissions"},
		{"POST", "/api/v1/assignments/a1/submissions/s1/grade"},
		{"GET", "/api/v1/onboarding"},
	}
	for _, p := range paths {
		rec := s.do(t, p.method, p.path, nil, false, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", p.method, p.path, rec.Code)
		}
	}
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer()
	rec := s.do(t, "GET", "/health", nil, false, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestServiceErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrValidation, http.StatusBadRequest},
		{service.ErrUnauthenticated, http.StatusUnauthorized},
		{service.ErrAssignmentNotFound, http.StatusNotFound},
		{service.ErrSubmissionNotFound, http.StatusNotFound},
		{service.ErrAlreadyGraded, http.StatusConflict},
		{service.ErrGradingInFlight, http.StatusConflict},
		{service.ErrContentFetch, http.StatusBadGateway},
		{service.ErrGradingTimeout, http.StatusGatewayTimeout},
		{service.ErrGradingRemote, http.StatusBadGateway},
		{service.ErrStore, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			s := newTestServer()
			s.grading.err = tc.err

			rec := s.do(t, "POST", "/api/v1/assignments/a1/submissions/s1/grade", nil, true, "")
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreateAssignmentUsesPrincipal(t *testing.T) {
	s := newTestServer()
	s.assignments.assignment = &models.Assignment{ID: "a1"}

	body := bytes.NewBufferString(`{"name":"Essay","description":"d","grading_rubric":"r","education_level":"High School"}`)
	rec := s.do(t, "POST", "/api/v1/assignments", body, true, "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	// The owner comes from the verified token, never from the payload.
	if s.assignments.gotOwner != "teacher-1" {
		t.Fatalf("expected principal owner, got %q", s.assignments.gotOwner)
	}
}

func TestUploadSubmissionMultipart(t *testing.T) {
	s := newTestServer()
	s.submissions.submission = &models.Submission{ID: "s1", FileName: "essay.txt"}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "essay.txt")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write([]byte("Hello world"))
	mw.Close()

	rec := s.do(t, "POST", "/api/v1/assignments/a1/submissions", &buf, true, mw.FormDataContentType())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if s.submissions.gotUpload == nil {
		t.Fatal("upload never reached the service")
	}
	if s.submissions.gotUpload.FileName != "essay.txt" || string(s.submissions.gotUpload.FileContent) != "Hello world" {
		t.Fatalf("unexpected upload request %+v", s.submissions.gotUpload)
	}
	if s.submissions.gotUpload.AssignmentID != "a1" {
		t.Fatalf("assignment id must come from the route, got %q", s.submissions.gotUpload.AssignmentID)
	}
}

func TestUploadSubmissionRequiresMultipart(t *testing.T) {
	s := newTestServer()

	rec := s.do(t, "POST", "/api/v1/assignments/a1/submissions", bytes.NewBufferString("{}"), true, "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListSubmissionsStatusFilter(t *testing.T) {
	cases := []struct {
		query string
		want  models.SubmissionFilter
	}{
		{"", models.FilterAll},
		{"?status=graded", models.FilterGraded},
		{"?status=ungraded", models.FilterUngraded},
		{"?status=bogus", models.FilterAll},
	}

	for _, tc := range cases {
		s := newTestServer()
		rec := s.do(t, "GET", "/api/v1/assignments/a1/submissions"+tc.query, nil, true, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%q: expected 200, got %d", tc.query, rec.Code)
		}
		if s.submissions.gotFilter != tc.want {
			t.Fatalf("%q: expected filter %s, got %s", tc.query, tc.want, s.submissions.gotFilter)
		}
	}
}

func TestGradeSubmissionResponseShape(t *testing.T) {
	s := newTestServer()

	rec := s.do(t, "POST", "/api/v1/assignments/a1/submissions/s1/grade", nil, true, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Success bool                   `json:"success"`
		Data    models.GradingResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Data.GradingResult != "A" || resp.Data.SubmissionID != "s1" {
		t.Fatalf("unexpected response %+v", resp)
	}
}
