package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sanyaade-teachings/GradeWise/internal/models"
	"github.com/sanyaade-teachings/GradeWise/internal/service/storage"
)

// In-memory fakes for the repository, blob store, grading client and
// event publisher interfaces.

type fakeAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[string]*models.Assignment
	createCalls int
	deleteErr   error
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[string]*models.Assignment)}
}

func (r *fakeAssignmentRepo) Create(ctx context.Context, a *models.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	copied := *a
	r.assignments[a.ID] = &copied
	return nil
}

func (r *fakeAssignmentRepo) GetByID(ctx context.Context, ownerID, id string) (*models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[id]
	if !ok || a.OwnerID != ownerID {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAssignmentRepo) GetAllByOwner(ctx context.Context, ownerID string) ([]models.AssignmentWithStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AssignmentWithStats
	for _, a := range r.assignments {
		if a.OwnerID == ownerID {
			out = append(out, models.AssignmentWithStats{Assignment: *a})
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	a, ok := r.assignments[id]
	if !ok || a.OwnerID != ownerID {
		return nil
	}
	delete(r.assignments, id)
	return nil
}

func (r *fakeAssignmentRepo) Exists(ctx context.Context, ownerID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[id]
	return ok && a.OwnerID == ownerID, nil
}

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	submissions map[string]*models.Submission
	createErr   error
	createCalls int
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: make(map[string]*models.Submission)}
}

func (r *fakeSubmissionRepo) Create(ctx context.Context, s *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	copied := *s
	r.submissions[s.ID] = &copied
	return nil
}

func (r *fakeSubmissionRepo) GetByID(ctx context.Context, ownerID, assignmentID, id string) (*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.submissions[id]
	if !ok || s.OwnerID != ownerID || s.AssignmentID != assignmentID {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSubmissionRepo) ListByAssignment(ctx context.Context, ownerID, assignmentID string, filter models.SubmissionFilter) ([]models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Submission
	for _, s := range r.submissions {
		if s.OwnerID != ownerID || s.AssignmentID != assignmentID {
			continue
		}
		switch filter {
		case models.FilterGraded:
			if !s.Graded {
				continue
			}
		case models.FilterUngraded:
			if s.Graded {
				continue
			}
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSubmissionRepo) MarkGraded(ctx context.Context, ownerID, assignmentID, id, result string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.submissions[id]
	if !ok || s.OwnerID != ownerID || s.AssignmentID != assignmentID {
		return errors.New("submission not found")
	}
	s.Graded = true
	s.GradingResult = &result
	return nil
}

func (r *fakeSubmissionRepo) Delete(ctx context.Context, ownerID, assignmentID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.submissions, id)
	return nil
}

func (r *fakeSubmissionRepo) DeleteAllByAssignment(ctx context.Context, ownerID, assignmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.submissions {
		if s.OwnerID == ownerID && s.AssignmentID == assignmentID {
			delete(r.submissions, id)
		}
	}
	return nil
}

func (r *fakeSubmissionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.submissions)
}

type fakeStorage struct {
	mu          sync.Mutex
	objects     map[string][]byte
	uploadCalls int
	deleteCalls int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) Upload(ctx context.Context, key string, data io.Reader, size int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadCalls++
	content, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	s.objects[key] = content
	return nil
}

func (s *fakeStorage) Download(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.objects[key]
	if !ok {
		return nil, 0, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(content)), int64(len(content)), nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok, nil
}

func (s *fakeStorage) GetURL(key string) string {
	return "http://storage.local/" + key
}

type fakeGraderClient struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	tokens  []string
	result  string
	err     error
	block   chan struct{} // when set, Grade waits until the channel closes
}

func (c *fakeGraderClient) Grade(ctx context.Context, token string, req *models.GradeRequest) (*models.GradeResponse, error) {
	c.mu.Lock()
	c.calls++
	c.prompts = append(c.prompts, req.Prompt)
	c.tokens = append(c.tokens, token)
	block := c.block
	c.mu.Unlock()

	if block != nil {
		<-block
	}
	if c.err != nil {
		return nil, c.err
	}
	return &models.GradeResponse{Result: c.result}, nil
}

func (c *fakeGraderClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type fakeEventPublisher struct {
	mu     sync.Mutex
	events []models.DomainEvent
}

func (p *fakeEventPublisher) Publish(ctx context.Context, event *models.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *event)
	return nil
}

func (p *fakeEventPublisher) Close() error { return nil }

func (p *fakeEventPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Kind)
	}
	return out
}
