package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/sanyaade-teachings/GradeWise/internal/models"
)

// Classification of a failed grading call. Callers translate these into
// their own error vocabulary; the raw remote detail stays in the log.
var (
	ErrGraderUnauthorized = errors.New("grading procedure rejected the credentials")
	ErrGraderTimeout      = errors.New("grading procedure timed out")
	ErrGraderRemote       = errors.New("grading procedure failed")
)

// GraderClient calls the remote grading procedure. One call per grading
// attempt: there is no retry loop here, a failed attempt is reported back
// and the user decides whether to try again.
type GraderClient interface {
	Grade(ctx context.Context, token string, req *models.GradeRequest) (*models.GradeResponse, error)
}

type graderClient struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	logger  zerolog.Logger
}

func NewGraderClient(baseURL string, timeout time.Duration, logger zerolog.Logger) GraderClient {
	return &graderClient{
		baseURL: baseURL,
		timeout: timeout,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *graderClient) Grade(ctx context.Context, token string, req *models.GradeRequest) (*models.GradeResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal grade request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/grade", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: no response within %s", ErrGraderTimeout, c.timeout)
		}
		return nil, fmt.Errorf("%w: %v", ErrGraderRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrGraderUnauthorized
	}

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		// Remote detail goes to the log only; callers surface a generic message.
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", string(respBody)).
			Str("submission_id", req.SubmissionID).
			Msg("Grading procedure returned an error")
		return nil, fmt.Errorf("%w: status %d", ErrGraderRemote, resp.StatusCode)
	}

	var gradeResp models.GradeResponse
	if err := json.NewDecoder(resp.Body).Decode(&gradeResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrGraderRemote, err)
	}

	c.logger.Info().
		Str("submission_id", req.SubmissionID).
		Msg("Grading procedure call succeeded")

	return &gradeResp, nil
}
