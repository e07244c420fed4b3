package workflows

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/trax/internal/shared"
)

// Job is the gateway's view of an import job.
type Job struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	SourceProvider string `json:"source_provider"`
	SourceID       string `json:"source_id"`
	Status         string `json:"status"`
	FailureReason  string `json:"failure_reason,omitempty"`
}

// Terminal reports whether the job has finished, successfully or not.
func (j *Job) Terminal() bool {
	return j.Status == "completed" || j.Status == "failed"
}

// JobStatus fetches the current state of an import job.
func (c *Coordinator) JobStatus(ctx context.Context, jobID string) (*Job, error) {
	if !c.guard.RequireAuth() {
		return nil, shared.ErrNotAuthenticated
	}

	result, err := c.client.Get(ctx, "/jobs/"+jobID)
	if err != nil {
		return nil, c.fail(err)
	}

	var job Job
	if err := result.Decode(&job); err != nil {
		return nil, c.fail(fmt.Errorf("%w: %v", shared.ErrAPIRequest, err))
	}

	return &job, nil
}

// AwaitJob polls an import job until it reaches a terminal status or the
// context is cancelled. Intervals below one second are raised to one second
// to keep polling polite.
func (c *Coordinator) AwaitJob(ctx context.Context, jobID string, interval time.Duration) (*Job, error) {
	if interval < time.Second {
		interval = time.Second
	}

	for {
		job, err := c.JobStatus(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if job.Terminal() {
			return job, nil
		}

		c.logger.Debug("job pending", "id", jobID, "status", job.Status)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}
