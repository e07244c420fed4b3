package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/trax/internal/shared"
	"github.com/desertthunder/trax/internal/workflows"
	"github.com/urfave/cli/v3"
)

// Search queries the gateway for import candidates and prints them
// in ranked order.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	r.logger.Infof("searching for %v", query)

	candidates, err := r.flows.Search(ctx, query)
	if err != nil {
		return err
	}

	if len(candidates) == 0 {
		return nil
	}

	if cmd.Bool("json") {
		return r.writeJSON(candidates, true)
	}

	r.writePlain("Found %d candidates:\n\n", len(candidates))
	for i, c := range candidates {
		r.writePlain("%d. %s\n", i+1, c.Title)
		r.writePlain("   Channel: %s\n", c.Channel)
		r.writePlain("   Source: %s (%s)\n", c.SourceID, c.SourceProvider)
		if c.DurationSec > 0 {
			r.writePlain("   Duration: %s\n", (time.Duration(c.DurationSec) * time.Second).String())
		}
		if c.ConfidenceScore > 0 {
			r.writePlain("   Confidence: %.2f\n", c.ConfidenceScore)
		}
		r.writePlain("\n")
	}

	return nil
}

// Import submits a candidate for import, optionally polling the
// resulting job until it reaches a terminal state.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	candidate := workflows.SearchCandidate{
		SourceProvider: cmd.String("provider"),
		SourceID:       cmd.String("source-id"),
		Title:          cmd.String("title"),
		Channel:        cmd.String("channel"),
	}

	r.logger.Infof("importing %v", candidate.SourceID)

	jobID, err := r.flows.ImportCandidate(ctx, candidate)
	if err != nil {
		return err
	}

	// The outcome line arrives through the notifier sink; only the job ID,
	// which the toast omits, gets its own line.
	if jobID == "" {
		return nil
	}

	r.writePlain("Job: %s\n", jobID)

	if !cmd.Bool("wait") {
		return nil
	}

	job, err := r.flows.AwaitJob(ctx, jobID, 2*time.Second)
	if err != nil {
		return err
	}

	return r.printJob(job)
}

// printJob writes a one-screen summary of an import job.
func (r *Runner) printJob(job *workflows.Job) error {
	r.writePlain("Job %s: %s\n", job.ID, job.Status)
	if job.SourceID != "" {
		r.writePlain("Source: %s (%s)\n", job.SourceID, job.SourceProvider)
	}
	if job.FailureReason != "" {
		r.writePlain("Failure: %s\n", job.FailureReason)
	}
	return nil
}
