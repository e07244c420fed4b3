package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/trax/internal/shared"
	"github.com/urfave/cli/v3"
)

// JobStatus shows the status of a single import job, optionally polling
// until the job reaches a terminal state.
func (r *Runner) JobStatus(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: job id", shared.ErrMissingArgument)
	}

	if cmd.Bool("wait") {
		interval := cmd.Duration("interval")
		job, err := r.flows.AwaitJob(ctx, id, interval)
		if err != nil {
			return err
		}
		return r.printJob(job)
	}

	job, err := r.flows.JobStatus(ctx, id)
	if err != nil {
		return err
	}

	return r.printJob(job)
}

// adminGet fetches a single admin endpoint and prints the JSON payload.
func (r *Runner) adminGet(ctx context.Context, path string) error {
	if !r.session.RequireAuth() {
		return shared.ErrNotAuthenticated
	}

	resp, err := r.client.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.IsJSON {
		return r.writeJSON(resp.Value, true)
	}

	return r.writePlain("%s\n", resp.Raw)
}

// AdminUsers lists registered users.
func (r *Runner) AdminUsers(ctx context.Context, cmd *cli.Command) error {
	return r.adminGet(ctx, "/admin/users")
}

// AdminSongs lists catalog songs.
func (r *Runner) AdminSongs(ctx context.Context, cmd *cli.Command) error {
	return r.adminGet(ctx, "/admin/songs")
}

// AdminJobs lists import jobs.
func (r *Runner) AdminJobs(ctx context.Context, cmd *cli.Command) error {
	return r.adminGet(ctx, "/admin/jobs")
}

// AdminDump fetches every admin console endpoint at once, reporting
// per-endpoint failures without aborting the dump.
func (r *Runner) AdminDump(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()

	dump, err := r.flows.DumpAdmin(ctx)
	if err != nil {
		return err
	}

	r.logger.Infof("dump finished in %v", time.Since(start).Round(time.Millisecond))

	payload := map[string]any{
		"health": dump.Health,
		"users":  dump.Users,
		"songs":  dump.Songs,
		"jobs":   dump.Jobs,
	}

	if err := r.writeJSON(payload, cmd.Bool("pretty")); err != nil {
		return err
	}

	for _, failure := range dump.Errors {
		r.logger.Warnf("%s failed: %v", failure.Endpoint, failure.Error)
	}

	if len(dump.Errors) > 0 {
		return fmt.Errorf("%w: %d endpoint(s) failed", shared.ErrAPIRequest, len(dump.Errors))
	}

	return nil
}
