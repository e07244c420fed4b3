package workflows

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/desertthunder/trax/internal/shared"
)

// Search queries the gateway for import candidates.
//
// The call aborts before any network traffic when the session is signed out;
// the guard has already published the sign-in prompt in that case. An empty
// candidate list is not an error: it publishes "No results found." and
// returns an empty slice.
func (c *Coordinator) Search(ctx context.Context, query string) ([]SearchCandidate, error) {
	if !c.guard.RequireAuth() {
		return nil, shared.ErrNotAuthenticated
	}

	if err := c.searchLimit.Wait(ctx); err != nil {
		return nil, err
	}

	c.logger.Info("searching", "query", query)

	result, err := c.client.Get(ctx, "/songs/search?q="+url.QueryEscape(query))
	if err != nil {
		return nil, c.fail(err)
	}

	var payload struct {
		Candidates []SearchCandidate `json:"candidates"`
	}
	if err := result.Decode(&payload); err != nil {
		return nil, c.fail(fmt.Errorf("%w: %v", shared.ErrAPIRequest, err))
	}

	if len(payload.Candidates) == 0 {
		c.notify.Publish("No results found.")
		return []SearchCandidate{}, nil
	}

	// Server order is relevance rank; preserve it.
	return payload.Candidates, nil
}

// ImportCandidate submits a candidate for import into the library.
//
// Fire-and-forget from the client's viewpoint: the call does not poll for
// completion, and repeated submissions of the same candidate are passed
// through untouched because deduplication belongs to the gateway. The
// returned job ID, when the gateway provides one, can be fed to
// [Coordinator.JobStatus].
func (c *Coordinator) ImportCandidate(ctx context.Context, candidate SearchCandidate) (string, error) {
	if !c.guard.RequireAuth() {
		return "", shared.ErrNotAuthenticated
	}

	if err := c.importLimit.Wait(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(NewImportPayload(candidate))
	if err != nil {
		return "", fmt.Errorf("failed to marshal import request: %w", err)
	}

	c.logger.Info("importing candidate", "source_id", candidate.SourceID, "title", candidate.Title)

	result, err := c.client.Post(ctx, "/songs/import", body)
	if err != nil {
		return "", c.fail(err)
	}

	var ack struct {
		ID string `json:"id"`
	}
	if err := result.Decode(&ack); err != nil {
		// The ack shape is implementation-defined; a missing job ID is fine.
		ack.ID = ""
	}

	c.notify.Publish("Song import started.")
	return ack.ID, nil
}
