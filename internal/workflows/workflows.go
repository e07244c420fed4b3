// package workflows implements the auth-gated, multi-step gateway sequences
// behind each user-facing task: search then import, library then stream, job
// polling, and the admin data dump.
//
// Each operation is a plain function on the Coordinator returning values and
// errors; the calling UI layer decides how to invoke and display them. The
// Coordinator never transitions session state itself; it only consults the
// guard before its first authenticated request.
package workflows

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trax/internal/feedback"
	"github.com/desertthunder/trax/internal/gateway"
	"github.com/desertthunder/trax/internal/shared"
	"golang.org/x/time/rate"
)

// SearchCandidate is a single ephemeral search result offered for import.
// Candidates are never persisted and never re-sorted: the slice order is the
// server's relevance rank.
type SearchCandidate struct {
	SourceProvider  string  `json:"source_provider,omitempty"`
	SourceID        string  `json:"source_id"`
	Title           string  `json:"title"`
	Channel         string  `json:"channel,omitempty"`
	DurationSec     int     `json:"duration_sec,omitempty"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// LibrarySong is one entry of the server-side library. The authoritative copy
// lives on the gateway; the client only caches the last fetched list.
type LibrarySong struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// ImportPayload is the wire shape of an import request. The field-rename
// contract from candidate to payload lives in [NewImportPayload].
type ImportPayload struct {
	SourceProvider string          `json:"source_provider"`
	SourceID       string          `json:"source_id"`
	Title          string          `json:"title"`
	Artist         string          `json:"artist"`
	CandidateMeta  SearchCandidate `json:"candidate_meta"`
}

// NewImportPayload maps a candidate to an import request: the provider
// defaults to "youtube", the artist is taken from the channel defaulting to
// "Unknown", and the original candidate rides along as opaque metadata for
// server-side reconciliation.
func NewImportPayload(c SearchCandidate) ImportPayload {
	provider := c.SourceProvider
	if provider == "" {
		provider = "youtube"
	}
	artist := c.Channel
	if artist == "" {
		artist = "Unknown"
	}

	return ImportPayload{
		SourceProvider: provider,
		SourceID:       c.SourceID,
		Title:          c.Title,
		Artist:         artist,
		CandidateMeta:  c,
	}
}

// NowPlaying records the last successfully resolved stream.
type NowPlaying struct {
	Song      LibrarySong
	StreamURL string
}

// GatewayClient is the request surface the coordinator needs.
// Satisfied by [*gateway.Client]; narrowed for testing.
type GatewayClient interface {
	Request(ctx context.Context, path string, opts gateway.RequestOptions) (*gateway.Result, error)
	Get(ctx context.Context, path string) (*gateway.Result, error)
	Post(ctx context.Context, path string, body []byte) (*gateway.Result, error)
}

// Guard gates authenticated workflows. Satisfied by the session controller.
type Guard interface {
	RequireAuth() bool
}

// Coordinator owns the cached library list and the now-playing state, and
// throttles search and import calls to stay under the gateway's per-user
// rate limits.
type Coordinator struct {
	client GatewayClient
	guard  Guard
	notify *feedback.Notifier
	logger *log.Logger

	searchLimit *rate.Limiter
	importLimit *rate.Limiter

	state coordinatorState
}

// NewCoordinator creates a Coordinator with the provided dependencies.
func NewCoordinator(client GatewayClient, guard Guard, notify *feedback.Notifier, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Coordinator{
		client: client,
		guard:  guard,
		notify: notify,
		logger: logger,
		// Gateway defaults: 120 searches/min and 120 imports/hour per user.
		searchLimit: rate.NewLimiter(rate.Every(500*time.Millisecond), 10),
		importLimit: rate.NewLimiter(rate.Every(30*time.Second), 10),
	}
}

// fail publishes the normalized error message and passes the error through,
// so every workflow failure produces exactly one feedback message.
func (c *Coordinator) fail(err error) error {
	c.notify.Publish(err.Error())
	return err
}
