package workflows

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/trax/internal/feedback"
	"github.com/desertthunder/trax/internal/gateway"
	"github.com/desertthunder/trax/internal/shared"
)

type allowGuard struct{}

func (allowGuard) RequireAuth() bool { return true }

type denyGuard struct {
	notify *feedback.Notifier
}

func (g denyGuard) RequireAuth() bool {
	g.notify.Publish("Sign in first.")
	return false
}

type emptyTokens struct{}

func (emptyTokens) Token() string { return "" }

func newCoordinator(t *testing.T, handler http.Handler) (*Coordinator, *feedback.Notifier) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	notify := feedback.New(time.Minute)
	client := gateway.New(server.URL, nil, emptyTokens{})
	return NewCoordinator(client, allowGuard{}, notify, nil), notify
}

func TestSearch(t *testing.T) {
	t.Run("Returns Candidates In Server Order", func(t *testing.T) {
		c, _ := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/songs/search" {
				t.Errorf("expected path '/songs/search', got %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("q"); got != "bohemian rhapsody" {
				t.Errorf("expected query 'bohemian rhapsody', got %q", got)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"candidates": []map[string]any{
					{"source_id": "vid-2", "title": "Second", "confidence_score": 0.4},
					{"source_id": "vid-1", "title": "First", "confidence_score": 0.9},
				},
			})
		}))

		candidates, err := c.Search(context.Background(), "bohemian rhapsody")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(candidates) != 2 {
			t.Fatalf("expected 2 candidates, got %d", len(candidates))
		}
		// Server order is relevance rank, even when scores disagree.
		if candidates[0].SourceID != "vid-2" || candidates[1].SourceID != "vid-1" {
			t.Errorf("expected server order preserved, got %v", candidates)
		}
	})

	t.Run("Empty Results Publish No Results Found", func(t *testing.T) {
		c, notify := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
		}))

		candidates, err := c.Search(context.Background(), "xyzzy")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(candidates) != 0 {
			t.Errorf("expected empty slice, got %v", candidates)
		}
		if got := notify.Current(); got != "No results found." {
			t.Errorf("expected 'No results found.' feedback, got %q", got)
		}
	})

	t.Run("Gateway Error Publishes Its Message", func(t *testing.T) {
		c, notify := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Search backend down"})
		}))

		_, err := c.Search(context.Background(), "anything")
		if err == nil {
			t.Fatal("expected error")
		}
		if got := notify.Current(); got != "Search backend down" {
			t.Errorf("expected gateway detail as feedback, got %q", got)
		}
	})

	t.Run("Signed Out Aborts Before Any Request", func(t *testing.T) {
		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
		}))
		defer server.Close()

		notify := feedback.New(time.Minute)
		client := gateway.New(server.URL, nil, emptyTokens{})
		c := NewCoordinator(client, denyGuard{notify}, notify, nil)

		_, err := c.Search(context.Background(), "anything")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if requests != 0 {
			t.Errorf("expected no requests, got %d", requests)
		}
		if got := notify.Current(); got != "Sign in first." {
			t.Errorf("expected sign-in prompt, got %q", got)
		}
	})
}

func TestImportCandidate(t *testing.T) {
	t.Run("Posts Mapped Payload And Publishes", func(t *testing.T) {
		var received ImportPayload
		c, notify := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/songs/import" {
				t.Errorf("expected path '/songs/import', got %s", r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
				t.Fatalf("failed to decode payload: %v", err)
			}
			w.WriteHeader(http.StatusAccepted)
			json.NewEncoder(w).Encode(map[string]string{"id": "job-1"})
		}))

		jobID, err := c.ImportCandidate(context.Background(), SearchCandidate{
			SourceID: "vid-1",
			Title:    "Song Title",
			Channel:  "Some Channel",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if jobID != "job-1" {
			t.Errorf("expected job ID 'job-1', got %q", jobID)
		}
		if received.SourceProvider != "youtube" {
			t.Errorf("expected provider default 'youtube', got %q", received.SourceProvider)
		}
		if received.Artist != "Some Channel" {
			t.Errorf("expected artist from channel, got %q", received.Artist)
		}
		if received.CandidateMeta.SourceID != "vid-1" {
			t.Errorf("expected candidate riding along as metadata, got %v", received.CandidateMeta)
		}
		if got := notify.Current(); got != "Song import started." {
			t.Errorf("expected import feedback, got %q", got)
		}
	})

	t.Run("Missing Channel Defaults Artist To Unknown", func(t *testing.T) {
		payload := NewImportPayload(SearchCandidate{SourceID: "vid-1", Title: "Untitled"})

		if payload.Artist != "Unknown" {
			t.Errorf("expected artist 'Unknown', got %q", payload.Artist)
		}
	})

	t.Run("Ack Without Job ID Is Fine", func(t *testing.T) {
		c, _ := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			w.Write([]byte("accepted"))
		}))

		jobID, err := c.ImportCandidate(context.Background(), SearchCandidate{SourceID: "vid-1"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if jobID != "" {
			t.Errorf("expected empty job ID, got %q", jobID)
		}
	})

	t.Run("Gateway Rejection Publishes And Fails", func(t *testing.T) {
		c, notify := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Song already imported"})
		}))

		_, err := c.ImportCandidate(context.Background(), SearchCandidate{SourceID: "vid-1"})
		if err == nil {
			t.Fatal("expected error")
		}
		if got := notify.Current(); got != "Song already imported" {
			t.Errorf("expected rejection feedback, got %q", got)
		}
	})
}

func TestLibrary(t *testing.T) {
	t.Run("LoadLibrary Replaces The Cache Wholesale", func(t *testing.T) {
		songs := []LibrarySong{{ID: "s1", Title: "One", Artist: "A"}}
		c, _ := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/library" {
				t.Errorf("expected path '/library', got %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(map[string]any{"songs": songs})
		}))

		got, err := c.LoadLibrary(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 1 || got[0].ID != "s1" {
			t.Errorf("expected fetched songs, got %v", got)
		}
		if cached := c.Library(); len(cached) != 1 || cached[0].ID != "s1" {
			t.Errorf("expected cache updated, got %v", cached)
		}

		songs = []LibrarySong{{ID: "s2", Title: "Two", Artist: "B"}}
		if _, err := c.LoadLibrary(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cached := c.Library(); len(cached) != 1 || cached[0].ID != "s2" {
			t.Errorf("expected wholesale replacement, got %v", cached)
		}
	})

	t.Run("Empty Library Publishes Library Is Empty", func(t *testing.T) {
		c, notify := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"songs": []any{}})
		}))

		got, err := c.LoadLibrary(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected empty slice, got %v", got)
		}
		if msg := notify.Current(); msg != "Library is empty." {
			t.Errorf("expected 'Library is empty.' feedback, got %q", msg)
		}
	})

	t.Run("PlaySong Resolves Stream And Records Now Playing", func(t *testing.T) {
		c, _ := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/stream/s1" {
				t.Errorf("expected path '/stream/s1', got %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(map[string]string{"stream_url": "https://cdn.example.com/s1.m3u8"})
		}))

		song := LibrarySong{ID: "s1", Title: "One", Artist: "A"}
		url, err := c.PlaySong(context.Background(), song)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if url != "https://cdn.example.com/s1.m3u8" {
			t.Errorf("expected stream URL, got %q", url)
		}

		playing := c.Playing()
		if playing == nil || playing.Song.ID != "s1" {
			t.Errorf("expected now playing s1, got %v", playing)
		}
	})

	t.Run("Missing Stream URL Is An Error And Leaves Now Playing", func(t *testing.T) {
		paths := map[string]string{
			"/stream/good": `{"stream_url": "https://cdn.example.com/good"}`,
			"/stream/bad":  `{}`,
		}
		c, notify := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(paths[r.URL.Path]))
		}))

		if _, err := c.PlaySong(context.Background(), LibrarySong{ID: "good", Title: "Good"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		_, err := c.PlaySong(context.Background(), LibrarySong{ID: "bad", Title: "Bad"})
		if !errors.Is(err, shared.ErrMissingStreamURL) {
			t.Errorf("expected ErrMissingStreamURL, got %v", err)
		}

		playing := c.Playing()
		if playing == nil || playing.Song.ID != "good" {
			t.Errorf("expected now playing unchanged, got %v", playing)
		}
		if notify.Current() == "" {
			t.Error("expected failure feedback to be published")
		}
	})
}

func TestJobs(t *testing.T) {
	t.Run("JobStatus Decodes The Job", func(t *testing.T) {
		c, _ := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/jobs/job-1" {
				t.Errorf("expected path '/jobs/job-1', got %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(map[string]string{"id": "job-1", "status": "processing"})
		}))

		job, err := c.JobStatus(context.Background(), "job-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if job.Status != "processing" {
			t.Errorf("expected status 'processing', got %q", job.Status)
		}
		if job.Terminal() {
			t.Error("expected processing job to be non-terminal")
		}
	})

	t.Run("Terminal Statuses", func(t *testing.T) {
		for status, terminal := range map[string]bool{
			"queued":     false,
			"processing": false,
			"completed":  true,
			"failed":     true,
		} {
			j := Job{Status: status}
			if j.Terminal() != terminal {
				t.Errorf("expected Terminal()=%v for %q", terminal, status)
			}
		}
	})

	t.Run("AwaitJob Polls Until Terminal", func(t *testing.T) {
		calls := 0
		c, _ := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			status := "processing"
			if calls >= 3 {
				status = "completed"
			}
			json.NewEncoder(w).Encode(map[string]string{"id": "job-1", "status": status})
		}))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		job, err := c.AwaitJob(ctx, "job-1", time.Second)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if job.Status != "completed" {
			t.Errorf("expected completed job, got %q", job.Status)
		}
		if calls < 3 {
			t.Errorf("expected at least 3 polls, got %d", calls)
		}
	})

	t.Run("AwaitJob Honors Context Cancellation", func(t *testing.T) {
		c, _ := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"id": "job-1", "status": "queued"})
		}))

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		_, err := c.AwaitJob(ctx, "job-1", time.Second)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline error, got %v", err)
		}
	})
}

func TestDumpAdmin(t *testing.T) {
	t.Run("Collects Per-Endpoint Failures Without Aborting", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})
		mux.HandleFunc("/admin/users", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Admin only"})
		})
		mux.HandleFunc("/admin/songs", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]map[string]string{{"id": "s1"}})
		})
		mux.HandleFunc("/admin/jobs", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]any{})
		})

		c, _ := newCoordinator(t, mux)

		dump, err := c.DumpAdmin(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if dump.Health == nil {
			t.Error("expected health payload")
		}
		if dump.Songs == nil {
			t.Error("expected songs payload")
		}
		if dump.Users != nil {
			t.Error("expected users to be nil after rejection")
		}
		if len(dump.Errors) != 1 {
			t.Fatalf("expected 1 endpoint error, got %d", len(dump.Errors))
		}
		if dump.Errors[0].Endpoint != "/admin/users" {
			t.Errorf("expected '/admin/users' failure, got %s", dump.Errors[0].Endpoint)
		}
	})

	t.Run("Signed Out Aborts The Whole Dump", func(t *testing.T) {
		notify := feedback.New(time.Minute)
		client := gateway.New("http://example.com", nil, emptyTokens{})
		c := NewCoordinator(client, denyGuard{notify}, notify, nil)

		_, err := c.DumpAdmin(context.Background())
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}
