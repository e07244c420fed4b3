package workflows

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/trax/internal/shared"
)

type coordinatorState struct {
	mu         sync.Mutex
	library    []LibrarySong
	nowPlaying *NowPlaying
}

// LoadLibrary fetches the server's current song list and replaces the cached
// copy wholesale. The server list is authoritative: there is no incremental
// merge, and an import is observed by reloading rather than by guessing
// server state locally.
func (c *Coordinator) LoadLibrary(ctx context.Context) ([]LibrarySong, error) {
	if !c.guard.RequireAuth() {
		return nil, shared.ErrNotAuthenticated
	}

	result, err := c.client.Get(ctx, "/library")
	if err != nil {
		return nil, c.fail(err)
	}

	var payload struct {
		Songs []LibrarySong `json:"songs"`
	}
	if err := result.Decode(&payload); err != nil {
		return nil, c.fail(fmt.Errorf("%w: %v", shared.ErrAPIRequest, err))
	}

	c.state.mu.Lock()
	c.state.library = payload.Songs
	c.state.mu.Unlock()

	if len(payload.Songs) == 0 {
		c.notify.Publish("Library is empty.")
		return []LibrarySong{}, nil
	}

	return payload.Songs, nil
}

// Library returns the cached song list from the last LoadLibrary call.
func (c *Coordinator) Library() []LibrarySong {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	return c.state.library
}

// PlaySong requests a time-limited stream URL for the song and records it as
// now playing. A response without a stream URL is an error, not a silent
// no-op: a null playback source is indistinguishable from a stuck player
// otherwise, and the now-playing state is left unchanged in that case.
func (c *Coordinator) PlaySong(ctx context.Context, song LibrarySong) (string, error) {
	result, err := c.client.Get(ctx, "/stream/"+song.ID)
	if err != nil {
		return "", c.fail(err)
	}

	var payload struct {
		StreamURL string `json:"stream_url"`
	}
	if err := result.Decode(&payload); err != nil || payload.StreamURL == "" {
		return "", c.fail(fmt.Errorf("%w: %s", shared.ErrMissingStreamURL, song.ID))
	}

	c.state.mu.Lock()
	c.state.nowPlaying = &NowPlaying{Song: song, StreamURL: payload.StreamURL}
	c.state.mu.Unlock()

	c.logger.Info("now playing", "title", song.Title, "artist", song.Artist)
	return payload.StreamURL, nil
}

// Playing returns the current now-playing state, or nil when nothing has
// been played yet.
func (c *Coordinator) Playing() *NowPlaying {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	return c.state.nowPlaying
}
