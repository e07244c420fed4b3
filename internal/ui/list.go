package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/trax/internal/workflows"
)

var _ list.Item = songItem{}

// songItem wraps [workflows.LibrarySong] to implement [list.Item].
type songItem struct {
	song workflows.LibrarySong
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string       { return i.song.Title }
func (i songItem) Description() string {
	if i.song.Artist == "" {
		return "Unknown artist"
	}
	return i.song.Artist
}
