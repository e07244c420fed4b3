package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/trax/internal/feedback"
	"github.com/desertthunder/trax/internal/workflows"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	LibraryView
)

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	view   ViewState
	flows  *workflows.Coordinator
	notify *feedback.Notifier
	width  int
	height int

	songList list.Model
	songs    []workflows.LibrarySong
	playing  *workflows.NowPlaying
	err      error
	help     help.Model
	keys     keyMap
}

type libraryFetchedMsg struct {
	songs []workflows.LibrarySong
	err   error
}

type streamResolvedMsg struct {
	song workflows.LibrarySong
	url  string
	err  error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, flows *workflows.Coordinator, notify *feedback.Notifier) *Model {
	return &Model{
		ctx:    ctx,
		view:   LoadingView,
		flows:  flows,
		notify: notify,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by loading the library.
func (m *Model) Init() tea.Cmd {
	return m.fetchLibrary()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.songList.Width() == 0 {
			m.songList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case libraryFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.songs = msg.songs
		items := make([]list.Item, len(msg.songs))
		for i, song := range msg.songs {
			items[i] = songItem{song: song}
		}
		m.songList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.songList.Title = "Library"
		m.songList.SetSize(m.width-4, m.height-8)
		m.view = LibraryView
		return m, nil

	case streamResolvedMsg:
		if msg.err != nil {
			// The coordinator already published the feedback message;
			// the footer picks it up on the next repaint.
			return m, nil
		}
		m.playing = &workflows.NowPlaying{Song: msg.song, StreamURL: msg.url}
		return m, nil
	}

	if m.view == LibraryView {
		var cmd tea.Cmd
		m.songList, cmd = m.songList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	if m.view == LoadingView {
		return styles.title.Render("Loading library...")
	}

	header := ""
	if m.playing != nil {
		header = styles.ok.Render(fmt.Sprintf("♪ %s - %s", m.playing.Song.Title, m.playing.Song.Artist)) + "\n"
	}

	footer := m.help.ShortHelpView(m.keys.ShortHelp())
	if toast := m.notify.Current(); toast != "" {
		footer = styles.warn.Render(toast) + "\n" + footer
	}

	return fmt.Sprintf("%s%s\n\n%s", header, m.songList.View(), footer)
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		return m, m.fetchLibrary()
	case "enter":
		if m.view != LibraryView {
			return m, nil
		}
		selected := m.songList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(songItem); ok {
				return m, m.resolveStream(item.song)
			}
		}
	}

	if m.view == LibraryView {
		var cmd tea.Cmd
		m.songList, cmd = m.songList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) fetchLibrary() tea.Cmd {
	return func() tea.Msg {
		songs, err := m.flows.LoadLibrary(m.ctx)
		return libraryFetchedMsg{songs: songs, err: err}
	}
}

func (m *Model) resolveStream(song workflows.LibrarySong) tea.Cmd {
	return func() tea.Msg {
		url, err := m.flows.PlaySong(m.ctx, song)
		return streamResolvedMsg{song: song, url: url, err: err}
	}
}
