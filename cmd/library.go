package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/trax/internal/formatter"
	"github.com/desertthunder/trax/internal/shared"
	"github.com/desertthunder/trax/internal/workflows"
	"github.com/urfave/cli/v3"
)

// LibraryList fetches the signed-in user's library and prints or exports it.
func (r *Runner) LibraryList(ctx context.Context, cmd *cli.Command) error {
	songs, err := r.flows.LoadLibrary(ctx)
	if err != nil {
		return err
	}

	if len(songs) == 0 {
		return nil
	}

	format := strings.ToLower(cmd.String("format"))
	if format != "" {
		return r.exportLibrary(songs, format, cmd.String("output"))
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}

	r.writePlain("Library (%d songs):\n\n", len(songs))
	for i, s := range songs {
		r.writePlain("%d. %s - %s [%s]\n", i+1, s.Title, s.Artist, s.ID)
	}

	return nil
}

// exportLibrary renders the library through the requested formatter and
// writes it to stdout or the given path.
func (r *Runner) exportLibrary(songs []workflows.LibrarySong, format, output string) error {
	var data []byte
	var err error

	switch format {
	case "csv":
		data, err = formatter.ExportToCSV(songs)
	case "md", "markdown":
		data = formatter.ExportToMarkdown("Library", songs)
	case "text", "txt":
		data = formatter.ExportToText(songs)
	default:
		return fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return err
	}

	if output == "" {
		return r.writePlain("%s", string(data))
	}

	if err := formatter.WriteToFile(output, data); err != nil {
		return err
	}

	return r.writePlain("✓ Exported %d songs to %s\n", len(songs), output)
}

// LibraryPlay resolves a stream URL for a song by catalog ID.
func (r *Runner) LibraryPlay(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	song := workflows.LibrarySong{ID: id}
	for _, s := range r.flows.Library() {
		if s.ID == id {
			song = s
			break
		}
	}

	url, err := r.flows.PlaySong(ctx, song)
	if err != nil {
		return err
	}

	if song.Title != "" {
		r.writePlain("♪ %s - %s\n", song.Title, song.Artist)
	}

	return r.writePlain("%s\n", url)
}
