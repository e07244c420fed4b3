// package formatter exports the library song list to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/trax/internal/workflows"
)

// ExportToCSV converts a song list to CSV with columns: ID, Title, Artist
func ExportToCSV(songs []workflows.LibrarySong) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		record := []string{song.ID, song.Title, song.Artist}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a song list to a Markdown table.
func ExportToMarkdown(title string, songs []workflows.LibrarySong) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "%d songs\n\n", len(songs))
	b.WriteString("| # | Title | Artist |\n")
	b.WriteString("|---|-------|--------|\n")

	for i, song := range songs {
		fmt.Fprintf(&b, "| %d | %s | %s |\n", i+1, escapePipes(song.Title), escapePipes(song.Artist))
	}

	return []byte(b.String())
}

// ExportToText converts a song list to a plain text listing.
func ExportToText(songs []workflows.LibrarySong) []byte {
	var b strings.Builder

	for i, song := range songs {
		artist := song.Artist
		if artist == "" {
			artist = "Unknown artist"
		}
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, song.Title, artist)
	}

	return []byte(b.String())
}

// WriteToFile writes exported data to the specified path.
func WriteToFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
