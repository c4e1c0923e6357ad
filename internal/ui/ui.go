package ui

import (
	"fmt"
	"strings"

	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/tasks"
)

const rule = "═══════════════════════════════════════"

// Header frames title between two rules.
func Header(title string) string {
	return rule + "\n" + Title(title) + "\n" + rule + "\n"
}

// TrackLine renders one numbered track. Numbers are one based for display.
func TrackLine(n int, t models.Track, marked bool) string {
	cursor := "  "
	if marked {
		cursor = OK("> ")
	}
	line := fmt.Sprintf("%s%2d. %s [%s]", cursor, n, t.String(), t.Duration())
	if t.Album != "" {
		line += " " + Help(t.Album)
	}
	return line + " " + Badge(t.SourceProvider)
}

// TrackList renders tracks, marking the one at index marked (zero based, -1 for none).
func TrackList(tracks []models.Track, marked int) string {
	if len(tracks) == 0 {
		return Help("  (no tracks)") + "\n"
	}
	var b strings.Builder
	for i, t := range tracks {
		b.WriteString(TrackLine(i+1, t, i == marked))
		b.WriteByte('\n')
	}
	return b.String()
}

// PlaylistView renders a playlist with its tracks.
func PlaylistView(p *models.Playlist, active bool) string {
	name := Title(p.Name)
	if active {
		name += " " + OK("*")
	}
	return fmt.Sprintf("%s %s\n%s", name, Help(fmt.Sprintf("(%d tracks)", p.Len())), TrackList(p.Tracks, -1))
}

// Progress renders a batch update for a terminal.
func Progress(u tasks.ProgressUpdate) string {
	switch u.Phase {
	case tasks.ItemDone:
		return OK(u.Message)
	case tasks.ItemFailed:
		return Err(u.Message)
	case tasks.Bundle, tasks.Complete:
		return Title(u.Message)
	default:
		return u.Message
	}
}

// BatchSummary reports the outcome of a batch download.
func BatchSummary(r *models.BatchResult) string {
	var b strings.Builder
	b.WriteString(Header("Batch Complete!"))
	fmt.Fprintf(&b, "Playlist: %s (%s)\n", r.Playlist, r.Mode)
	fmt.Fprintf(&b, "Downloaded: %s\n", OK(fmt.Sprintf("%d/%d", len(r.Successes), r.Total())))
	if r.ArchivePath != "" {
		fmt.Fprintf(&b, "Archive: %s\n", r.ArchivePath)
	}
	if r.FailureCount > 0 {
		b.WriteString("\n" + Warn(fmt.Sprintf("Failed to download %d tracks:", r.FailureCount)) + "\n")
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "  - %d. %s: %s\n", f.Index, f.Title, f.Reason)
		}
	}
	return b.String()
}
