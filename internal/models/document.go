package models

import (
	"encoding/json"
	"time"
)

// PlaylistDocument is the portable playlist export format.
type PlaylistDocument struct {
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
	Songs   []Track   `json:"songs"`
}

// NewPlaylistDocument snapshots p at created.
func NewPlaylistDocument(p *Playlist, created time.Time) PlaylistDocument {
	return PlaylistDocument{Name: p.Name, Created: created, Songs: p.Clone().Tracks}
}

// legacySong is the loosely keyed song shape written by older exports.
type legacySong struct {
	Track
	URL       string   `json:"url"`
	ID        string   `json:"id"`
	Uploader  string   `json:"uploader"`
	Duration  *float64 `json:"duration"`
	Thumbnail string   `json:"thumbnail"`
	Source    string   `json:"source"`
}

// UnmarshalJSON accepts both the current song keys and the legacy
// url/uploader/duration/thumbnail keys. Created may be missing or use
// a timestamp without zone.
func (d *PlaylistDocument) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name    string       `json:"name"`
		Created string       `json:"created"`
		Songs   []legacySong `json:"songs"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.Name = raw.Name
	d.Created = parseCreated(raw.Created)
	d.Songs = make([]Track, 0, len(raw.Songs))
	for _, s := range raw.Songs {
		d.Songs = append(d.Songs, s.normalize())
	}
	return nil
}

func (s legacySong) normalize() Track {
	t := s.Track
	if t.SourceURL == "" {
		t.SourceURL = s.URL
	}
	if t.Artist == "" {
		t.Artist = s.Uploader
	}
	if t.DurationSeconds == 0 && s.Duration != nil && *s.Duration > 0 {
		t.DurationSeconds = int(*s.Duration)
	}
	if t.ThumbnailURL == "" {
		t.ThumbnailURL = s.Thumbnail
	}
	if t.ProviderNativeID == "" {
		t.ProviderNativeID = s.ID
	}
	if t.SourceProvider == "" {
		if p, err := ParseProvider(s.Source); err == nil && p.Valid() {
			t.SourceProvider = p
		} else {
			t.SourceProvider = GuessProvider(t.SourceURL)
		}
	}
	return t
}

var createdLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05", "2006-01-02"}

func parseCreated(s string) time.Time {
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
