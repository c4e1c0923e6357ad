package models

import "time"

// UploadedTrack is an entry in the simulated creator inventory.
type UploadedTrack struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	Genre      string    `json:"genre,omitempty"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
	Plays      int       `json:"plays"`
	Promoted   string    `json:"promoted,omitempty"`
}
