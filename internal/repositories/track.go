package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/shared"
)

// TrackRepository persists resolved track metadata keyed by source url.
type TrackRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db, now: time.Now}
}

const trackColumns = `source_url, source_provider, provider_native_id, title, artist, album, duration_seconds, thumbnail_url`

// Put inserts track, or refreshes the stored metadata when its source url is already known.
func (r *TrackRepository) Put(track models.Track) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := r.now()
	query := `
		INSERT INTO tracks (` + trackColumns + `, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_url) DO UPDATE SET
			source_provider = excluded.source_provider,
			provider_native_id = excluded.provider_native_id,
			title = excluded.title,
			artist = excluded.artist,
			album = excluded.album,
			duration_seconds = excluded.duration_seconds,
			thumbnail_url = excluded.thumbnail_url,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		track.SourceURL,
		string(track.SourceProvider),
		track.ProviderNativeID,
		track.Title,
		track.Artist,
		track.Album,
		track.DurationSeconds,
		track.ThumbnailURL,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert track: %w", err)
	}
	return nil
}

// Get retrieves a track by source url. A miss is [shared.ErrTrackNotFound].
func (r *TrackRepository) Get(sourceURL string) (*models.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE source_url = ?`

	track, err := scanTrack(r.db.QueryRow(query, sourceURL))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, sourceURL)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}
	return track, nil
}

// List returns cached tracks, newest first, optionally filtered by provider.
// An empty provider or [models.ProviderAny] lists everything.
func (r *TrackRepository) List(provider models.Provider) ([]models.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks`
	args := []any{}

	if provider != "" && provider != models.ProviderAny {
		query += " WHERE source_provider = ?"
		args = append(args, string(provider))
	}
	query += " ORDER BY updated_at DESC, source_url ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	tracks := []models.Track{}
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, *track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return tracks, nil
}

// Delete removes a cached track.
func (r *TrackRepository) Delete(sourceURL string) error {
	result, err := r.db.Exec(`DELETE FROM tracks WHERE source_url = ?`, sourceURL)
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, sourceURL)
	}
	return nil
}

// Purge removes every cached track and returns how many there were.
func (r *TrackRepository) Purge() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM tracks`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge tracks: %w", err)
	}
	return result.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrack(row scanner) (*models.Track, error) {
	var (
		t        models.Track
		provider string
	)
	err := row.Scan(&t.SourceURL, &provider, &t.ProviderNativeID, &t.Title, &t.Artist, &t.Album, &t.DurationSeconds, &t.ThumbnailURL)
	if err != nil {
		return nil, err
	}
	t.SourceProvider = models.Provider(provider)
	return &t, nil
}
